// Package auth registers and authenticates ledger users and manages their
// profiles.
package auth

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"personal-ledger/internal/config"
	"personal-ledger/internal/logging"
	"personal-ledger/internal/models"
	"personal-ledger/internal/session"
)

// MinPasswordLength is the shortest password UpdateProfile will apply.
const MinPasswordLength = 4

// ProfileUpdate lists the profile fields to change. Empty fields are left alone.
type ProfileUpdate struct {
	DisplayName  string
	NewPassword  string
	AvatarSource string
}

// Service provides registration, login, lookup and profile updates over an
// account file. It does no locking; the host serialises calls.
type Service struct {
	accounts *AccountFile
	avatars  *AvatarStore
	hasher   Hasher
	session  *session.Session
	logger   *slog.Logger
}

// NewService wires the credential service. sess may be nil when no
// session needs refreshing after profile updates.
func NewService(accounts *AccountFile, avatars *AvatarStore, hasher Hasher, sess *session.Session, logger *slog.Logger) *Service {
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	return &Service{
		accounts: accounts,
		avatars:  avatars,
		hasher:   hasher,
		session:  sess,
		logger:   logging.For(logger, logging.ComponentAuth),
	}
}

// NewServiceFromConfig builds a service on the files under cfg.DataDir.
func NewServiceFromConfig(cfg *config.Config, sess *session.Session, logger *slog.Logger) (*Service, error) {
	hasher, err := NewHasher(cfg.PasswordHash)
	if err != nil {
		return nil, err
	}
	return NewService(NewAccountFile(cfg.AccountsPath()), NewAvatarStore(cfg.AvatarsDir()), hasher, sess, logger), nil
}

// Register creates an account. It returns false without an error when a
// field is blank or the username is taken.
func (s *Service) Register(username, password, displayName string) (bool, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" || strings.TrimSpace(password) == "" || displayName == "" {
		s.logger.Warn("Registration rejected", "reason", "empty field")
		return false, nil
	}

	accounts, err := s.accounts.Load()
	if err != nil {
		return false, err
	}
	if _, taken := accounts[username]; taken {
		s.logger.Warn("Registration rejected", "username", username, "reason", "username taken")
		return false, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	accounts[username] = models.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.accounts.Save(accounts); err != nil {
		return false, err
	}

	s.logger.Info("User registered", "username", username)
	return true, nil
}

// Login returns the account when the password matches. Unknown users and
// wrong passwords both yield nil with a nil error. The session is not touched.
func (s *Service) Login(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	accounts, err := s.accounts.Load()
	if err != nil {
		return nil, err
	}
	u, ok := accounts[username]
	if !ok || !s.hasher.Verify(password, u.PasswordHash) {
		s.logger.Warn("Login failed", "username", username)
		return nil, nil
	}
	s.logger.Info("Login succeeded", "username", username)
	return &u, nil
}

// GetUser looks up an account, returning nil when absent.
func (s *Service) GetUser(username string) (*models.User, error) {
	accounts, err := s.accounts.Load()
	if err != nil {
		return nil, err
	}
	u, ok := accounts[strings.TrimSpace(username)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// UpdateProfile applies upd to the account and persists it. It returns nil
// for an unknown username.
//
// A new password shorter than MinPasswordLength is ignored rather than
// rejected. A failed avatar copy keeps the previous avatar.
func (s *Service) UpdateProfile(username string, upd ProfileUpdate) (*models.User, error) {
	username = strings.TrimSpace(username)
	accounts, err := s.accounts.Load()
	if err != nil {
		return nil, err
	}
	u, ok := accounts[username]
	if !ok {
		return nil, nil
	}

	if name := strings.TrimSpace(upd.DisplayName); name != "" {
		u.DisplayName = name
	}

	if strings.TrimSpace(upd.NewPassword) != "" {
		if utf8.RuneCountInString(upd.NewPassword) >= MinPasswordLength {
			hash, err := s.hasher.Hash(upd.NewPassword)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = hash
		} else {
			s.logger.Warn("New password ignored", "username", username, "reason", "too short")
		}
	}

	if upd.AvatarSource != "" && s.avatars != nil {
		path, err := s.avatars.Put(username, upd.AvatarSource)
		if err != nil {
			s.logger.Warn("Avatar not updated", "username", username, "error", err)
		} else {
			u.Avatar = path
		}
	}

	accounts[username] = u
	if err := s.accounts.Save(accounts); err != nil {
		return nil, err
	}
	s.logger.Info("Profile updated", "username", username)

	if s.session != nil {
		s.session.Refresh(&u)
	}
	return &u, nil
}

// AvatarPath returns the stored avatar for username, if any.
func (s *Service) AvatarPath(username string) (string, bool) {
	if s.avatars == nil {
		return "", false
	}
	return s.avatars.Path(username)
}
