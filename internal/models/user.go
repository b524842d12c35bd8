package models

import "encoding/json"

// User represents a user account.
type User struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"password_hash"`
	Avatar       string `json:"avatar,omitempty"`
}

// HasAvatar reports whether an avatar asset is recorded for the account.
func (u *User) HasAvatar() bool {
	return u != nil && u.Avatar != ""
}

// UnmarshalJSON accepts records written by older versions, which stored
// the display name as "nickname" and a null avatar.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		Username     string  `json:"username"`
		DisplayName  string  `json:"display_name"`
		Nickname     string  `json:"nickname"`
		PasswordHash string  `json:"password_hash"`
		Avatar       *string `json:"avatar"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Username = raw.Username
	u.DisplayName = raw.DisplayName
	if u.DisplayName == "" {
		u.DisplayName = raw.Nickname
	}
	if u.DisplayName == "" {
		u.DisplayName = raw.Username
	}
	u.PasswordHash = raw.PasswordHash
	u.Avatar = ""
	if raw.Avatar != nil {
		u.Avatar = *raw.Avatar
	}
	return nil
}
