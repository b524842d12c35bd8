package auth

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"personal-ledger/internal/storage"
)

const defaultAvatarExt = ".png"

// AvatarStore keeps one image per user, named after the username.
type AvatarStore struct {
	dir string
}

func NewAvatarStore(dir string) *AvatarStore {
	return &AvatarStore{dir: dir}
}

// Put copies src into the store as the user's avatar and returns the stored
// path. Any earlier avatar of the user is replaced, whatever its extension.
func (a *AvatarStore) Put(username, src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("avatar source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("avatar source %s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open avatar source: %w", err)
	}
	defer in.Close()

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = defaultAvatarExt
	}
	base := avatarBase(username)
	dst := filepath.Join(a.dir, base+ext)

	err = storage.WriteFileAtomic(dst, 0o644, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("copy avatar: %w", err)
	}

	// Drop assets of the same user left with another extension.
	others, err := a.assets(base)
	if err != nil {
		return dst, nil
	}
	for _, p := range others {
		if p != dst {
			os.Remove(p)
		}
	}
	return dst, nil
}

// Path returns the user's stored avatar, if any.
func (a *AvatarStore) Path(username string) (string, bool) {
	paths, err := a.assets(avatarBase(username))
	if err != nil || len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

func (a *AvatarStore) assets(base string) ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isTempFile(name) {
			continue
		}
		if strings.TrimSuffix(name, filepath.Ext(name)) == base {
			out = append(out, filepath.Join(a.dir, name))
		}
	}
	return out, nil
}

// isTempFile matches the in-flight files of storage.WriteFileAtomic,
// named "."+target+".tmp-<random>".
func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasPrefix(filepath.Ext(name), ".tmp-")
}

func avatarBase(username string) string {
	return url.PathEscape(username)
}
