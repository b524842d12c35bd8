package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func avatarFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAvatarStoreReplacesOtherExtension(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "avatars")
	store := NewAvatarStore(dir)

	first, err := store.Put("kim", writeImage(t, "a.PNG", "png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "kim.png"), first)

	second, err := store.Put("kim", writeImage(t, "b.jpg", "jpg"))
	require.NoError(t, err)
	assert.Equal(t, []string{"kim.jpg"}, avatarFiles(t, dir))

	got, ok := store.Path("kim")
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestAvatarStoreDotPrefixedUsername(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "avatars")
	store := NewAvatarStore(dir)

	first, err := store.Put(".kim", writeImage(t, "a.png", "png"))
	require.NoError(t, err)

	got, ok := store.Path(".kim")
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, err = store.Put(".kim", writeImage(t, "b.jpg", "jpg"))
	require.NoError(t, err)
	assert.Equal(t, []string{".kim.jpg"}, avatarFiles(t, dir))

	// A different user is left alone.
	_, err = store.Put("kim", writeImage(t, "c.png", "png"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".kim.jpg", "kim.png"}, avatarFiles(t, dir))
}

func TestAvatarStoreIgnoresTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "avatars")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".kim.png.tmp-123456"), []byte("partial"), 0o644))

	store := NewAvatarStore(dir)
	_, ok := store.Path(".kim.png")
	assert.False(t, ok, "in-flight files are not avatars")

	_, ok = store.Path("kim")
	assert.False(t, ok)
}

func TestAvatarStoreMissingSource(t *testing.T) {
	store := NewAvatarStore(filepath.Join(t.TempDir(), "avatars"))

	_, err := store.Put("kim", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, ok := store.Path("kim")
	assert.False(t, ok)
}
