package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talash/backend/internal/models"
)

func newStorage(t *testing.T, maxBytes int64) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewStorageService(dir, maxBytes)
	require.NoError(t, err)
	return svc, dir
}

func TestStorageSave(t *testing.T) {
	svc, dir := newStorage(t, 1024)

	stored, err := svc.Save(makeUpload(t, "photo.jpg", "image/jpeg", 100))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(stored.URL, ".jpg"))

	name := strings.TrimPrefix(stored.URL, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Len(t, data, 100)

	var meta models.ImageMeta
	require.NoError(t, json.Unmarshal(stored.Meta, &meta))
	assert.Equal(t, "image/jpeg", meta.ContentType)
	assert.EqualValues(t, 100, meta.SizeBytes)
	assert.Equal(t, "photo.jpg", meta.OriginalName)
}

func TestStorageExtensionFollowsContentType(t *testing.T) {
	svc, _ := newStorage(t, 1024)

	cases := map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
	for contentType, ext := range cases {
		stored, err := svc.Save(makeUpload(t, "x.bin", contentType, 10))
		require.NoError(t, err, contentType)
		assert.True(t, strings.HasSuffix(stored.URL, ext), "%s -> %s", contentType, stored.URL)
	}

	// Charset parameters on the declared type are tolerated.
	stored, err := svc.Save(makeUpload(t, "x.png", "image/png; charset=binary", 10))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.URL, ".png"))
}

func TestStorageRejectsDisallowedTypes(t *testing.T) {
	svc, dir := newStorage(t, 1024)

	for _, contentType := range []string{"application/pdf", "text/html", "image/svg+xml", ""} {
		_, err := svc.Save(makeUpload(t, "x.bin", contentType, 10))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, contentType)
		assert.Equal(t, "file", ve.Field)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads must not touch disk")
}

func TestStorageRejectsOversized(t *testing.T) {
	svc, dir := newStorage(t, 64)

	_, err := svc.Save(makeUpload(t, "big.jpg", "image/jpeg", 65))
	assert.ErrorIs(t, err, ErrImageTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorageRemove(t *testing.T) {
	svc, dir := newStorage(t, 1024)

	stored, err := svc.Save(makeUpload(t, "photo.jpg", "image/jpeg", 10))
	require.NoError(t, err)
	require.NoError(t, svc.Remove(stored.URL))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Removing twice or removing junk is a no-op.
	assert.NoError(t, svc.Remove(stored.URL))
	assert.NoError(t, svc.Remove("/uploads/../../../etc/passwd"))
}
