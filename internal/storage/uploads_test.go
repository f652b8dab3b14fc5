package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "charavault/internal/errors"
)

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func newTestStore(t *testing.T) (*UploadStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewUploadStore(dir)
	require.NoError(t, err)
	return store, dir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadStore_Place(t *testing.T) {
	t.Run("derives filenames from the character id", func(t *testing.T) {
		store, dir := newTestStore(t)
		headshot := fileHeader(t, "face.png", "headshot-bytes")
		turnarounds := []*multipart.FileHeader{
			fileHeader(t, "left.jpg", "left"),
			fileHeader(t, "right.webp", "right"),
		}

		headshotName, turnaroundNames, err := store.Place(42, headshot, turnarounds)

		assert.NoError(t, err)
		assert.Equal(t, "42_profile.png", headshotName)
		assert.Equal(t, []string{"42_image1.jpg", "42_image2.webp"}, turnaroundNames)

		saved, err := os.ReadFile(filepath.Join(dir, "42_profile.png"))
		assert.NoError(t, err)
		assert.Equal(t, "headshot-bytes", string(saved))
	})

	t.Run("uppercase extensions are folded", func(t *testing.T) {
		store, _ := newTestStore(t)

		headshotName, _, err := store.Place(9, fileHeader(t, "Face.PNG", "x"), nil)

		assert.NoError(t, err)
		assert.Equal(t, "9_profile.png", headshotName)
	})

	t.Run("skipped empty slots do not consume a position", func(t *testing.T) {
		store, _ := newTestStore(t)
		turnarounds := []*multipart.FileHeader{
			fileHeader(t, "a.png", "a"),
			nil,
			{Filename: ""},
			fileHeader(t, "b.gif", "b"),
		}

		_, turnaroundNames, err := store.Place(5, fileHeader(t, "face.jpeg", "x"), turnarounds)

		assert.NoError(t, err)
		assert.Equal(t, []string{"5_image1.png", "5_image2.gif"}, turnaroundNames)
	})

	t.Run("missing headshot", func(t *testing.T) {
		store, dir := newTestStore(t)

		_, _, err := store.Place(5, nil, nil)

		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, dirEntries(t, dir))
	})

	t.Run("disallowed headshot extension", func(t *testing.T) {
		store, dir := newTestStore(t)

		_, _, err := store.Place(5, fileHeader(t, "malware.exe", "x"), nil)

		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, dirEntries(t, dir))
	})

	t.Run("disallowed turnaround extension writes nothing", func(t *testing.T) {
		store, dir := newTestStore(t)
		turnarounds := []*multipart.FileHeader{fileHeader(t, "notes.txt", "x")}

		_, _, err := store.Place(5, fileHeader(t, "face.png", "x"), turnarounds)

		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, dirEntries(t, dir))
	})

	t.Run("more than eight turnarounds rejected", func(t *testing.T) {
		store, dir := newTestStore(t)
		var turnarounds []*multipart.FileHeader
		for i := 0; i < 9; i++ {
			turnarounds = append(turnarounds, fileHeader(t, "t.png", "x"))
		}

		_, _, err := store.Place(5, fileHeader(t, "face.png", "x"), turnarounds)

		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, dirEntries(t, dir))
	})

	t.Run("exactly eight turnarounds allowed", func(t *testing.T) {
		store, _ := newTestStore(t)
		var turnarounds []*multipart.FileHeader
		for i := 0; i < 8; i++ {
			turnarounds = append(turnarounds, fileHeader(t, "t.png", "x"))
		}

		_, turnaroundNames, err := store.Place(5, fileHeader(t, "face.png", "x"), turnarounds)

		assert.NoError(t, err)
		assert.Len(t, turnaroundNames, 8)
	})

	t.Run("allow-listed extensions", func(t *testing.T) {
		for _, ext := range []string{"png", "jpg", "jpeg", "gif", "webp"} {
			store, _ := newTestStore(t)
			_, _, err := store.Place(5, fileHeader(t, "face."+ext, "x"), nil)
			assert.NoError(t, err, "extension %s should be allowed", ext)
		}
	})
}

func TestUploadStore_Remove(t *testing.T) {
	store, dir := newTestStore(t)
	headshotName, turnaroundNames, err := store.Place(5, fileHeader(t, "face.png", "x"),
		[]*multipart.FileHeader{fileHeader(t, "t.png", "x")})
	require.NoError(t, err)
	require.Len(t, dirEntries(t, dir), 2)

	store.Remove(append([]string{headshotName}, turnaroundNames...))

	assert.Empty(t, dirEntries(t, dir))

	// removing again is a no-op
	store.Remove([]string{headshotName})
}
