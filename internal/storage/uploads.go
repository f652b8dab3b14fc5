package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "charavault/internal/errors"
	"charavault/internal/model"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Placer derives deterministic filenames for a character's uploads and
// persists the files. Remove is the compensating action when the surrounding
// transaction aborts after files were written.
type Placer interface {
	Place(characterID uint, headshot *multipart.FileHeader, turnarounds []*multipart.FileHeader) (headshotFilename string, turnaroundFilenames []string, err error)
	Remove(filenames []string)
}

// UploadStore writes uploaded assets into a server-managed directory.
type UploadStore struct {
	dir string
}

var _ Placer = (*UploadStore)(nil)

// NewUploadStore creates the upload directory if needed.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// Place validates every upload before writing anything, then saves the
// headshot as {id}_profile.{ext} and each turnaround as {id}_image{i}.{ext}.
// Empty upload slots are skipped and do not consume a position number, so i
// runs 1..N over the files actually saved. Filenames cannot collide as long
// as character ids are never reused.
func (s *UploadStore) Place(characterID uint, headshot *multipart.FileHeader, turnarounds []*multipart.FileHeader) (string, []string, error) {
	if headshot == nil || headshot.Filename == "" {
		return "", nil, apperrors.NewValidationError("headshot image is required")
	}

	headshotExt, err := imageExtension(headshot.Filename)
	if err != nil {
		return "", nil, err
	}

	kept := make([]*multipart.FileHeader, 0, len(turnarounds))
	for _, fh := range turnarounds {
		if fh == nil || fh.Filename == "" {
			continue
		}
		kept = append(kept, fh)
	}
	if len(kept) > model.MaxTurnaroundImages {
		return "", nil, apperrors.NewValidationError(fmt.Sprintf("at most %d turnaround images allowed", model.MaxTurnaroundImages))
	}
	turnaroundExts := make([]string, len(kept))
	for i, fh := range kept {
		ext, err := imageExtension(fh.Filename)
		if err != nil {
			return "", nil, err
		}
		turnaroundExts[i] = ext
	}

	var saved []string
	headshotName := fmt.Sprintf("%d_profile.%s", characterID, headshotExt)
	if err := s.save(headshot, headshotName); err != nil {
		return "", nil, err
	}
	saved = append(saved, headshotName)

	turnaroundNames := make([]string, 0, len(kept))
	for i, fh := range kept {
		name := fmt.Sprintf("%d_image%d.%s", characterID, i+1, turnaroundExts[i])
		if err := s.save(fh, name); err != nil {
			s.Remove(saved)
			return "", nil, err
		}
		saved = append(saved, name)
		turnaroundNames = append(turnaroundNames, name)
	}

	return headshotName, turnaroundNames, nil
}

// Remove deletes previously placed files, ignoring missing ones.
func (s *UploadStore) Remove(filenames []string) {
	for _, name := range filenames {
		_ = os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	}
}

func (s *UploadStore) save(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// imageExtension returns the lowercased extension without the dot, rejecting
// anything outside the image allow-list.
func imageExtension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return "", apperrors.NewValidationError(fmt.Sprintf("file type %q is not allowed", ext))
	}
	return ext, nil
}
