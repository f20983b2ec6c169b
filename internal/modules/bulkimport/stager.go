package bulkimport

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ArchiveExt  = ".zip"
	ManifestExt = ".txt"

	stagedPrefix    = "upload_"
	workspacePrefix = "extract_"
)

// Stager writes uploaded archives into a private upload root.
type Stager struct {
	root     string
	maxBytes int64
	now      func() time.Time
}

func NewStager(root string, maxBytes int64) *Stager {
	return &Stager{root: root, maxBytes: maxBytes, now: time.Now}
}

// Validate runs the intake checks that need no disk access.
func (s *Stager) Validate(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ArchiveExt) {
		return ErrInvalidExtension
	}
	if fileHeader.Size > s.maxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// Stage copies the upload to upload_<nanos>_<jobID>.zip under the root and
// returns the path. The root is created on first use.
func (s *Stager) Stage(jobID string, fileHeader *multipart.FileHeader) (string, error) {
	if err := s.Validate(fileHeader); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.root, 0o700); err != nil {
		return "", fmt.Errorf("create upload root: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s%d_%s%s", stagedPrefix, s.now().UnixNano(), jobID, ArchiveExt)
	path := filepath.Join(s.root, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create staged archive: %w", err)
	}

	// the header size is client supplied, so the copy enforces the limit itself
	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("write staged archive: %w", err)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("close staged archive: %w", closeErr)
	case n > s.maxBytes:
		_ = os.Remove(path)
		return "", ErrFileTooLarge
	}

	return path, nil
}
