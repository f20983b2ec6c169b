package bulkimport

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	errUnsafeEntry     = errors.New("entry escapes workspace")
	errSymlinkEntry    = errors.New("symlink entries are not allowed")
	errArchiveTooLarge = errors.New("archive expands beyond limit")
)

// Extractor unpacks a staged archive into its own workspace directory.
type Extractor struct {
	maxExtractedBytes int64
}

func NewExtractor(maxExtractedBytes int64) *Extractor {
	return &Extractor{maxExtractedBytes: maxExtractedBytes}
}

// WorkspacePath derives the workspace for a staged archive: it sits beside the
// archive and shares its unique suffix, so upload_X.zip extracts to extract_X.
func WorkspacePath(archivePath string) string {
	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	base = strings.TrimPrefix(base, stagedPrefix)
	return filepath.Join(filepath.Dir(archivePath), workspacePrefix+base)
}

// Extract creates workspace and unpacks every entry of archivePath into it.
// All failures wrap ErrExtraction.
func (e *Extractor) Extract(archivePath, workspace string) error {
	if err := os.Mkdir(workspace, 0o700); err != nil {
		return fmt.Errorf("%w: create workspace: %v", ErrExtraction, err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		if reader != nil {
			reader.Close()
		}
		return fmt.Errorf("%w: open archive: %v", ErrExtraction, err)
	}
	defer reader.Close()

	var written int64
	for _, f := range reader.File {
		target, err := entryTarget(workspace, f.Name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrExtraction, f.Name, err)
		}

		mode := f.Mode()
		switch {
		case mode&os.ModeSymlink != 0:
			return fmt.Errorf("%w: %s: %v", ErrExtraction, f.Name, errSymlinkEntry)
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(target, 0o700); err != nil {
				return fmt.Errorf("%w: mkdir %s: %v", ErrExtraction, f.Name, err)
			}
			continue
		}

		n, err := e.extractFile(f, target, e.maxExtractedBytes-written)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrExtraction, f.Name, err)
		}
		written += n
	}

	return nil
}

func (e *Extractor) extractFile(f *zip.File, target string, budget int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return 0, err
	}

	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, io.LimitReader(rc, budget+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, err
	}
	if n > budget {
		return n, errArchiveTooLarge
	}
	return n, nil
}

// entryTarget maps an archive entry name to a path inside workspace, rejecting
// absolute names and names that climb out with "..".
func entryTarget(workspace, name string) (string, error) {
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if clean == "" || filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" || strings.HasPrefix(name, "/") {
		return "", errUnsafeEntry
	}

	target := filepath.Join(workspace, clean)
	rel, err := filepath.Rel(workspace, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errUnsafeEntry
	}
	return target, nil
}
