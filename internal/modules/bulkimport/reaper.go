package bulkimport

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Reap removes the job's staged archive and workspace. Paths that are already
// gone are fine. Failures are logged and returned for callers that care; the
// import flow ignores them.
func Reap(job *UploadJob) error {
	if job == nil {
		return nil
	}

	var errs []error
	if job.ArchivePath != "" {
		if err := os.Remove(job.ArchivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove archive: %w", err))
		}
	}
	if job.WorkspacePath != "" {
		if err := os.RemoveAll(job.WorkspacePath); err != nil {
			errs = append(errs, fmt.Errorf("remove workspace: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		log.Printf("import_reap_failed job_id=%s user_id=%d archive=%s workspace=%s error=%q",
			job.ID, job.UserID, job.ArchivePath, job.WorkspacePath, err.Error())
	}
	return err
}

// SweepStale removes staged archives and workspaces under root that were last
// modified before now-maxAge. It cleans up after processes that died before
// their jobs could reap. A missing root is not an error.
func SweepStale(root string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read upload root: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, stagedPrefix) && !strings.HasPrefix(name, workspacePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
