package bulkimport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocateManifest returns the single top-level .txt file in workspace. Zero or
// several candidates reject the whole job.
func LocateManifest(workspace string) (string, error) {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return "", fmt.Errorf("%w: list workspace: %v", ErrExtraction, err)
	}

	var matches []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ManifestExt) {
			matches = append(matches, entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", ErrNoManifestFound
	case 1:
		return filepath.Join(workspace, matches[0]), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMultipleManifestsFound, strings.Join(matches, ", "))
	}
}
