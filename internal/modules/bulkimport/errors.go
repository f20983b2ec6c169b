package bulkimport

import "errors"

var (
	// intake
	ErrNoFile           = errors.New("no file uploaded")
	ErrInvalidExtension = errors.New("only zip files are allowed")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")

	// structural
	ErrExtraction             = errors.New("archive extraction failed")
	ErrNoManifestFound        = errors.New("no manifest found in archive")
	ErrMultipleManifestsFound = errors.New("multiple manifests found in archive")
	ErrManifestUnreadable     = errors.New("manifest could not be read")

	// persistence
	ErrNoValidRecords = errors.New("no valid records to import")
	ErrPersistence    = errors.New("failed to store locations")
)
