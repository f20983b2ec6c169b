package bulkimport

import (
	"fmt"
	"strings"
	"time"
)

// UploadJob is the per-request state of one import. Its paths are unique to the
// job and are removed by Reap when the request finishes.
type UploadJob struct {
	ID            string
	UserID        int64
	ArchivePath   string
	WorkspacePath string
	CreatedAt     time.Time
}

// ManifestLine is one line of the manifest with its 1-based index.
type ManifestLine struct {
	Index int
	Text  string
}

// Violation is a bit flag so a set of categories fits in one value.
type Violation uint8

const (
	MalformedLine Violation = 1 << iota
	MissingName
	InvalidLatitude
	InvalidLongitude
)

func (v Violation) Description() string {
	switch v {
	case MalformedLine:
		return "Missing data. Expected 'Name,Latitude,Longitude'."
	case MissingName:
		return "Name is missing."
	case InvalidLatitude:
		return "Invalid Latitude. Must be -90 to 90."
	case InvalidLongitude:
		return "Invalid Longitude. Must be -180 to 180."
	}
	return fmt.Sprintf("Unknown violation %d.", uint8(v))
}

func (v Violation) String() string {
	switch v {
	case MalformedLine:
		return "MalformedLine"
	case MissingName:
		return "MissingName"
	case InvalidLatitude:
		return "InvalidLatitude"
	case InvalidLongitude:
		return "InvalidLongitude"
	}
	return fmt.Sprintf("Violation(%d)", uint8(v))
}

// LineError lists every violation found on one manifest line, in check order.
type LineError struct {
	Line       int
	Violations []Violation
}

func (e LineError) Has(v Violation) bool {
	for _, got := range e.Violations {
		if got == v {
			return true
		}
	}
	return false
}

// Detail renders the line as "Line N: <descriptions>".
func (e LineError) Detail() string {
	descs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		descs = append(descs, v.Description())
	}
	return fmt.Sprintf("Line %d: %s", e.Line, strings.Join(descs, " "))
}

// CandidateRecord is a validated manifest line that has not been stored yet.
type CandidateRecord struct {
	Name      string
	Latitude  float64
	Longitude float64
	UserID    int64
}

type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// ImportResult is returned for committed and rejected jobs. Failed jobs are
// reported through the error return of Service.Import instead.
type ImportResult struct {
	Outcome       Outcome
	InsertedCount int64
	Message       string
	Errors        []string
}
