package bulkimport

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoimport_import_jobs_total",
			Help: "Import jobs by outcome and failure reason",
		},
		[]string{"outcome", "reason"},
	)

	importedLocationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geoimport_imported_locations_total",
			Help: "Locations committed by bulk imports",
		},
	)

	importDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geoimport_import_duration_seconds",
			Help:    "Wall time of import jobs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

// failureReason maps a pipeline error to a low-cardinality label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoFile):
		return "no_file"
	case errors.Is(err, ErrInvalidExtension):
		return "invalid_extension"
	case errors.Is(err, ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrNoManifestFound):
		return "no_manifest"
	case errors.Is(err, ErrMultipleManifestsFound):
		return "multiple_manifests"
	case errors.Is(err, ErrManifestUnreadable):
		return "manifest_unreadable"
	case errors.Is(err, ErrNoValidRecords):
		return "no_valid_records"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	}
	return "internal"
}
