package bulkimport

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"geoimport/internal/domain"
)

const SuccessMessage = "Locations uploaded and stored successfully."

// Options are the per-deployment limits and paths of the import pipeline.
type Options struct {
	UploadRoot        string
	MaxUploadBytes    int64
	MaxExtractedBytes int64
}

// Service runs an upload through stage, extract, locate, validate and either
// summarize or persist. The staged archive and workspace are reaped on every
// exit path.
type Service struct {
	writer    LocationWriter
	stager    *Stager
	extractor *Extractor
	now       func() time.Time
	newID     func() string
}

func NewService(writer LocationWriter, opts Options) *Service {
	return &Service{
		writer:    writer,
		stager:    NewStager(opts.UploadRoot, opts.MaxUploadBytes),
		extractor: NewExtractor(opts.MaxExtractedBytes),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Import processes one uploaded archive for userID. Committed and rejected
// jobs return a result; every other outcome is returned as an error wrapping
// one of the package sentinels. Nothing is stored unless every line is valid.
//
// Cancellation of ctx is not propagated: a client that disconnects mid-import
// still has its job finished and its files removed.
func (s *Service) Import(ctx context.Context, userID int64, fileHeader *multipart.FileHeader) (result *ImportResult, err error) {
	start := s.now()
	job := &UploadJob{ID: s.newID(), UserID: userID, CreatedAt: start}
	defer func() {
		_ = Reap(job)
		s.record(job, result, err, start)
	}()

	if err = s.stager.Validate(fileHeader); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	if job.ArchivePath, err = s.stager.Stage(job.ID, fileHeader); err != nil {
		return nil, err
	}

	job.WorkspacePath = WorkspacePath(job.ArchivePath)
	if err = s.extractor.Extract(job.ArchivePath, job.WorkspacePath); err != nil {
		return nil, err
	}

	var manifest string
	if manifest, err = LocateManifest(job.WorkspacePath); err != nil {
		return nil, err
	}

	var (
		records    []CandidateRecord
		lineErrors []LineError
	)
	if records, lineErrors, err = ValidateManifest(manifest, userID); err != nil {
		return nil, err
	}

	if len(lineErrors) > 0 {
		summary := Summarize(lineErrors)
		return &ImportResult{
			Outcome: OutcomeRejected,
			Message: summary.Message,
			Errors:  summary.Errors,
		}, nil
	}

	inserted, err := s.persist(ctx, records)
	if err != nil {
		return nil, err
	}
	return &ImportResult{
		Outcome:       OutcomeCommitted,
		InsertedCount: inserted,
		Message:       SuccessMessage,
	}, nil
}

func (s *Service) persist(ctx context.Context, records []CandidateRecord) (int64, error) {
	if len(records) == 0 {
		return 0, ErrNoValidRecords
	}

	locations := make([]domain.Location, 0, len(records))
	for _, r := range records {
		locations = append(locations, domain.Location{
			UserID:    r.UserID,
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}

	inserted, err := s.writer.InsertBatch(ctx, locations)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return inserted, nil
}

func (s *Service) record(job *UploadJob, result *ImportResult, err error, start time.Time) {
	elapsed := s.now().Sub(start)
	outcome, reason := OutcomeFailed, ""
	var inserted int64
	var rejectedLines int
	switch {
	case err != nil:
		reason = failureReason(err)
	case result != nil:
		outcome = result.Outcome
		inserted = result.InsertedCount
		rejectedLines = len(result.Errors)
	}

	importJobsTotal.WithLabelValues(string(outcome), reason).Inc()
	importDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	if inserted > 0 {
		importedLocationsTotal.Add(float64(inserted))
	}

	if err != nil {
		log.Printf("import_job job_id=%s user_id=%d outcome=%s reason=%s duration=%s error=%q",
			job.ID, job.UserID, outcome, reason, elapsed, err.Error())
		return
	}
	log.Printf("import_job job_id=%s user_id=%d outcome=%s inserted=%d rejected_lines=%d duration=%s",
		job.ID, job.UserID, outcome, inserted, rejectedLines, elapsed)
}
