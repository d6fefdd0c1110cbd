package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker processes queued jobs through the Service.
type Worker struct {
	svc *Service
	log *slog.Logger
}

// NewWorker returns a Worker that ingests jobs through svc.
func NewWorker(svc *Service, log *slog.Logger) *Worker {
	return &Worker{svc: svc, log: log}
}

// Process runs one job to a terminal status.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.SetFileData(nil)

	out, err := w.svc.ingest(ctx, Upload{
		Filename: job.Filename,
		Title:    job.Title,
		Data:     job.FileData(),
	}, job)
	if err != nil {
		log.Error("ingest failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "failed")
		return
	}

	switch {
	case out.Rejected:
		for _, e := range out.Result.Errors {
			job.AddError(fmt.Sprintf("line %d: %s", e.Line, e.Message))
		}
		job.SetStatus(StatusRejected, "done")
	case out.Duplicate:
		if out.Document != nil {
			job.SetDocSlug(out.Document.Slug)
		}
		job.SetStatus(StatusDupSkipped, "dedup")
	default:
		job.SetDocSlug(out.Document.Slug)
		job.SetStatus(StatusCompleted, "done")
	}
}
