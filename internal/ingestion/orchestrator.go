// Package ingestion moves verified files from a user's inbox into staging and
// announces each one to the re-encryption workers.
//
// A file is verified against its encrypted checksum where it lies in the
// inbox; only then is it moved into the pre-transform staging directory and
// an IngestTask published. Files of one submission are processed strictly in
// order and each ends in exactly one Outcome, so the summary always satisfies
// succeeded + failed == total.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/legaflow/internal/checksum"
	"github.com/dmitrijs2005/legaflow/internal/filex"
	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/metrics"
	"github.com/dmitrijs2005/legaflow/internal/staging"
)

var (
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrInvalidFilename      = errors.New("invalid filename")
	ErrMissingPlainChecksum = errors.New("missing unencrypted checksum")
)

// InboxResolver returns the inbox root of a user.
type InboxResolver interface {
	Path(userID string) (string, error)
}

// StagingResolver returns both staging directories of a submission.
type StagingResolver interface {
	Locations(submissionID string) (staging.Locations, error)
}

// TaskSink accepts verified, staged files.
type TaskSink interface {
	Publish(ctx context.Context, task IngestTask) error
}

type Orchestrator struct {
	inbox   InboxResolver
	staging StagingResolver
	tasks   TaskSink
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewOrchestrator(inbox InboxResolver, stg StagingResolver, tasks TaskSink, log logging.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		inbox:   inbox,
		staging: stg,
		tasks:   tasks,
		log:     log.With("module", "ingestion"),
		metrics: m,
	}
}

// Ingest resolves the inbox and staging locations of sub and returns the
// stream that processes its files. An error means nothing was touched.
func (o *Orchestrator) Ingest(ctx context.Context, sub Submission) (Stream, error) {
	log := o.log.With("submission_id", sub.SubmissionID, "user_id", sub.UserID)

	inboxRoot, err := o.inbox.Path(sub.UserID)
	if err != nil {
		o.metrics.ObserveSubmission(false)
		return nil, fmt.Errorf("resolve inbox: %w", err)
	}
	log.Info(ctx, "inbox area", "path", inboxRoot)

	loc, err := o.staging.Locations(sub.SubmissionID)
	if err != nil {
		o.metrics.ObserveSubmission(false)
		return nil, fmt.Errorf("resolve staging: %w", err)
	}
	log.Info(ctx, "staging area", "pre", loc.Pre, "post", loc.Post)

	o.metrics.ObserveSubmission(true)

	run := &submissionRun{
		o:     o,
		log:   log,
		sub:   sub,
		inbox: inboxRoot,
		loc:   loc,
	}
	return run.stream(ctx), nil
}

type submissionRun struct {
	o     *Orchestrator
	log   logging.Logger
	sub   Submission
	inbox string
	loc   staging.Locations
	used  atomic.Bool
}

func (r *submissionRun) stream(ctx context.Context) Stream {
	return func(yield func(Event) bool) {
		if !r.used.CompareAndSwap(false, true) {
			return
		}

		total := len(r.sub.Files)
		succeeded := 0
		for i, f := range r.sub.Files {
			if !yield(EventProgress{Index: i + 1, Total: total, Filename: f.Filename}) {
				return
			}

			start := time.Now()
			outcome, err := r.processFile(ctx, f)
			r.o.metrics.ObserveFile(outcome.String(), start)
			if outcome == Succeeded {
				succeeded++
			}

			if !yield(EventFileResult{Filename: f.Filename, Outcome: outcome, Err: err}) {
				return
			}
		}

		r.log.Info(ctx, "submission processed", "succeeded", succeeded, "total", total)
		yield(EventSummary{Succeeded: succeeded, Total: total})
	}
}

func (r *submissionRun) processFile(ctx context.Context, f SubmissionFile) (Outcome, error) {
	log := r.log.With("filename", f.Filename)

	if err := ctx.Err(); err != nil {
		log.Warn(ctx, "file skipped", "error", err)
		return IOError, err
	}

	if !filex.IsPlainName(f.Filename) {
		err := fmt.Errorf("%w: %q", ErrInvalidFilename, f.Filename)
		log.Warn(ctx, "file rejected", "error", err)
		return IOError, err
	}

	inboxPath := filepath.Join(r.inbox, f.Filename)
	stagedPath := filepath.Join(r.loc.Pre, f.Filename)
	target := filepath.Join(r.loc.Post, f.Filename)

	log.Debug(ctx, "verifying checksum", "path", inboxPath, "algorithm", f.EncryptedIntegrity.Algorithm)
	if outcome, err := verifyFile(inboxPath, f.EncryptedIntegrity); err != nil {
		log.Warn(ctx, "verification failed", "path", inboxPath, "error", err)
		return outcome, err
	}

	// the workers re-verify the plaintext; without a usable pair the file stays in the inbox
	if err := checkPlainIntegrity(f.UnencryptedIntegrity); err != nil {
		log.Warn(ctx, "verification failed", "path", inboxPath, "error", err)
		return VerificationFailed, err
	}

	if err := filex.Move(inboxPath, stagedPath); err != nil {
		log.Error(ctx, "move to staging failed", "from", inboxPath, "to", stagedPath, "error", err)
		return IOError, err
	}
	log.Debug(ctx, "file moved", "from", inboxPath, "to", stagedPath)

	task := IngestTask{
		SubmissionID: r.sub.SubmissionID,
		UserID:       r.sub.UserID,
		Filepath:     stagedPath,
		Target:       target,
		Hash:         f.UnencryptedIntegrity.Hash,
		HashAlgo:     f.UnencryptedIntegrity.Algorithm,
	}
	if err := r.o.tasks.Publish(ctx, task); err != nil {
		log.Error(ctx, "task not published, file left in staging", "path", stagedPath, "error", err)
		return PublishFailed, err
	}

	log.Debug(ctx, "task published", "path", stagedPath)
	return Succeeded, nil
}

func checkPlainIntegrity(want Integrity) error {
	if strings.TrimSpace(want.Hash) == "" {
		return ErrMissingPlainChecksum
	}
	if !checksum.Supported(want.Algorithm) {
		return fmt.Errorf("%w: %w: %q", ErrMissingPlainChecksum, checksum.ErrUnsupportedAlgorithm, want.Algorithm)
	}
	return nil
}

func verifyFile(path string, want Integrity) (Outcome, error) {
	fh, err := os.Open(path)
	if err != nil {
		return IOError, err
	}
	defer fh.Close()

	ok, err := checksum.Verify(fh, want.Hash, want.Algorithm)
	switch {
	case errors.Is(err, checksum.ErrUnsupportedAlgorithm):
		return VerificationFailed, err
	case err != nil:
		return IOError, err
	case !ok:
		return VerificationFailed, fmt.Errorf("%w: invalid %s checksum for %s", ErrChecksumMismatch, want.Algorithm, path)
	}
	return Succeeded, nil
}
