// Package httpapi exposes the ingestion service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/legaflow/internal/inbox"
	"github.com/dmitrijs2005/legaflow/internal/ingestion"
	"github.com/dmitrijs2005/legaflow/internal/logging"
	"github.com/dmitrijs2005/legaflow/internal/staging"
)

const (
	// MaxBodyBytes bounds the size of an ingest request body.
	MaxBodyBytes = 16 << 20

	contentTypeText = "text/plain; charset=utf-8"
	indexLine       = "Ingestion service ready\n"
	decodeErrorLine = "Error: Provide a base64-encoded message\n"
	markSucceeded   = " ✓\n"
	markFailed      = " x\n"
)

// Ingester starts the processing of one submission.
type Ingester interface {
	Ingest(ctx context.Context, sub ingestion.Submission) (ingestion.Stream, error)
}

type Handler struct {
	ingester Ingester
	logger   logging.Logger
}

func NewHandler(ing Ingester, l logging.Logger) *Handler {
	return &Handler{ingester: ing, logger: l.With("module", "http_handler")}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeText)
	io.WriteString(w, indexLine)
}

// Ingest decodes the submission and streams one line per file, each flushed
// as soon as the file is done, followed by the summary line.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", contentTypeText)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		h.logger.Warn(ctx, "request body not read", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, decodeErrorLine)
		return
	}

	sub, err := ingestion.DecodeRequest(body)
	if err != nil {
		h.logger.Warn(ctx, "request not decoded", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, decodeErrorLine)
		return
	}

	stream, err := h.ingester.Ingest(ctx, sub)
	if err != nil {
		h.logger.Error(ctx, "submission aborted", "submission_id", sub.SubmissionID, "error", err)
		w.WriteHeader(statusFor(err))
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	rc := http.NewResponseController(w)
	width := len(strconv.Itoa(len(sub.Files)))

	for ev := range stream {
		var line string
		switch e := ev.(type) {
		case ingestion.EventProgress:
			line = fmt.Sprintf("[%*d/%*d] Ingesting %s", width, e.Index, width, e.Total, e.Filename)
		case ingestion.EventFileResult:
			line = markFailed
			if e.Outcome == ingestion.Succeeded {
				line = markSucceeded
			}
		case ingestion.EventSummary:
			line = fmt.Sprintf("Ingested %d files (out of %d files)\n", e.Succeeded, e.Total)
		}

		if _, err := io.WriteString(w, line); err != nil {
			h.logger.Warn(ctx, "client went away", "submission_id", sub.SubmissionID, "error", err)
			return
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			h.logger.Warn(ctx, "flush failed", "error", err)
			return
		}
	}
}

func statusFor(err error) int {
	if errors.Is(err, inbox.ErrInboxUnresolved) || errors.Is(err, staging.ErrInvalidSubmissionID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
