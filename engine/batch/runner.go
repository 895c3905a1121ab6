package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/document"
	"github.com/compozy/pdftab/engine/encode"
	"github.com/compozy/pdftab/engine/table"
	"github.com/compozy/pdftab/pkg/logger"
)

// Document is one named input buffer.
type Document struct {
	Name string
	Data []byte
}

// Output is the encoded result of a run.
type Output struct {
	RunID    core.ID
	Format   encode.Format
	Data     []byte
	Records  int
	FileName string
	MIMEType string
	// Result is the record set that was encoded.
	Result table.ResultSet
}

// Runner is not synchronized; callers serialize concurrent runs.
type Runner struct {
	parser document.Parser
	opts   options
}

func NewRunner(parser document.Parser, opts ...Option) *Runner {
	o := options{normalize: DefaultLineNormalizer}
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{parser: parser, opts: o}
}

// Extract returns the records of every page of every document in input order.
// A document that cannot be parsed fails the run with a DocumentDecodeError and
// no partial result.
func (r *Runner) Extract(ctx context.Context, docs []Document) (table.ResultSet, error) {
	runID := core.MustNewID()
	ctx = logger.ContextWithLogger(ctx, logger.FromContext(ctx).With("run_id", runID.String()))
	return r.extract(ctx, docs)
}

func (r *Runner) extract(ctx context.Context, docs []Document) (table.ResultSet, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	var out table.ResultSet
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, pages, err := r.extractDocument(ctx, doc)
		if err != nil {
			log.Error("Document extraction failed", "document", doc.Name, "error", err)
			return nil, err
		}
		recordDocument(ctx, pages, len(records))
		log.Debug("Document extracted",
			"document", doc.Name,
			"size", humanize.IBytes(uint64(len(doc.Data))),
			"pages", pages,
			"records", len(records),
		)
		out = append(out, records...)
	}
	log.Info("Extraction finished", "documents", len(docs), "records", len(out), "elapsed", time.Since(start))
	return out, nil
}

func (r *Runner) extractDocument(ctx context.Context, doc Document) (table.ResultSet, int, error) {
	if limit := r.opts.maxFileSize; limit > 0 && int64(len(doc.Data)) > limit {
		recordFailure(ctx, failureTooLarge)
		cause := fmt.Errorf(
			"%w: %s exceeds %s",
			core.ErrDocumentTooLarge,
			humanize.IBytes(uint64(len(doc.Data))),
			humanize.IBytes(uint64(limit)),
		)
		return nil, 0, core.NewDocumentDecodeError(doc.Name, cause)
	}
	pages, err := r.parser.Pages(ctx, doc.Name, doc.Data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, err
		}
		recordFailure(ctx, failureDecode)
		return nil, 0, core.NewDocumentDecodeError(doc.Name, err)
	}
	var out table.ResultSet
	for _, page := range pages {
		out = append(out, table.Extract(r.lines(page))...)
	}
	return out, len(pages), nil
}

func (r *Runner) lines(page string) []string {
	lines := table.SplitLines(page)
	if r.opts.normalize == nil {
		return lines
	}
	for i, line := range lines {
		lines[i] = r.opts.normalize(line)
	}
	return lines
}

// Run extracts all documents and encodes the result set exactly once. An
// unrecognized format surfaces only after extraction, from the encode step.
func (r *Runner) Run(ctx context.Context, docs []Document, format string) (*Output, error) {
	runID := core.MustNewID()
	ctx = logger.ContextWithLogger(ctx, logger.FromContext(ctx).With("run_id", runID.String()))
	start := time.Now()
	records, err := r.extract(ctx, docs)
	if err != nil {
		return nil, err
	}
	data, f, err := encode.EncodeString(records, format)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnsupportedFormat):
			recordFailure(ctx, failureUnsupportedFormat)
		default:
			recordFailure(ctx, failureEncode)
		}
		return nil, err
	}
	recordRun(ctx, f, time.Since(start))
	logger.FromContext(ctx).Info("Batch encoded",
		"format", f.String(),
		"records", len(records),
		"size", humanize.IBytes(uint64(len(data))),
	)
	return &Output{
		RunID:    runID,
		Format:   f,
		Data:     data,
		Records:  len(records),
		FileName: f.FileName(),
		MIMEType: f.MIMEType(),
		Result:   records,
	}, nil
}
