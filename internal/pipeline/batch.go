package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/filter"
)

// BatchStats summarizes a batch run.
type BatchStats struct {
	Reasons   map[filter.Reason]int `json:"reasons"`
	Total     int                   `json:"total"`
	Processed int                   `json:"processed"`
	Kept      int                   `json:"kept"`
	Dropped   int                   `json:"dropped"`
	Failed    int                   `json:"failed"`
	Sentences int                   `json:"sentences"`
	Elapsed   time.Duration         `json:"elapsed"`
	Errors    []string              `json:"errors,omitempty"`
}

// BatchOption configures RunBatch.
type BatchOption func(*batchConfig)

type batchConfig struct {
	progress func(ProgressUpdate)
}

// WithProgress registers a callback receiving the pool's progress updates.
// Updates are best effort and may be skipped under load.
func WithProgress(fn func(ProgressUpdate)) BatchOption {
	return func(c *batchConfig) {
		c.progress = fn
	}
}

// RunBatch processes docs with the given number of workers and returns the
// kept documents in input order. A document whose processing failed is left
// out like a dropped one; its error is logged and recorded in the stats. The
// returned error is non-nil only when ctx was canceled before the batch
// finished, in which case the documents finished so far are returned too.
func RunBatch(ctx context.Context, pl *Pipeline, docs []*corpus.RawDocument, workers int, opts ...BatchOption) ([]*corpus.Document, BatchStats, error) {
	var cfg batchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	stats := BatchStats{
		Reasons: make(map[filter.Reason]int),
		Total:   len(docs),
	}

	if len(docs) == 0 {
		return []*corpus.Document{}, stats, nil
	}

	pool := NewWorkerPool(ctx, pl, workers)
	pool.Start()

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for update := range pool.Progress() {
			if cfg.progress != nil {
				cfg.progress(update)
			}
		}
	}()

	go func() {
		if !pool.SubmitBatch(docs) {
			pool.Shutdown()
			return
		}
		pool.Wait()
	}()

	ordered := make([]*corpus.Document, len(docs))

	for res := range pool.Results() {
		stats.Processed++

		switch {
		case res.Err != nil:
			stats.Failed++
			stats.Errors = append(stats.Errors, res.Err.Error())
			pl.logger.WithError(res.Err).WithField("doc_id", res.Task.Doc.ID.String()).Error("Document failed")
		case res.Doc == nil:
			stats.Dropped++
			stats.Reasons[res.Reason]++
		default:
			stats.Kept++
			stats.Reasons[filter.ReasonKept]++
			stats.Sentences += len(res.Doc.Sentences)
			ordered[res.Task.Index] = res.Doc
		}
	}

	<-progressDone
	stats.Elapsed = time.Since(start)

	poolStats := pool.GetStats()
	pl.logger.WithFields(logrus.Fields{
		"workers":   poolStats.NumWorkers,
		"submitted": poolStats.TotalTasks,
		"completed": poolStats.CompletedTasks,
		"pending":   poolStats.PendingTasks,
	}).Debug("Worker pool finished")

	kept := make([]*corpus.Document, 0, stats.Kept)
	for _, doc := range ordered {
		if doc != nil {
			kept = append(kept, doc)
		}
	}

	if err := ctx.Err(); err != nil && stats.Processed < stats.Total {
		return kept, stats, err
	}

	return kept, stats, nil
}
