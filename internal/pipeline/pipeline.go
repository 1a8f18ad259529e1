// Package pipeline chains the corpus stages for one language: appendix
// stripping, normalization, sentence splitting, merging, isolation and
// filtering. It also runs batches of documents over a worker pool.
package pipeline

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/filter"
	"github.com/btraven00/korpus/internal/normalize"
	"github.com/btraven00/korpus/internal/profile"
	"github.com/btraven00/korpus/internal/segment"
)

// Pipeline processes documents of a single language. It is safe for
// concurrent use once built.
type Pipeline struct {
	profile    *profile.Profile
	normalize  bool
	filter     bool
	policy     filter.Policy
	rules      []normalize.Rule
	normalizer *normalize.Normalizer
	sentences  *normalize.Normalizer
	splitter   segment.Splitter
	logger     logrus.FieldLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNormalize toggles the normalization stage.
func WithNormalize(enabled bool) Option {
	return func(p *Pipeline) {
		p.normalize = enabled
	}
}

// WithFilter toggles the validity and document filters.
func WithFilter(enabled bool) Option {
	return func(p *Pipeline) {
		p.filter = enabled
	}
}

// WithPolicy sets the validity thresholds.
func WithPolicy(policy filter.Policy) Option {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// WithRules replaces the normalization rules. The default is the
// encyclopedia rule set.
func WithRules(rules []normalize.Rule) Option {
	return func(p *Pipeline) {
		p.rules = append([]normalize.Rule(nil), rules...)
	}
}

// WithSplitter sets the sentence splitter instead of loading the profile's
// Punkt model.
func WithSplitter(s segment.Splitter) Option {
	return func(p *Pipeline) {
		p.splitter = s
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds a pipeline for p. Normalization and filtering are enabled by
// default. When the profile's Punkt model cannot be loaded the pipeline
// falls back to the regex splitter and logs a warning.
func New(p *profile.Profile, opts ...Option) *Pipeline {
	pl := &Pipeline{
		profile:   p,
		normalize: true,
		filter:    true,
		policy:    filter.DefaultPolicy(),
		rules:     normalize.WikiRules(),
		logger:    discardLogger(),
	}

	for _, opt := range opts {
		opt(pl)
	}

	pl.logger = pl.logger.WithField("lang", p.Code())
	pl.normalizer = normalize.New(pl.rules)
	pl.sentences = normalize.New(normalize.SentenceRules())

	if pl.splitter == nil {
		splitter, err := segment.NewSplitter(p.SplitterLanguage())
		if err != nil {
			pl.logger.WithError(err).Warn("Punkt model unavailable, using regex splitter")
		}
		if punkt, ok := splitter.(*segment.PunktSplitter); ok {
			pl.logger.WithField("model", punkt.Language()).Debug("Using Punkt splitter")
		}
		pl.splitter = splitter
	}

	return pl
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Profile returns the pipeline's language profile.
func (pl *Pipeline) Profile() *profile.Profile {
	return pl.profile
}

// Policy returns the validity thresholds.
func (pl *Pipeline) Policy() filter.Policy {
	return pl.policy
}

// Filtering reports whether the filter stages are enabled.
func (pl *Pipeline) Filtering() bool {
	return pl.filter
}

// Normalizing reports whether the normalization stage is enabled.
func (pl *Pipeline) Normalizing() bool {
	return pl.normalize
}

// Sentences runs every stage up to isolation on text and returns the
// candidate sentences in reading order. No filtering is applied.
func (pl *Pipeline) Sentences(text string) []string {
	return pl.Trace(&corpus.RawDocument{RawText: text}).Isolated
}

// Process runs all stages on raw. It returns the output record and whether
// the document is kept. When filtering is disabled every document is kept.
func (pl *Pipeline) Process(raw *corpus.RawDocument) (*corpus.Document, bool) {
	doc, reason := pl.Evaluate(raw)
	return doc, reason == filter.ReasonKept
}

// Evaluate is Process with the filter decision.
func (pl *Pipeline) Evaluate(raw *corpus.RawDocument) (*corpus.Document, filter.Reason) {
	tr := pl.Trace(raw)

	log := pl.logger.WithFields(logrus.Fields{
		"doc_id":    raw.ID.String(),
		"sentences": len(tr.Isolated),
	})

	if !tr.Kept {
		log.WithField("reason", tr.Reason).Debug("Document dropped")
		return nil, tr.Reason
	}

	log.WithField("kept", len(tr.Valid)).Debug("Document processed")
	return corpus.NewDocument(raw, tr.Valid), filter.ReasonKept
}

// ProcessParallel returns a copy of doc with every sentence and translation
// normalized by the dictionary-corpus rules.
func (pl *Pipeline) ProcessParallel(doc *corpus.ParallelDocument) *corpus.ParallelDocument {
	out := *doc
	out.Text = pl.normalizeMap(doc.Text)
	out.Translation = pl.normalizeMap(doc.Translation)

	pl.logger.WithFields(logrus.Fields{
		"doc_id":    doc.ID.String(),
		"sentences": len(out.Text),
	}).Debug("Parallel document normalized")

	return &out
}

func (pl *Pipeline) normalizeMap(in corpus.SentenceMap) corpus.SentenceMap {
	if in == nil {
		return nil
	}

	out := make(corpus.SentenceMap, len(in))
	for k, v := range in {
		out[k] = pl.sentences.Normalize(v)
	}
	return out
}
