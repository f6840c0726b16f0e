package publisher

import (
	"go.uber.org/zap"

	"github.com/infigaming-com/queue-publisher/template"
)

// Queue service ceilings, also the configuration defaults. SQS enforces at
// most 10 entries and 262144 cumulative payload bytes per batch request.
const (
	MaxBatchSize           = 10
	DefaultMaxMessageBytes = 262144

	// DefaultGroupKeyTemplate has no placeholders, so every entry of an
	// ordered queue lands in one ordering partition unless configured
	// otherwise.
	DefaultGroupKeyTemplate = "default"
)

type Option func(*options)

type options struct {
	batchSize       int
	maxMessageBytes int
	groupKeyTmpl    string
	dedupKeyTmpl    string
	evaluator       template.Evaluator
	lg              *zap.Logger
	hooks           Hooks
}

func defaultOptions() options {
	return options{
		batchSize:       MaxBatchSize,
		maxMessageBytes: DefaultMaxMessageBytes,
		groupKeyTmpl:    DefaultGroupKeyTemplate,
		evaluator:       template.NewFieldEvaluator(),
		lg:              zap.NewNop(),
	}
}

// WithBatchSize sets how many entries one batch may hold. 1 switches the
// publisher to single-send mode; values outside [1,10] fail New.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithMaxMessageBytes sets the single-message size ceiling. Records larger
// than this are dropped, not sent.
func WithMaxMessageBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMessageBytes = n
		}
	}
}

// WithGroupKeyTemplate sets the ordering group template for ordered
// queues. Ignored for standard queues.
func WithGroupKeyTemplate(tmpl string) Option {
	return func(o *options) {
		if tmpl != "" {
			o.groupKeyTmpl = tmpl
		}
	}
}

// WithDedupKeyTemplate sets the deduplication key template for ordered
// queues. When unset, the publisher generates one random token on first
// use and keeps it as the template for its lifetime.
func WithDedupKeyTemplate(tmpl string) Option {
	return func(o *options) {
		o.dedupKeyTmpl = tmpl
	}
}

// WithEvaluator replaces the template evaluator used to expand group and
// dedup key templates against record fields.
func WithEvaluator(evaluator template.Evaluator) Option {
	return func(o *options) {
		if evaluator != nil {
			o.evaluator = evaluator
		}
	}
}

// WithLogger sets the logger for the publisher.
func WithLogger(lg *zap.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.lg = lg
		}
	}
}

// WithHooks sets optional observation callbacks.
func WithHooks(h Hooks) Option {
	return func(o *options) {
		o.hooks = h
	}
}
