// Package publisher batches already-serialized records and publishes them
// to a bounded-capacity remote queue through a Queue collaborator. It
// enforces the service's per-message and per-batch size ceilings, drops
// oversized records with a warning instead of failing the call, and
// attaches ordering metadata only for ordered (FIFO) queues. Drivers for
// concrete queue services live under driver/.
package publisher

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/infigaming-com/queue-publisher/util"
)

// Publisher is the dispatching front of the library. It is safe for
// concurrent use: each Publish call owns its packing state, and the only
// shared mutable state is the once-initialized dedup key template.
type Publisher struct {
	queue     Queue
	queueName string
	ordered   bool
	opts      options
	dedup     dedupSource
}

// New builds a Publisher for the named queue. Ordered mode is detected
// from the queue name once, here. The batch size must be within [1,10];
// 1 selects single-send mode for every Publish call.
func New(queue Queue, queueName string, opts ...Option) (*Publisher, error) {
	if queue == nil {
		return nil, NewPublisherError(ErrCodeNilQueue, "queue is required", nil)
	}
	if queueName == "" {
		return nil, NewPublisherError(ErrCodeQueueNameRequired, "queue name is required", nil)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.batchSize < 1 || o.batchSize > MaxBatchSize {
		return nil, NewPublisherError(
			ErrCodeInvalidBatchSize,
			fmt.Sprintf("batch size %d outside [1,%d]", o.batchSize, MaxBatchSize),
			nil,
		)
	}
	return &Publisher{
		queue:     queue,
		queueName: queueName,
		ordered:   IsOrderedQueue(queueName),
		opts:      o,
		dedup:     dedupSource{configured: o.dedupKeyTmpl},
	}, nil
}

// Ordered reports whether the publisher targets an ordered (FIFO) queue.
func (p *Publisher) Ordered() bool {
	return p.ordered
}

// Publish sends the records in order. Oversized records are dropped and
// logged, never returned as an error. Any error from the queue
// collaborator is returned as-is; no retry or re-splitting happens here,
// so a failed batch leaves the remaining records unsent.
func (p *Publisher) Publish(ctx context.Context, records []Record) error {
	if p.opts.batchSize == 1 {
		return p.publishSingle(ctx, records)
	}
	return p.publishBatched(ctx, records)
}

func (p *Publisher) publishSingle(ctx context.Context, records []Record) error {
	for i, r := range records {
		e, ok := p.entry(ctx, i, r)
		if !ok {
			continue
		}
		var attrs Attributes
		if p.ordered {
			attrs = Attributes{GroupKey: e.GroupKey, DedupKey: e.DedupKey}
		}
		if err := p.queue.SendOne(ctx, e.Payload, attrs); err != nil {
			p.opts.hooks.sendFail(ctx, 1, err)
			return err
		}
		p.opts.hooks.send(ctx, 1)
	}
	return nil
}

func (p *Publisher) publishBatched(ctx context.Context, records []Record) error {
	acc := newAccumulator(p.opts.batchSize, p.opts.maxMessageBytes)
	for i, r := range records {
		e, ok := p.entry(ctx, i, r)
		if !ok {
			continue
		}
		if b, full := acc.add(e); full {
			if err := p.sendBatch(ctx, b); err != nil {
				return err
			}
		}
	}
	if b, ok := acc.flush(); ok {
		return p.sendBatch(ctx, b)
	}
	return nil
}

// entry admits the i-th record and turns it into a batch entry. Rejected
// records are logged at warning level and reported through OnDrop; the
// call keeps going without them.
func (p *Publisher) entry(ctx context.Context, i int, r Record) (Entry, bool) {
	localId := strconv.Itoa(i)
	if !admit(r, p.opts.maxMessageBytes) {
		p.logDrop(ctx, localId, r.Size())
		p.opts.hooks.drop(ctx, localId, r.Size())
		return Entry{}, false
	}
	e := Entry{ID: localId, Payload: r.Payload}
	if p.ordered {
		e = p.decorate(e, r)
	}
	return e, true
}

func (p *Publisher) sendBatch(ctx context.Context, b Batch) error {
	if err := p.queue.SendBatch(ctx, b.Entries); err != nil {
		p.opts.hooks.sendFail(ctx, len(b.Entries), err)
		return err
	}
	p.opts.hooks.send(ctx, len(b.Entries))
	return nil
}

func (p *Publisher) logDrop(ctx context.Context, localId string, sizeBytes int) {
	fields := []zap.Field{
		zap.String("queue", p.queueName),
		zap.String("local_id", localId),
		zap.Int("size_bytes", sizeBytes),
		zap.Int("max_message_bytes", p.opts.maxMessageBytes),
	}
	if correlationId, err := util.CorrelationIdFromCtx(ctx); err == nil {
		fields = append(fields, zap.String("correlation_id", correlationId))
	}
	p.opts.lg.Warn("dropping oversized record", fields...)
}
