// Package inmem implements publisher.Queue in memory. It records every
// send for inspection and is meant for tests and local development.
package inmem

import (
	"context"
	"sync"

	"github.com/infigaming-com/queue-publisher/publisher"
)

// Send is one recorded collaborator call: either a single message or a
// batch.
type Send struct {
	Single  bool
	Payload []byte
	Attrs   publisher.Attributes
	Entries []publisher.Entry
}

type Queue struct {
	mu    sync.Mutex
	sends []Send

	// FailWith, when set, is returned by every send call.
	FailWith error
}

func New() *Queue {
	return &Queue{}
}

func (q *Queue) SendOne(ctx context.Context, payload []byte, attrs publisher.Attributes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.FailWith != nil {
		return q.FailWith
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sends = append(q.sends, Send{
		Single:  true,
		Payload: append([]byte(nil), payload...),
		Attrs:   attrs,
	})
	return nil
}

func (q *Queue) SendBatch(ctx context.Context, entries []publisher.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.FailWith != nil {
		return q.FailWith
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sends = append(q.sends, Send{
		Entries: append([]publisher.Entry(nil), entries...),
	})
	return nil
}

// Sends returns a copy of all recorded sends in call order.
func (q *Queue) Sends() []Send {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Send(nil), q.sends...)
}

// Batches returns the recorded batch sends only.
func (q *Queue) Batches() [][]publisher.Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	var batches [][]publisher.Entry
	for _, s := range q.sends {
		if !s.Single {
			batches = append(batches, s.Entries)
		}
	}
	return batches
}

// Singles returns the recorded single sends only.
func (q *Queue) Singles() []Send {
	q.mu.Lock()
	defer q.mu.Unlock()
	var singles []Send
	for _, s := range q.sends {
		if s.Single {
			singles = append(singles, s)
		}
	}
	return singles
}
