package publisher

import "context"

// Hooks are optional callbacks fired during a Publish call. Nil callbacks
// are skipped. Callbacks run synchronously on the publishing goroutine and
// should return quickly.
type Hooks struct {
	// OnDrop fires when a record is dropped for exceeding the
	// single-message size ceiling. localId is the record's position in the
	// input sequence rendered as a string.
	OnDrop func(ctx context.Context, localId string, sizeBytes int)
	// OnSend fires after a successful send; entries is 1 in single mode.
	OnSend func(ctx context.Context, entries int)
	// OnSendFail fires when the queue collaborator reports an error.
	OnSendFail func(ctx context.Context, entries int, err error)
}

func (h Hooks) drop(ctx context.Context, localId string, sizeBytes int) {
	if h.OnDrop != nil {
		h.OnDrop(ctx, localId, sizeBytes)
	}
}

func (h Hooks) send(ctx context.Context, entries int) {
	if h.OnSend != nil {
		h.OnSend(ctx, entries)
	}
}

func (h Hooks) sendFail(ctx context.Context, entries int, err error) {
	if h.OnSendFail != nil {
		h.OnSendFail(ctx, entries, err)
	}
}
