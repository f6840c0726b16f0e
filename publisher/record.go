package publisher

import "context"

// Record is one already-serialized message to publish. Fields carries the
// originating event's attributes and is read only when ordering templates
// are expanded.
type Record struct {
	Payload []byte
	Fields  map[string]any
}

// Size is the payload length in bytes, the unit all queue ceilings are
// expressed in.
func (r Record) Size() int {
	return len(r.Payload)
}

// Entry is a Record placed into an outbound batch. ID is the record's
// zero-based position in the input sequence of the Publish call, rendered
// as a string; it stays stable across the batches of one call so entries
// can be correlated with per-entry acknowledgements. GroupKey and DedupKey
// are set only for ordered queues.
type Entry struct {
	ID       string
	Payload  []byte
	GroupKey string
	DedupKey string
}

// Size is the entry payload length in bytes.
func (e Entry) Size() int {
	return len(e.Payload)
}

// Attributes carries the ordering metadata of a single send. Empty fields
// must be omitted entirely from the wire request; standard queues reject
// unexpected ordering fields.
type Attributes struct {
	GroupKey string
	DedupKey string
}

// Queue is the remote queue collaborator. Implementations must be safe for
// concurrent use; they own endpoint resolution, credentials, transport
// timeouts and any retrying.
type Queue interface {
	// SendOne publishes a single payload.
	SendOne(ctx context.Context, payload []byte, attrs Attributes) error
	// SendBatch publishes up to the service's batch ceiling of entries in
	// one call. A partial failure for some entries is reported as an error
	// carrying the failed entry IDs.
	SendBatch(ctx context.Context, entries []Entry) error
}
