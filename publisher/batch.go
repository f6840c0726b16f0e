package publisher

// Batch is one outbound send. Entries keep their input order; the
// accumulator guarantees len(Entries) <= the configured batch size and the
// cumulative payload bytes stay within the batch ceiling.
type Batch struct {
	Entries []Entry
}

// Bytes is the cumulative payload size of the batch.
func (b Batch) Bytes() int {
	var total int
	for _, e := range b.Entries {
		total += e.Size()
	}
	return total
}

// accumulator packs admitted entries into size-bounded batches in a single
// order-preserving pass. Each Publish call owns its own accumulator, so no
// locking is needed.
type accumulator struct {
	maxEntries int
	maxBytes   int

	entries []Entry
	bytes   int
}

func newAccumulator(maxEntries, maxBytes int) *accumulator {
	return &accumulator{maxEntries: maxEntries, maxBytes: maxBytes}
}

// add appends the entry, first flushing the pending batch when the entry
// would push it past either ceiling. An entry is always appended to an
// empty batch, so packing makes progress regardless of entry size.
func (a *accumulator) add(e Entry) (Batch, bool) {
	var flushed Batch
	var ok bool
	if len(a.entries) > 0 &&
		(len(a.entries)+1 > a.maxEntries || a.bytes+e.Size() > a.maxBytes) {
		flushed, ok = a.flush()
	}
	a.entries = append(a.entries, e)
	a.bytes += e.Size()
	return flushed, ok
}

// flush returns the pending batch, if any, and resets the accumulator.
func (a *accumulator) flush() (Batch, bool) {
	if len(a.entries) == 0 {
		return Batch{}, false
	}
	b := Batch{Entries: a.entries}
	a.entries = nil
	a.bytes = 0
	return b, true
}
