package publisher

import (
	"strings"
	"sync"

	"github.com/infigaming-com/queue-publisher/util"
)

// orderedQueueSuffix marks FIFO queues in the queue name. Ordered mode is
// resolved once at construction and never re-derived per record.
const orderedQueueSuffix = ".fifo"

// IsOrderedQueue reports whether the queue name denotes an ordered (FIFO)
// queue.
func IsOrderedQueue(queueName string) bool {
	return strings.HasSuffix(queueName, orderedQueueSuffix)
}

// dedupSource yields the dedup key template. When none is configured it
// generates one random token on first use and keeps it for the lifetime of
// the owning publisher, so concurrent Publish calls agree on a single
// template.
type dedupSource struct {
	configured string

	once  sync.Once
	token string
}

func (d *dedupSource) template() string {
	if d.configured != "" {
		return d.configured
	}
	d.once.Do(func() {
		d.token = util.NewUUID()
	})
	return d.token
}

// decorate attaches the ordering metadata to an entry of an ordered queue.
// The group key comes from the configured group template, the dedup key
// from dedupSource; both are expanded against the record's field map, so a
// template with placeholders still varies per record even though the
// template itself is fixed.
func (p *Publisher) decorate(e Entry, r Record) Entry {
	e.GroupKey = p.opts.evaluator.Expand(p.opts.groupKeyTmpl, r.Fields)
	e.DedupKey = p.opts.evaluator.Expand(p.dedup.template(), r.Fields)
	return e
}
