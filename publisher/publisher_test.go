package publisher_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infigaming-com/queue-publisher/publisher"
	"github.com/infigaming-com/queue-publisher/publisher/driver/inmem"
)

func records(sizes ...int) []publisher.Record {
	out := make([]publisher.Record, len(sizes))
	for i, size := range sizes {
		out[i] = publisher.Record{Payload: make([]byte, size)}
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	queue := inmem.New()

	t.Run("batch size zero", func(t *testing.T) {
		_, err := publisher.New(queue, "events", publisher.WithBatchSize(0))
		assert.Error(t, err)
	})

	t.Run("batch size above ceiling", func(t *testing.T) {
		_, err := publisher.New(queue, "events", publisher.WithBatchSize(11))
		assert.Error(t, err)
	})

	t.Run("nil queue", func(t *testing.T) {
		_, err := publisher.New(nil, "events")
		assert.Error(t, err)
	})

	t.Run("empty queue name", func(t *testing.T) {
		_, err := publisher.New(queue, "")
		assert.Error(t, err)
	})

	t.Run("ordered detection", func(t *testing.T) {
		p, err := publisher.New(queue, "events.fifo")
		require.NoError(t, err)
		assert.True(t, p.Ordered())

		p, err = publisher.New(queue, "events")
		require.NoError(t, err)
		assert.False(t, p.Ordered())
	})
}

func TestPublish_BatchMode(t *testing.T) {
	queue := inmem.New()
	p, err := publisher.New(queue, "events")
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), records(1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000)))

	assert.Empty(t, queue.Singles())
	batches := queue.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[1], 2)

	// Local ids stay the original input positions across batches.
	assert.Equal(t, "10", batches[1][0].ID)
	assert.Equal(t, "11", batches[1][1].ID)
}

func TestPublish_SingleMode(t *testing.T) {
	queue := inmem.New()
	p, err := publisher.New(queue, "events", publisher.WithBatchSize(1))
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), records(10, 20, 30)))

	assert.Empty(t, queue.Batches())
	assert.Len(t, queue.Singles(), 3)
}

func TestPublish_DropsOversizedRecords(t *testing.T) {
	var dropped []string
	queue := inmem.New()
	p, err := publisher.New(queue, "events",
		publisher.WithMaxMessageBytes(100),
		publisher.WithHooks(publisher.Hooks{
			OnDrop: func(_ context.Context, localId string, _ int) {
				dropped = append(dropped, localId)
			},
		}),
	)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), records(50, 300, 30)))

	require.Len(t, queue.Batches(), 1)
	entries := queue.Batches()[0]
	require.Len(t, entries, 2)
	assert.Equal(t, "0", entries[0].ID)
	assert.Equal(t, "2", entries[1].ID)
	assert.Equal(t, []string{"1"}, dropped)
}

func TestPublish_AllRecordsOversized(t *testing.T) {
	queue := inmem.New()
	p, err := publisher.New(queue, "events", publisher.WithMaxMessageBytes(10))
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), records(11, 12)))
	assert.Empty(t, queue.Sends())
}

func TestPublish_OrderedQueue(t *testing.T) {
	t.Run("generated dedup token is stable across calls", func(t *testing.T) {
		queue := inmem.New()
		p, err := publisher.New(queue, "events.fifo")
		require.NoError(t, err)

		require.NoError(t, p.Publish(context.Background(), records(10, 10)))
		require.NoError(t, p.Publish(context.Background(), records(10)))

		batches := queue.Batches()
		require.Len(t, batches, 2)
		first := batches[0][0].DedupKey
		assert.NotEmpty(t, first)
		assert.Equal(t, first, batches[0][1].DedupKey)
		assert.Equal(t, first, batches[1][0].DedupKey)
		assert.Equal(t, "default", batches[0][0].GroupKey)
	})

	t.Run("templates expand per record", func(t *testing.T) {
		queue := inmem.New()
		p, err := publisher.New(queue, "events.fifo",
			publisher.WithGroupKeyTemplate("tenant-{tenant}"),
			publisher.WithDedupKeyTemplate("{id}"),
		)
		require.NoError(t, err)

		recs := []publisher.Record{
			{Payload: []byte("a"), Fields: map[string]any{"tenant": "t1", "id": 7}},
			{Payload: []byte("b"), Fields: map[string]any{"tenant": "t2", "id": 8}},
		}
		require.NoError(t, p.Publish(context.Background(), recs))

		entries := queue.Batches()[0]
		assert.Equal(t, "tenant-t1", entries[0].GroupKey)
		assert.Equal(t, "7", entries[0].DedupKey)
		assert.Equal(t, "tenant-t2", entries[1].GroupKey)
		assert.Equal(t, "8", entries[1].DedupKey)
	})

	t.Run("single mode carries ordering attributes", func(t *testing.T) {
		queue := inmem.New()
		p, err := publisher.New(queue, "events.fifo", publisher.WithBatchSize(1))
		require.NoError(t, err)

		require.NoError(t, p.Publish(context.Background(), records(10)))

		singles := queue.Singles()
		require.Len(t, singles, 1)
		assert.NotEmpty(t, singles[0].Attrs.DedupKey)
		assert.Equal(t, "default", singles[0].Attrs.GroupKey)
	})
}

func TestPublish_StandardQueueOmitsOrderingFields(t *testing.T) {
	queue := inmem.New()
	p, err := publisher.New(queue, "events",
		publisher.WithDedupKeyTemplate("{id}"),
		publisher.WithBatchSize(1),
	)
	require.NoError(t, err)

	recs := []publisher.Record{{Payload: []byte("a"), Fields: map[string]any{"id": 1}}}
	require.NoError(t, p.Publish(context.Background(), recs))

	singles := queue.Singles()
	require.Len(t, singles, 1)
	assert.Empty(t, singles[0].Attrs.GroupKey)
	assert.Empty(t, singles[0].Attrs.DedupKey)
}

func TestPublish_PropagatesQueueErrors(t *testing.T) {
	sendErr := errors.New("queue unreachable")

	t.Run("batch mode", func(t *testing.T) {
		queue := inmem.New()
		queue.FailWith = sendErr
		p, err := publisher.New(queue, "events")
		require.NoError(t, err)

		err = p.Publish(context.Background(), records(10))
		assert.ErrorIs(t, err, sendErr)
	})

	t.Run("single mode", func(t *testing.T) {
		queue := inmem.New()
		queue.FailWith = sendErr
		p, err := publisher.New(queue, "events", publisher.WithBatchSize(1))
		require.NoError(t, err)

		err = p.Publish(context.Background(), records(10))
		assert.ErrorIs(t, err, sendErr)
	})
}

func TestPublish_ConcurrentFirstUseSharesOneToken(t *testing.T) {
	queue := inmem.New()
	p, err := publisher.New(queue, "events.fifo", publisher.WithBatchSize(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(context.Background(), records(10))
		}()
	}
	wg.Wait()

	singles := queue.Singles()
	require.Len(t, singles, 16)
	token := singles[0].Attrs.DedupKey
	require.NotEmpty(t, token)
	for _, s := range singles {
		assert.Equal(t, token, s.Attrs.DedupKey)
	}
}

func TestPublish_SequentialBatchSends(t *testing.T) {
	queue := inmem.New()
	p, err := publisher.New(queue, "events", publisher.WithBatchSize(3))
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), records(1, 2, 3, 4, 5, 6, 7)))

	batches := queue.Batches()
	require.Len(t, batches, 3)
	var ids []string
	for _, b := range batches {
		for _, e := range b {
			ids = append(ids, e.ID)
		}
	}
	for i, id := range ids {
		assert.Equal(t, strconv.Itoa(i), id)
	}
}
