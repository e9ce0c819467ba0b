package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"steakfeed/internal/core/record"
	perr "steakfeed/internal/platform/errors"
	"steakfeed/internal/platform/logger"
	"steakfeed/internal/platform/retry"
	"steakfeed/internal/services/ingest/domain"
)

// MaxBatch is the most items one batch write may carry
const MaxBatch = 25

var errPartial = errors.New("ingest: store left items unprocessed")

// WriterOptions configures a Writer
type WriterOptions struct {
	// Capacity is the queue size that triggers a flush, 1..MaxBatch; 0 means MaxBatch
	Capacity int
	// BackoffUnit scales the d*(d+1) backoff; 0 means 1s
	BackoffUnit time.Duration
	// Sleep is the backoff seam; nil waits on a timer
	Sleep retry.SleepFunc
}

// Writer queues items and writes them in bounded batches. It retries
// unprocessed items forever with compound backoff, so a store that never
// accepts a batch stalls the writer until ctx ends.
// A Writer belongs to one run and is not safe for concurrent use
type Writer struct {
	store    domain.ItemWriter
	capacity int
	policy   retry.Policy

	queue []record.Item
	index map[string]int
	total int

	flushes int
	retries int
}

// NewWriter builds a Writer over store
func NewWriter(store domain.ItemWriter, o WriterOptions) *Writer {
	c := o.Capacity
	if c <= 0 || c > MaxBatch {
		c = MaxBatch
	}
	unit := o.BackoffUnit
	if unit <= 0 {
		unit = time.Second
	}
	return &Writer{
		store:    store,
		capacity: c,
		policy: retry.Policy{
			Delay:     retry.Compound(unit),
			Retryable: retryableWrite,
			Sleep:     o.Sleep,
		},
		queue: make([]record.Item, 0, c),
		index: make(map[string]int, c),
	}
}

func retryableWrite(err error) bool {
	return errors.Is(err, errPartial) || perr.Retryable(err)
}

// Enqueue adds it to the queue and flushes when the queue is full.
// An item whose hash is already queued replaces the queued one
func (w *Writer) Enqueue(ctx context.Context, it record.Item) error {
	k := it.Key()
	if i, ok := w.index[k]; ok {
		w.queue[i] = it
		return nil
	}
	w.index[k] = len(w.queue)
	w.queue = append(w.queue, it)
	if len(w.queue) >= w.capacity {
		return w.Flush(ctx)
	}
	return nil
}

// Flush writes the queue until the store accepts every item.
// It is a no-op on an empty queue. On error the queue is kept
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.queue) == 0 {
		return nil
	}
	log := logger.C(ctx)

	pending := w.queue
	p := w.policy
	p.OnRetry = func(attempt int, wait time.Duration, err error) {
		w.retries++
		log.Warn().Err(err).Int("attempt", attempt).Int("pending", len(pending)).Dur("retry_in", wait).Msg("batch write incomplete, retrying")
	}
	err := p.Do(ctx, func(ctx context.Context) error {
		unprocessed, err := w.store.BatchWrite(ctx, pending)
		if err != nil {
			return err
		}
		if len(unprocessed) > 0 {
			pending = unprocessed
			return fmt.Errorf("%w: %d of batch", errPartial, len(unprocessed))
		}
		return nil
	})
	if err != nil {
		return err
	}

	n := len(w.queue)
	w.total += n
	w.flushes++
	w.queue = w.queue[:0]
	clear(w.index)
	log.Debug().Int("items", n).Int("total", w.total).Msg("batch flushed")
	return nil
}

// Total returns how many items the store has accepted so far
func (w *Writer) Total() int { return w.total }

// Flushes returns how many flushes completed
func (w *Writer) Flushes() int { return w.flushes }

// Retries returns how many incomplete batch attempts were retried
func (w *Writer) Retries() int { return w.retries }

// Pending returns the number of queued items
func (w *Writer) Pending() int { return len(w.queue) }
