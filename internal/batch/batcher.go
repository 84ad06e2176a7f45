// Package batch buffers tracking events and writes them to a sink in
// batches. Flushing is explicit: callers either call Flush themselves or run
// the interval loop; there are no package-level queues or ambient timers.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/pkg/logger"
)

// Sink receives flushed event batches.
type Sink interface {
	WriteEvents(ctx context.Context, events []models.MenuEvent) error
	Close() error
}

// FlushResult reports what one flush call achieved.
type FlushResult struct {
	Flushed   int `json:"flushed"`
	Remaining int `json:"remaining"`
}

// Batcher accumulates events and hands them to its sink either when the
// buffer reaches maxBatch or when Flush is called. A failed write puts the
// unwritten events back at the head of the buffer once, so a later flush
// retries them in order.
type Batcher struct {
	sink     Sink
	interval time.Duration
	maxBatch int
	log      *logger.Logger

	mu  sync.Mutex
	buf []models.MenuEvent
}

func NewBatcher(sink Sink, interval time.Duration, maxBatch int, log *logger.Logger) *Batcher {
	if maxBatch <= 0 {
		maxBatch = 100
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Batcher{
		sink:     sink,
		interval: interval,
		maxBatch: maxBatch,
		log:      log,
		buf:      make([]models.MenuEvent, 0, maxBatch),
	}
}

// Add buffers one event, flushing inline when the buffer reaches the batch
// limit. The returned error is the inline flush's, if one ran.
func (b *Batcher) Add(ctx context.Context, event models.MenuEvent) error {
	b.mu.Lock()
	b.buf = append(b.buf, event)
	full := len(b.buf) >= b.maxBatch
	b.mu.Unlock()

	if !full {
		return nil
	}
	_, err := b.Flush(ctx)
	return err
}

// Len reports how many events are waiting.
func (b *Batcher) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// Flush drains the buffer and writes it to the sink in batch-sized chunks.
// On a write failure the unwritten tail goes back to the head of the buffer
// and the error is returned with a partial result.
func (b *Batcher) Flush(ctx context.Context) (FlushResult, error) {
	b.mu.Lock()
	pending := b.buf
	b.buf = make([]models.MenuEvent, 0, b.maxBatch)
	b.mu.Unlock()

	flushed := 0
	for flushed < len(pending) {
		chunk := pending[flushed:min(flushed+b.maxBatch, len(pending))]
		if err := b.sink.WriteEvents(ctx, chunk); err != nil {
			b.requeue(pending[flushed:])
			return FlushResult{Flushed: flushed, Remaining: b.Len()}, err
		}
		flushed += len(chunk)
	}

	return FlushResult{Flushed: flushed, Remaining: b.Len()}, nil
}

// requeue returns unwritten events to the head so order is preserved.
func (b *Batcher) requeue(events []models.MenuEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(append(make([]models.MenuEvent, 0, len(events)+len(b.buf)), events...), b.buf...)
}

// Run flushes on the configured interval until ctx is cancelled. Flush
// errors are logged and the events stay buffered for the next tick.
func (b *Batcher) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.Len() == 0 {
				continue
			}
			result, err := b.Flush(ctx)
			if err != nil {
				b.log.Error("event flush failed", "error", err, "flushed", result.Flushed, "remaining", result.Remaining)
				continue
			}
			b.log.Debug("flushed events", "count", result.Flushed)
		}
	}
}

// Close performs a final flush and closes the sink.
func (b *Batcher) Close(ctx context.Context) error {
	_, ferr := b.Flush(ctx)
	cerr := b.sink.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
