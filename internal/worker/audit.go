package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/kafka"
	"github.com/jmehdipour/odata-gateway/internal/metrics"
	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"go.uber.org/zap"
)

// Source is the subset of kafka.Consumer the writer needs.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// AuditWriter:
// - fetches change events from Kafka,
// - buffers them up to BatchSize or BatchWait,
// - writes each batch to the audit sink and only then commits the offsets.
//
// A failed insert keeps the batch and retries it on the next tick; fetching
// pauses while the buffer is full.
type AuditWriter struct {
	Source Source
	Sink   repository.AuditRepository
	Log    *zap.Logger

	BatchSize    int
	BatchWait    time.Duration
	FetchBackoff time.Duration
	DrainTimeout time.Duration
}

func NewAuditWriter(src Source, sink repository.AuditRepository, log *zap.Logger) *AuditWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditWriter{
		Source:       src,
		Sink:         sink,
		Log:          log,
		BatchSize:    200,
		BatchWait:    500 * time.Millisecond,
		FetchBackoff: 200 * time.Millisecond,
		DrainTimeout: 5 * time.Second,
	}
}

type batch struct {
	events []model.ChangeEvent
	msgs   []kafka.Message
}

func (b *batch) reset() {
	b.events = b.events[:0]
	b.msgs = b.msgs[:0]
}

// Run blocks until ctx is cancelled, then flushes what is buffered.
func (w *AuditWriter) Run(ctx context.Context) error {
	if w.BatchSize <= 0 {
		w.BatchSize = 200
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 500 * time.Millisecond
	}

	msgs := make(chan kafka.Message, w.BatchSize)
	go w.fetchLoop(ctx, msgs)

	ticker := time.NewTicker(w.BatchWait)
	defer ticker.Stop()

	var b batch
	for {
		in := msgs
		if len(b.msgs) >= w.BatchSize {
			in = nil
		}

		select {
		case <-ctx.Done():
			w.drain(&b)
			return nil
		case m, ok := <-in:
			if !ok {
				w.drain(&b)
				return nil
			}
			if e, ok := w.decode(m); ok {
				b.events = append(b.events, e)
			}
			// poison messages ride along so their offset is committed in order
			b.msgs = append(b.msgs, m)
			if len(b.msgs) >= w.BatchSize {
				w.flush(ctx, &b)
			}
		case <-ticker.C:
			w.flush(ctx, &b)
		}
	}
}

func (w *AuditWriter) fetchLoop(ctx context.Context, out chan<- kafka.Message) {
	defer close(out)
	for {
		m, err := w.Source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.Log.Warn("audit: kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.FetchBackoff):
			}
			continue
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return
		}
	}
}

func (w *AuditWriter) decode(m kafka.Message) (model.ChangeEvent, bool) {
	var e model.ChangeEvent
	if err := json.Unmarshal(m.Value, &e); err != nil || e.ID == "" {
		metrics.AuditRowsTotal.WithLabelValues("poison").Inc()
		w.Log.Warn("audit: skipping undecodable change event",
			zap.Error(err),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		return model.ChangeEvent{}, false
	}
	return e, true
}

func (w *AuditWriter) flush(ctx context.Context, b *batch) {
	if len(b.msgs) == 0 {
		return
	}
	if len(b.events) > 0 {
		if err := w.Sink.InsertBatch(ctx, b.events); err != nil {
			metrics.AuditRowsTotal.WithLabelValues("failed").Add(float64(len(b.events)))
			w.Log.Error("audit: insert batch failed, will retry", zap.Error(err), zap.Int("rows", len(b.events)))
			return
		}
		metrics.AuditRowsTotal.WithLabelValues("written").Add(float64(len(b.events)))
	}
	if err := w.Source.Commit(ctx, b.msgs...); err != nil {
		// rows are in; a redelivery is absorbed by the sink's primary key
		w.Log.Warn("audit: offset commit failed", zap.Error(err))
	}
	w.Log.Debug("audit: batch flushed", zap.Int("rows", len(b.events)), zap.Int("messages", len(b.msgs)))
	b.reset()
}

func (w *AuditWriter) drain(b *batch) {
	ctx, cancel := context.WithTimeout(context.Background(), w.DrainTimeout)
	defer cancel()
	w.flush(ctx, b)
}
