// Package events publishes record store changes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/metrics"
	"github.com/jmehdipour/odata-gateway/internal/model"
	"go.uber.org/zap"
)

var ErrBreakerOpen = errors.New("event publisher circuit open")

type Publisher interface {
	Publish(ctx context.Context, e model.ChangeEvent) error
}

// Writer is the transport a KafkaPublisher writes to.
type Writer interface {
	Write(ctx context.Context, key, value []byte) error
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.ChangeEvent) error { return nil }

type KafkaPublisher struct {
	w       Writer
	br      *Breaker
	timeout time.Duration
	log     *zap.Logger
}

func NewKafkaPublisher(w Writer, br *Breaker, timeout time.Duration, log *zap.Logger) *KafkaPublisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaPublisher{w: w, br: br, timeout: timeout, log: log}
}

var _ Publisher = (*KafkaPublisher)(nil)
var _ Publisher = NopPublisher{}

// Publish writes e keyed by "<entity_set>:<key>". While the breaker is open
// events are dropped and ErrBreakerOpen is returned.
func (p *KafkaPublisher) Publish(ctx context.Context, e model.ChangeEvent) error {
	if !p.br.TryAcquire() {
		metrics.EventsTotal.WithLabelValues("dropped").Inc()
		return ErrBreakerOpen
	}

	value, err := json.Marshal(e)
	if err != nil {
		p.br.OnSuccess() // not a transport failure
		return fmt.Errorf("marshal change event: %w", err)
	}
	key := []byte(e.EntitySet + ":" + strconv.FormatInt(e.Key, 10))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.w.Write(ctx, key, value); err != nil {
		p.br.OnFailure()
		metrics.EventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("write change event %s: %w", e.ID, err)
	}
	p.br.OnSuccess()
	metrics.EventsTotal.WithLabelValues("published").Inc()
	p.log.Debug("change event published",
		zap.String("id", e.ID),
		zap.String("entity_set", e.EntitySet),
		zap.String("op", e.Op.String()),
		zap.Int64("key", e.Key),
	)
	return nil
}
