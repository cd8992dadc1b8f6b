package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeWriter struct {
	keys, values [][]byte
	err          error
}

func (w *fakeWriter) Write(_ context.Context, key, value []byte) error {
	if w.err != nil {
		return w.err
	}
	w.keys = append(w.keys, key)
	w.values = append(w.values, value)
	return nil
}

func event() model.ChangeEvent {
	return model.ChangeEvent{
		ID:        "01HZZZZZZZZZZZZZZZZZZZZZZZ",
		EntitySet: "Customers",
		Op:        model.OpReplace,
		Key:       3,
		At:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Payload:   []byte(`{"CustomerID":3}`),
	}
}

func TestKafkaPublisherWrites(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, NewBreaker(3, time.Second), 0, nil)

	require.NoError(t, p.Publish(context.Background(), event()))
	require.Len(t, w.keys, 1)
	assert.Equal(t, "Customers:3", string(w.keys[0]))
	assert.Equal(t, int64(3), gjson.GetBytes(w.values[0], "payload.CustomerID").Int())
}

func TestKafkaPublisherBreaker(t *testing.T) {
	w := &fakeWriter{err: errors.New("no leader")}
	p := NewKafkaPublisher(w, NewBreaker(2, time.Hour), time.Second, nil)
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, event()))
	assert.Error(t, p.Publish(ctx, event()))
	assert.ErrorIs(t, p.Publish(ctx, event()), ErrBreakerOpen)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), event()))
}
