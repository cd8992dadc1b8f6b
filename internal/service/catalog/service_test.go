package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/events"
	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e model.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func newService(pub *recordingPublisher) *Service {
	return New(
		repository.NewCustomersRepository(repository.SeedCustomers()),
		repository.NewOrdersRepository(repository.SeedOrders()),
		pub,
		nil,
	)
}

func newCustomer(id int64) model.Customer {
	c := repository.SeedCustomers()[0]
	c.CustomerID = id
	c.CustomerName = "Fresh Start Inc"
	return c
}

func TestListCustomers(t *testing.T) {
	svc := newService(&recordingPublisher{})

	env, rep, err := svc.ListCustomers(context.Background(), odata.Options{
		Filter: "contains(CustomerName, 'tech')",
		Count:  true,
	})
	require.NoError(t, err)
	assert.True(t, rep.FilterApplied)
	require.Len(t, env.Value, 1)
	assert.Equal(t, 1, *env.Count)
}

func TestListOrders(t *testing.T) {
	svc := newService(&recordingPublisher{})

	env, _, err := svc.ListOrders(context.Background(), odata.Options{OrderBy: "TotalAmount desc", Top: mo.Some(1)})
	require.NoError(t, err)
	require.Len(t, env.Value, 1)
	id, _ := env.Value[0].Get("OrderID")
	assert.Equal(t, int64(1004), id)
}

func TestGetCustomerExpand(t *testing.T) {
	svc := newService(&recordingPublisher{})
	ctx := context.Background()

	rec, err := svc.GetCustomer(ctx, 1, "", "Orders")
	require.NoError(t, err)
	v, ok := rec.Get("Orders")
	require.True(t, ok)
	orders := v.([]*odata.Record)
	assert.Equal(t, []int64{1001, 1003}, lo.Map(orders, func(r *odata.Record, _ int) int64 {
		id, _ := r.Get("OrderID")
		return id.(int64)
	}))

	rec, err = svc.GetCustomer(ctx, 1, "CustomerName", "Orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"CustomerName"}, rec.Keys())

	rec, err = svc.GetCustomer(ctx, 1, "CustomerName,Orders", "Orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"CustomerName", "Orders"}, rec.Keys())

	rec, err = svc.GetCustomer(ctx, 1, "", "Invoices")
	require.NoError(t, err)
	assert.False(t, rec.Has("Orders"))
}

func TestGetNotFound(t *testing.T) {
	svc := newService(&recordingPublisher{})
	ctx := context.Background()

	_, err := svc.GetCustomer(ctx, 99, "", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.GetOrder(ctx, 99, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetOrderSelect(t *testing.T) {
	svc := newService(&recordingPublisher{})

	rec, err := svc.GetOrder(context.Background(), 1002, "Status,Bogus")
	require.NoError(t, err)
	assert.Equal(t, []string{"Status"}, rec.Keys())
}

func TestCreateReadBack(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, newCustomer(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.CustomerID)

	rec, err := svc.GetCustomer(ctx, 5, "CustomerName", "")
	require.NoError(t, err)
	name, _ := rec.Get("CustomerName")
	assert.Equal(t, "Fresh Start Inc", name)

	_, err = svc.CreateCustomer(ctx, newCustomer(5))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.Equal(t, model.OpCreate, e.Op)
	assert.Equal(t, "Customers", e.EntitySet)
	assert.Equal(t, int64(5), e.Key)
	assert.Len(t, e.ID, 26)
	assert.Equal(t, "Fresh Start Inc", gjson.GetBytes(e.Payload, "CustomerName").String())
}

func TestCreateRejectsInvalid(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)

	c := newCustomer(6)
	c.Status = "Gone"
	_, err := svc.CreateCustomer(context.Background(), c)
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.Empty(t, pub.events)
}

func TestReplaceCustomer(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)
	ctx := context.Background()

	upd := repository.SeedCustomers()[2]
	upd.Status = model.CustomerActive
	_, err := svc.ReplaceCustomer(ctx, 3, upd)
	require.NoError(t, err)

	env, _, err := svc.ListCustomers(ctx, odata.Options{Filter: "Status eq 'Inactive'"})
	require.NoError(t, err)
	assert.Empty(t, env.Value)

	_, err = svc.ReplaceCustomer(ctx, 3, newCustomer(8))
	assert.ErrorIs(t, err, ErrImmutableKey)

	_, err = svc.ReplaceCustomer(ctx, 42, newCustomer(42))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.OpReplace, pub.events[0].Op)
}

func TestDeleteCustomer(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)
	ctx := context.Background()

	require.NoError(t, svc.DeleteCustomer(ctx, 4))
	_, err := svc.GetCustomer(ctx, 4, "", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, 4), repository.ErrNotFound)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.OpDelete, pub.events[0].Op)
	assert.Empty(t, pub.events[0].Payload)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newService(pub)

	_, err := svc.CreateCustomer(context.Background(), newCustomer(10))
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

// ctxWriter fails the way a Kafka write does when its context is done.
type ctxWriter struct {
	mu     sync.Mutex
	writes int
}

func (w *ctxWriter) Write(ctx context.Context, _, _ []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	return nil
}

func TestEventsSurviveCancelledRequest(t *testing.T) {
	w := &ctxWriter{}
	br := events.NewBreaker(3, time.Minute)
	svc := New(
		repository.NewCustomersRepository(repository.SeedCustomers()),
		repository.NewOrdersRepository(repository.SeedOrders()),
		events.NewKafkaPublisher(w, br, time.Second, nil),
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for id := int64(20); id < 25; id++ {
		_, err := svc.CreateCustomer(ctx, newCustomer(id))
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteCustomer(ctx, 20))

	assert.Equal(t, 6, w.writes)
	assert.False(t, br.Open())
}
