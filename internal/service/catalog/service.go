// Package catalog runs the OData operations against the record store: it
// reads snapshots, applies query options and publishes change events.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/events"
	"github.com/jmehdipour/odata-gateway/internal/metrics"
	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/jmehdipour/odata-gateway/internal/schema"
	"github.com/jmehdipour/odata-gateway/internal/util"
	"go.uber.org/zap"
)

// ErrImmutableKey is returned when a replace tries to change CustomerID.
var ErrImmutableKey = errors.New("CustomerID is immutable")

type Service struct {
	customers repository.CustomersRepository
	orders    repository.OrdersRepository
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func New(
	customers repository.CustomersRepository,
	orders repository.OrdersRepository,
	publisher events.Publisher,
	log *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		customers: customers,
		orders:    orders,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) ListCustomers(ctx context.Context, opts odata.Options) (odata.Envelope, odata.Report, error) {
	all, err := s.customers.All(ctx)
	if err != nil {
		return odata.Envelope{}, odata.Report{}, fmt.Errorf("list customers: %w", err)
	}
	env, rep := odata.Apply(schema.Customers, opts, all)
	return env, rep, nil
}

func (s *Service) ListOrders(ctx context.Context, opts odata.Options) (odata.Envelope, odata.Report, error) {
	all, err := s.orders.All(ctx)
	if err != nil {
		return odata.Envelope{}, odata.Report{}, fmt.Errorf("list orders: %w", err)
	}
	env, rep := odata.Apply(schema.Orders, opts, all)
	return env, rep, nil
}

// GetCustomer projects one customer. Orders are attached before $select runs,
// so a $select without Orders drops the expansion again.
func (s *Service) GetCustomer(ctx context.Context, id int64, selectFields, expand string) (*odata.Record, error) {
	c, err := s.customers.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("customer %d: %w", id, repository.ErrNotFound)
	}

	rec := schema.Customers.Project(*c)
	if expand != "" {
		orders, err := s.orders.ListByCustomer(ctx, c.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("expand orders: %w", err)
		}
		if related, ok := odata.Expand(expand, schema.CustomerOrders, *c, orders); ok {
			rec.Set(schema.CustomerOrders.Name, related)
		}
	}

	if names := odata.SplitSelect(selectFields); names != nil {
		rec = rec.Pick(names)
	}
	return rec, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64, selectFields string) (*odata.Record, error) {
	o, err := s.orders.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %d: %w", id, repository.ErrNotFound)
	}
	return odata.Project(schema.Orders, *o, odata.SplitSelect(selectFields)), nil
}

func (s *Service) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := c.Validate(); err != nil {
		return model.Customer{}, err
	}
	if err := s.customers.Insert(ctx, c); err != nil {
		s.countMutation(model.OpCreate, err)
		return model.Customer{}, err
	}
	s.countMutation(model.OpCreate, nil)
	s.emit(ctx, model.OpCreate, c.CustomerID, &c)
	return c, nil
}

// ReplaceCustomer swaps the record stored under id. The body must carry the
// same CustomerID.
func (s *Service) ReplaceCustomer(ctx context.Context, id int64, c model.Customer) (model.Customer, error) {
	if c.CustomerID != id {
		return model.Customer{}, fmt.Errorf("%w: path %d, body %d", ErrImmutableKey, id, c.CustomerID)
	}
	if err := c.Validate(); err != nil {
		return model.Customer{}, err
	}
	if err := s.customers.Replace(ctx, id, c); err != nil {
		s.countMutation(model.OpReplace, err)
		return model.Customer{}, err
	}
	s.countMutation(model.OpReplace, nil)
	s.emit(ctx, model.OpReplace, id, &c)
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		s.countMutation(model.OpDelete, err)
		return err
	}
	s.countMutation(model.OpDelete, nil)
	s.emit(ctx, model.OpDelete, id, nil)
	return nil
}

func (s *Service) countMutation(op model.ChangeOp, err error) {
	result := "ok"
	switch {
	case errors.Is(err, repository.ErrNotFound):
		result = "not_found"
	case errors.Is(err, repository.ErrDuplicateKey):
		result = "duplicate"
	case err != nil:
		result = "error"
	}
	metrics.StoreMutationsTotal.WithLabelValues(schema.CustomersSet, op.String(), result).Inc()
}

// emit publishes a change event. The mutation already happened, so a publish
// failure is logged and swallowed. The publish outlives the request: a client
// that hangs up must not lose the event or count against the breaker.
func (s *Service) emit(ctx context.Context, op model.ChangeOp, key int64, c *model.Customer) {
	ctx = context.WithoutCancel(ctx)
	e := model.ChangeEvent{
		ID:        util.NewID(),
		EntitySet: schema.CustomersSet,
		Op:        op,
		Key:       key,
		At:        s.now().UTC(),
	}
	if c != nil {
		payload, err := json.Marshal(schema.Customers.Project(*c))
		if err != nil {
			s.log.Error("marshal change payload", zap.Error(err), zap.Int64("key", key))
			return
		}
		e.Payload = payload
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("change event not published",
			zap.Error(err),
			zap.String("id", e.ID),
			zap.String("op", op.String()),
			zap.Int64("key", key),
		)
	}
}
