package repository

import (
	"context"

	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/samber/lo"
)

// OrdersRepository is read-only: orders come from the seed fixture.
type OrdersRepository interface {
	All(ctx context.Context) ([]model.Order, error)
	Find(ctx context.Context, id int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
}

type OrdersRepositoryImpl struct {
	t *table[model.Order]
}

func NewOrdersRepository(seed []model.Order) *OrdersRepositoryImpl {
	return &OrdersRepositoryImpl{
		t: newTable(func(o model.Order) int64 { return o.OrderID }, seed),
	}
}

var _ OrdersRepository = (*OrdersRepositoryImpl)(nil)

func (r *OrdersRepositoryImpl) All(_ context.Context) ([]model.Order, error) {
	return r.t.all(), nil
}

func (r *OrdersRepositoryImpl) Find(_ context.Context, id int64) (*model.Order, error) {
	o, ok := r.t.find(id)
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// ListByCustomer returns the orders of one customer in insertion order.
func (r *OrdersRepositoryImpl) ListByCustomer(_ context.Context, customerID int64) ([]model.Order, error) {
	return lo.Filter(r.t.all(), func(o model.Order, _ int) bool { return o.CustomerID == customerID }), nil
}
