package repository

import (
	"context"

	"github.com/jmehdipour/odata-gateway/internal/model"
)

type CustomersRepository interface {
	All(ctx context.Context) ([]model.Customer, error)
	Find(ctx context.Context, id int64) (*model.Customer, error)
	Insert(ctx context.Context, c model.Customer) error
	Replace(ctx context.Context, id int64, c model.Customer) error
	Delete(ctx context.Context, id int64) error
}

type CustomersRepositoryImpl struct {
	t *table[model.Customer]
}

func NewCustomersRepository(seed []model.Customer) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{
		t: newTable(func(c model.Customer) int64 { return c.CustomerID }, seed),
	}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

// All returns the customers in insertion order.
func (r *CustomersRepositoryImpl) All(_ context.Context) ([]model.Customer, error) {
	return r.t.all(), nil
}

// Find returns (nil, nil) when id is absent.
func (r *CustomersRepositoryImpl) Find(_ context.Context, id int64) (*model.Customer, error) {
	c, ok := r.t.find(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Insert fails with ErrDuplicateKey when CustomerID is taken.
func (r *CustomersRepositoryImpl) Insert(_ context.Context, c model.Customer) error {
	return r.t.insert(c)
}

// Replace swaps the whole record stored under id, keeping its position.
func (r *CustomersRepositoryImpl) Replace(_ context.Context, id int64, c model.Customer) error {
	return r.t.replace(id, c)
}

func (r *CustomersRepositoryImpl) Delete(_ context.Context, id int64) error {
	return r.t.delete(id)
}
