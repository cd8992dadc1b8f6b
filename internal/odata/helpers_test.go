package odata_test

import (
	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/samber/lo"
)

func customerIDs(cs []model.Customer) []int64 {
	return lo.Map(cs, func(c model.Customer, _ int) int64 { return c.CustomerID })
}

func orderIDs(os []model.Order) []int64 {
	return lo.Map(os, func(o model.Order, _ int) int64 { return o.OrderID })
}

var (
	seedCustomers = repository.SeedCustomers()
	seedOrders    = repository.SeedOrders()
)

func repositorySeedCopy() []model.Customer {
	return repository.SeedCustomers()
}
