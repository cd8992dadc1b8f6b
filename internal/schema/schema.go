// Package schema declares the accessor tables of the served entity sets and
// renders the metadata document from them.
package schema

import (
	"time"

	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/shopspring/decimal"
)

const (
	CustomersSet = "Customers"
	OrdersSet    = "Orders"

	MetadataVersion = "4.0"
)

var Customers = odata.NewEntitySet(CustomersSet, "CustomerID",
	odata.IntField("CustomerID", func(c model.Customer) int64 { return c.CustomerID }),
	odata.StringField("CustomerName", func(c model.Customer) string { return c.CustomerName }),
	odata.StringField("Email", func(c model.Customer) string { return c.Email }),
	odata.StringField("Phone", func(c model.Customer) string { return c.Phone }),
	odata.StringField("City", func(c model.Customer) string { return c.City }),
	odata.StringField("Country", func(c model.Customer) string { return c.Country }),
	odata.StringField("Status", func(c model.Customer) string { return c.Status.String() }),
	odata.TimeField("CreatedDate", func(c model.Customer) time.Time { return c.CreatedDate }),
	odata.DecimalField("CreditLimit", func(c model.Customer) decimal.Decimal { return c.CreditLimit }),
)

var Orders = odata.NewEntitySet(OrdersSet, "OrderID",
	odata.IntField("OrderID", func(o model.Order) int64 { return o.OrderID }),
	odata.IntField("CustomerID", func(o model.Order) int64 { return o.CustomerID }),
	odata.TimeField("OrderDate", func(o model.Order) time.Time { return o.OrderDate }),
	odata.DecimalField("TotalAmount", func(o model.Order) decimal.Decimal { return o.TotalAmount }),
	odata.StringField("Status", func(o model.Order) string { return o.Status }),
	odata.StringsField("Items", func(o model.Order) []string { return o.Items }),
)

// CustomerOrders is the only navigation: Customers(id)?$expand=Orders.
var CustomerOrders = odata.Navigation[model.Customer, model.Order]{
	Name:   OrdersSet,
	Target: Orders,
	Related: func(c model.Customer, o model.Order) bool {
		return o.CustomerID == c.CustomerID
	},
}

// Metadata builds the static schema description of both entity sets.
func Metadata() map[string]any {
	entities := odata.NewRecord(2)
	entities.Set(Customers.Name(), describe(Customers))
	entities.Set(Orders.Name(), describe(Orders))
	return map[string]any{
		"version":  MetadataVersion,
		"entities": entities,
	}
}

func describe[T any](set *odata.EntitySet[T]) *odata.Record {
	props := odata.NewRecord(len(set.Fields()))
	for _, f := range set.Fields() {
		props.Set(f.Name, string(f.Kind))
	}
	out := odata.NewRecord(2)
	out.Set("key", set.Key())
	out.Set("properties", props)
	return out
}
