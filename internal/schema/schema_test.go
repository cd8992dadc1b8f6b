package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMetadata(t *testing.T) {
	b, err := json.Marshal(Metadata())
	require.NoError(t, err)
	doc := gjson.ParseBytes(b)

	assert.Equal(t, "4.0", doc.Get("version").String())

	var names []string
	doc.Get("entities.Customers.properties").ForEach(func(k, v gjson.Result) bool {
		names = append(names, k.String())
		return true
	})
	assert.Equal(t, []string{
		"CustomerID", "CustomerName", "Email", "Phone", "City",
		"Country", "Status", "CreatedDate", "CreditLimit",
	}, names)

	assert.Equal(t, "int", doc.Get("entities.Orders.properties.OrderID").String())
	assert.Equal(t, "int", doc.Get("entities.Orders.properties.CustomerID").String())
	assert.Equal(t, "array", doc.Get("entities.Orders.properties.Items").String())
}

func TestKeysAreDeclared(t *testing.T) {
	_, ok := Customers.Field(Customers.Key())
	assert.True(t, ok)
	_, ok = Orders.Field(Orders.Key())
	assert.True(t, ok)
	assert.Equal(t, OrdersSet, CustomerOrders.Name)
}
