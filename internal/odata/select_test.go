package odata_test

import (
	"encoding/json"
	"testing"

	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSplitSelect(t *testing.T) {
	assert.Nil(t, odata.SplitSelect(""))
	assert.Nil(t, odata.SplitSelect("  "))
	assert.Equal(t, []string{"A", "B", "C"}, odata.SplitSelect("A, B,C"))
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   []string
	}{
		{"all fields in declared order", "", []string{
			"CustomerID", "CustomerName", "Email", "Phone", "City",
			"Country", "Status", "CreatedDate", "CreditLimit",
		}},
		{"unknown names dropped", "CustomerName,Bogus", []string{"CustomerName"}},
		{"request order kept", " Email , CustomerName", []string{"Email", "CustomerName"}},
		{"duplicates collapse", "City,City", []string{"City"}},
		{"nothing known", "Bogus", []string{}},
		{"case-sensitive", "customername", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := odata.Select(schema.Customers, tt.fields, seedCustomers)
			require.Len(t, recs, len(seedCustomers))
			for _, r := range recs {
				assert.Equal(t, tt.want, r.Keys())
			}
		})
	}
}

func TestSelectJSON(t *testing.T) {
	recs := odata.Select(schema.Customers, "Email,CustomerName", seedCustomers[:1])
	b, err := json.Marshal(recs[0])
	require.NoError(t, err)
	assert.Equal(t, `{"Email":"contact@techsolutions.com","CustomerName":"Tech Solutions LLC"}`, string(b))
}

func TestFullProjectionJSON(t *testing.T) {
	b, err := json.Marshal(schema.Customers.Project(seedCustomers[1]))
	require.NoError(t, err)

	doc := gjson.ParseBytes(b)
	assert.Equal(t, int64(2), doc.Get("CustomerID").Int())
	assert.Equal(t, "Active", doc.Get("Status").String())
	assert.Equal(t, "2023-03-22T00:00:00Z", doc.Get("CreatedDate").String())
	assert.Equal(t, gjson.Number, doc.Get("CreditLimit").Type)
	assert.Equal(t, float64(75000), doc.Get("CreditLimit").Float())

	b, err = json.Marshal(schema.Orders.Project(seedOrders[0]))
	require.NoError(t, err)
	items := gjson.GetBytes(b, "Items")
	assert.True(t, items.IsArray())
	assert.Equal(t, "Laptop", items.Array()[0].String())
}
