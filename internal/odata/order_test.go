package odata_test

import (
	"testing"

	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		clause   string
		field    string
		wantDesc bool
	}{
		{"CreditLimit", "CreditLimit", false},
		{"CreditLimit asc", "CreditLimit", false},
		{"CreditLimit desc", "CreditLimit", true},
		{"CreditLimit DESC", "CreditLimit", true},
		{"CreditLimit sideways", "CreditLimit", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		field, desc := odata.ParseOrderBy(tt.clause)
		assert.Equal(t, tt.field, field, tt.clause)
		assert.Equal(t, tt.wantDesc, desc, tt.clause)
	}
}

func TestOrderByCustomers(t *testing.T) {
	tests := []struct {
		clause string
		want   []int64
	}{
		{"", []int64{1, 2, 3, 4}},
		{"CreditLimit", []int64{3, 1, 4, 2}},
		{"CreditLimit desc", []int64{2, 4, 1, 3}},
		{"CreatedDate", []int64{1, 3, 2, 4}},
		{"CustomerName", []int64{4, 3, 2, 1}},
		{"Country", []int64{3, 4, 1, 2}},
		{"Country desc", []int64{1, 2, 4, 3}},
		{"Bogus desc", []int64{1, 2, 3, 4}},
		{"creditlimit desc", []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			got := odata.OrderBy(schema.Customers, tt.clause, seedCustomers)
			assert.Equal(t, tt.want, customerIDs(got))
		})
	}
}

func TestOrderByIsStable(t *testing.T) {
	got := odata.OrderBy(schema.Orders, "Status", seedOrders)
	assert.Equal(t, []int64{1001, 1004, 1002, 1003}, orderIDs(got))

	got = odata.OrderBy(schema.Orders, "Status desc", seedOrders)
	assert.Equal(t, []int64{1003, 1002, 1001, 1004}, orderIDs(got))
}

func TestOrderByLeavesInputAlone(t *testing.T) {
	in := repositorySeedCopy()
	_ = odata.OrderBy(schema.Customers, "CreditLimit desc", in)
	assert.Equal(t, []int64{1, 2, 3, 4}, customerIDs(in))
}
