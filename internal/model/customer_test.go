package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() Customer {
	return Customer{
		CustomerID:   9,
		CustomerName: "Nine",
		Status:       CustomerActive,
		CreatedDate:  time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		CreditLimit:  decimal.NewFromInt(100),
	}
}

func TestParseCustomerStatus(t *testing.T) {
	tests := []struct {
		in   string
		want CustomerStatus
		ok   bool
	}{
		{"Active", CustomerActive, true},
		{"inactive", CustomerInactive, true},
		{" SUSPENDED ", CustomerSuspended, true},
		{"Deleted", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCustomerStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCustomerValidate(t *testing.T) {
	assert.NoError(t, validCustomer().Validate())

	tests := map[string]func(*Customer){
		"bad status":      func(c *Customer) { c.Status = "Deleted" },
		"negative credit": func(c *Customer) { c.CreditLimit = decimal.NewFromInt(-1) },
		"missing date":    func(c *Customer) { c.CreatedDate = time.Time{} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := validCustomer()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestCustomerJSON(t *testing.T) {
	b, err := json.Marshal(validCustomer())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"CreditLimit":100`)

	var c Customer
	require.NoError(t, json.Unmarshal([]byte(`{"CreditLimit":"250.50","CreatedDate":"2024-05-01T00:00:00Z"}`), &c))
	assert.True(t, c.CreditLimit.Equal(decimal.RequireFromString("250.5")))
}

func TestCustomerCreatedDateForms(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`"2023-01-15T00:00:00Z"`, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{`"2023-01-15T00:00:00"`, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{`"2023-01-15T08:30:00.250"`, time.Date(2023, 1, 15, 8, 30, 0, 250_000_000, time.UTC)},
		{`"2023-01-15"`, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
		{`"2023-01-15T02:00:00+02:00"`, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var c Customer
		require.NoError(t, json.Unmarshal([]byte(`{"CustomerName":"x","CreatedDate":`+tt.raw+`}`), &c), tt.raw)
		assert.True(t, tt.want.Equal(c.CreatedDate), tt.raw)
		assert.Equal(t, "x", c.CustomerName)
	}

	var c Customer
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"CreatedDate":"last tuesday"}`), &c), ErrInvalid)
}
