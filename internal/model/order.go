package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is read-only on the HTTP surface; CustomerID is a soft reference.
type Order struct {
	OrderID     int64           `json:"OrderID"`
	CustomerID  int64           `json:"CustomerID"`
	OrderDate   time.Time       `json:"OrderDate"`
	TotalAmount decimal.Decimal `json:"TotalAmount"`
	Status      string          `json:"Status"`
	Items       []string        `json:"Items"`
}
