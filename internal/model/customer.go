package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// money fields go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type CustomerStatus string

const (
	CustomerActive    CustomerStatus = "Active"
	CustomerInactive  CustomerStatus = "Inactive"
	CustomerSuspended CustomerStatus = "Suspended"
)

func (s CustomerStatus) String() string { return string(s) }

func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive || s == CustomerSuspended
}

// ParseCustomerStatus matches the enum name case-insensitively.
func ParseCustomerStatus(s string) (CustomerStatus, bool) {
	for _, st := range []CustomerStatus{CustomerActive, CustomerInactive, CustomerSuspended} {
		if strings.EqualFold(strings.TrimSpace(s), st.String()) {
			return st, true
		}
	}
	return "", false
}

// Customer is the entity served under /odata/Customers.
type Customer struct {
	CustomerID   int64           `json:"CustomerID"`
	CustomerName string          `json:"CustomerName"`
	Email        string          `json:"Email"`
	Phone        string          `json:"Phone"`
	City         string          `json:"City"`
	Country      string          `json:"Country"`
	Status       CustomerStatus  `json:"Status"`
	CreatedDate  time.Time       `json:"CreatedDate"`
	CreditLimit  decimal.Decimal `json:"CreditLimit"`
}

// ErrInvalid marks a record that breaks a field rule.
var ErrInvalid = errors.New("invalid record")

// Validate checks the rules the type system cannot express.
func (c Customer) Validate() error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: Status %q is not one of Active, Inactive, Suspended", ErrInvalid, c.Status)
	}
	if c.CreditLimit.IsNegative() {
		return fmt.Errorf("%w: CreditLimit must not be negative", ErrInvalid)
	}
	if c.CreatedDate.IsZero() {
		return fmt.Errorf("%w: CreatedDate is required", ErrInvalid)
	}
	return nil
}

// naiveLayouts are ISO 8601 forms without a zone offset; they are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads RFC 3339, or a zone-less ISO 8601 time taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO 8601 timestamp", ErrInvalid, s)
}

type customerJSON Customer

// UnmarshalJSON accepts CreatedDate with or without a zone offset.
func (c *Customer) UnmarshalJSON(b []byte) error {
	aux := struct {
		*customerJSON
		CreatedDate *string `json:"CreatedDate"`
	}{customerJSON: (*customerJSON)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.CreatedDate == nil {
		return nil
	}
	t, err := ParseTimestamp(*aux.CreatedDate)
	if err != nil {
		return err
	}
	c.CreatedDate = t
	return nil
}
