package repository

import (
	"time"

	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedCustomers is the demo dataset loaded at startup.
func SeedCustomers() []model.Customer {
	return []model.Customer{
		{
			CustomerID:   1,
			CustomerName: "Tech Solutions LLC",
			Email:        "contact@techsolutions.com",
			Phone:        "+1-555-0123",
			City:         "New York",
			Country:      "USA",
			Status:       model.CustomerActive,
			CreatedDate:  day(2023, time.January, 15),
			CreditLimit:  decimal.NewFromInt(50000),
		},
		{
			CustomerID:   2,
			CustomerName: "Global Trading Co",
			Email:        "info@globaltrading.com",
			Phone:        "+1-555-0456",
			City:         "Los Angeles",
			Country:      "USA",
			Status:       model.CustomerActive,
			CreatedDate:  day(2023, time.March, 22),
			CreditLimit:  decimal.NewFromInt(75000),
		},
		{
			CustomerID:   3,
			CustomerName: "European Systems",
			Email:        "sales@eusystems.eu",
			Phone:        "+49-30-123456",
			City:         "Berlin",
			Country:      "Germany",
			Status:       model.CustomerInactive,
			CreatedDate:  day(2023, time.February, 10),
			CreditLimit:  decimal.NewFromInt(30000),
		},
		{
			CustomerID:   4,
			CustomerName: "Asian Enterprises",
			Email:        "contact@asianent.com",
			Phone:        "+81-3-1234567",
			City:         "Tokyo",
			Country:      "Japan",
			Status:       model.CustomerActive,
			CreatedDate:  day(2023, time.April, 5),
			CreditLimit:  decimal.NewFromInt(60000),
		},
	}
}

func SeedOrders() []model.Order {
	return []model.Order{
		{OrderID: 1001, CustomerID: 1, OrderDate: day(2024, time.January, 10), TotalAmount: decimal.NewFromInt(15000), Status: "Completed", Items: []string{"Laptop", "Software License"}},
		{OrderID: 1002, CustomerID: 2, OrderDate: day(2024, time.January, 15), TotalAmount: decimal.NewFromInt(25000), Status: "Processing", Items: []string{"Server", "Network Equipment"}},
		{OrderID: 1003, CustomerID: 1, OrderDate: day(2024, time.February, 1), TotalAmount: decimal.NewFromInt(8000), Status: "Shipped", Items: []string{"Tablets", "Accessories"}},
		{OrderID: 1004, CustomerID: 4, OrderDate: day(2024, time.February, 10), TotalAmount: decimal.NewFromInt(35000), Status: "Completed", Items: []string{"Enterprise Software"}},
	}
}
