package http

import (
	"net/http"

	"github.com/jmehdipour/odata-gateway/internal/schema"
	"github.com/labstack/echo/v4"
)

func metadataHandler() echo.HandlerFunc {
	doc := schema.Metadata()
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	}
}

// indexHandler lists the endpoints and a few example queries.
func indexHandler() echo.HandlerFunc {
	body := map[string]any{
		"message": "OData API",
		"endpoints": map[string]string{
			"metadata":  "/odata/$metadata",
			"customers": "/odata/Customers",
			"orders":    "/odata/Orders",
		},
		"odata_query_examples": map[string]string{
			"filter":  "/odata/Customers?$filter=Status eq 'Active'",
			"select":  "/odata/Customers?$select=CustomerName,Email",
			"orderby": "/odata/Customers?$orderby=CustomerName desc",
			"top":     "/odata/Customers?$top=5",
			"expand":  "/odata/Customers(1)?$expand=Orders",
			"count":   "/odata/Customers?$count=true",
		},
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, body)
	}
}
