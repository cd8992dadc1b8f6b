package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jmehdipour/odata-gateway/internal/metrics"
	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/schema"
	"github.com/jmehdipour/odata-gateway/internal/service/catalog"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HeaderFilterStatus is set to "ignored" when $filter could not be read and
// the collection was returned unfiltered.
const HeaderFilterStatus = "X-OData-Filter"

const maxBodyBytes = 1 << 20

type handlers struct {
	svc          *catalog.Service
	strictFilter bool
	log          *zap.Logger
}

type listFunc func(ctx context.Context, opts odata.Options) (odata.Envelope, odata.Report, error)

func (h *handlers) listCustomers(c echo.Context) error {
	return h.list(c, schema.CustomersSet, h.svc.ListCustomers)
}

func (h *handlers) listOrders(c echo.Context) error {
	return h.list(c, schema.OrdersSet, h.svc.ListOrders)
}

func (h *handlers) list(c echo.Context, set string, fn listFunc) error {
	metrics.RequestsTotal.WithLabelValues(set, "list").Inc()

	opts, err := odata.ParseOptions(c.QueryParams())
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	env, rep, err := fn(c.Request().Context(), opts)
	if err != nil {
		return h.respondError(c, err, set)
	}

	if !rep.FilterApplied {
		if h.strictFilter {
			return errorJSON(c, http.StatusBadRequest,
				fmt.Sprintf("%s: unsupported $filter %q", odata.ErrMalformedOption, opts.Filter))
		}
		metrics.FilterIgnoredTotal.WithLabelValues(set).Inc()
		h.log.Warn("filter not understood, returning unfiltered collection",
			zap.String("entity_set", set),
			zap.String("filter", opts.Filter),
		)
		c.Response().Header().Set(HeaderFilterStatus, "ignored")
	}

	return c.JSON(http.StatusOK, env)
}

// getByKey serves GET /odata/Customers(<id>) and GET /odata/Orders(<id>).
func (h *handlers) getByKey(c echo.Context) error {
	set, id, err := h.keyFromPath(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	metrics.RequestsTotal.WithLabelValues(set, "get").Inc()

	switch set {
	case schema.CustomersSet:
		rec, err := h.svc.GetCustomer(ctx, id, c.QueryParam(odata.ParamSelect), c.QueryParam(odata.ParamExpand))
		if err != nil {
			return h.respondError(c, err, "Customer")
		}
		return c.JSON(http.StatusOK, rec)
	default:
		rec, err := h.svc.GetOrder(ctx, id, c.QueryParam(odata.ParamSelect))
		if err != nil {
			return h.respondError(c, err, "Order")
		}
		return c.JSON(http.StatusOK, rec)
	}
}

func (h *handlers) createCustomer(c echo.Context) error {
	metrics.RequestsTotal.WithLabelValues(schema.CustomersSet, "create").Inc()

	cust, err := readCustomer(c, true)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	created, err := h.svc.CreateCustomer(c.Request().Context(), cust.Customer)
	if err != nil {
		return h.respondError(c, err, "Customer")
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message":  "Customer created successfully",
		"customer": schema.Customers.Project(created),
	})
}

func (h *handlers) replaceByKey(c echo.Context) error {
	id, err := h.customerKey(c)
	if err != nil {
		return err
	}
	metrics.RequestsTotal.WithLabelValues(schema.CustomersSet, "replace").Inc()

	cust, err := readCustomer(c, false)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if !cust.hasKey {
		cust.CustomerID = id
	}

	updated, err := h.svc.ReplaceCustomer(c.Request().Context(), id, cust.Customer)
	if err != nil {
		return h.respondError(c, err, "Customer")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Customer updated successfully",
		"customer": schema.Customers.Project(updated),
	})
}

func (h *handlers) deleteByKey(c echo.Context) error {
	id, err := h.customerKey(c)
	if err != nil {
		return err
	}
	metrics.RequestsTotal.WithLabelValues(schema.CustomersSet, "delete").Inc()

	if err := h.svc.DeleteCustomer(c.Request().Context(), id); err != nil {
		return h.respondError(c, err, "Customer")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

// keyFromPath resolves the ":key" segment into an entity set and id. Errors
// are *echo.HTTPError values for the handler to return as is.
func (h *handlers) keyFromPath(c echo.Context) (string, int64, error) {
	set, id, ok, err := parseKeySegment(c.Param("key"))
	if !ok || (set != schema.CustomersSet && set != schema.OrdersSet) {
		return "", 0, echo.ErrNotFound
	}
	if err != nil {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return set, id, nil
}

// customerKey is keyFromPath for the write routes, which exist for Customers only.
func (h *handlers) customerKey(c echo.Context) (int64, error) {
	set, id, err := h.keyFromPath(c)
	if err != nil {
		return 0, err
	}
	if set != schema.CustomersSet {
		return 0, echo.ErrMethodNotAllowed
	}
	return id, nil
}

type customerBody struct {
	model.Customer
	hasKey bool
}

// readCustomer decodes a full Customer. Presence of every property is checked
// on the raw JSON first so that a missing field is not mistaken for its zero
// value. CustomerID may be omitted when requireKey is false.
func readCustomer(c echo.Context, requireKey bool) (customerBody, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return customerBody{}, fmt.Errorf("read body: %w", err)
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return customerBody{}, fmt.Errorf("body must be a JSON object")
	}

	var missing []string
	for _, f := range schema.Customers.Fields() {
		if f.Name == schema.Customers.Key() && !requireKey {
			continue
		}
		if !gjson.GetBytes(raw, f.Name).Exists() {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return customerBody{}, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	var out customerBody
	if err := json.Unmarshal(raw, &out.Customer); err != nil {
		return customerBody{}, fmt.Errorf("invalid customer: %w", err)
	}
	if st, ok := model.ParseCustomerStatus(out.Status.String()); ok {
		out.Status = st
	}
	out.hasKey = gjson.GetBytes(raw, schema.Customers.Key()).Exists()
	return out, nil
}
