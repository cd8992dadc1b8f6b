package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odata_requests_total",
			Help: "OData operations served, by entity set and operation",
		},
		[]string{"entity_set", "op"}, // Customers|Orders , list|get|create|replace|delete
	)

	FilterIgnoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odata_filter_ignored_total",
			Help: "$filter expressions that could not be read and were passed through",
		},
		[]string{"entity_set"},
	)

	StoreMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odata_store_mutations_total",
			Help: "Record store mutations by outcome",
		},
		[]string{"entity_set", "op", "result"}, // ok|not_found|duplicate
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odata_events_total",
			Help: "Change events by publish outcome",
		},
		[]string{"result"}, // published|failed|dropped
	)

	AuditRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odata_audit_rows_total",
			Help: "Change events flushed to the audit sink",
		},
		[]string{"result"}, // written|failed|poison
	)
)

var registerOnce sync.Once

// MustRegister registers every collector once; later calls are no-ops so the
// HTTP server can be rebuilt in tests.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			RequestsTotal,
			FilterIgnoredTotal,
			StoreMutationsTotal,
			EventsTotal,
			AuditRowsTotal,
		)
	})
}
