package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the storefront's Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	OrdersCreated    prometheus.Counter
	OrdersRejected   *prometheus.CounterVec
	OrderValue       prometheus.Counter
	OrderCreateSec   prometheus.Histogram
	AdminLogins      prometheus.Counter
	AdminLoginDenied prometheus.Counter
}

// NewRegistry builds and registers all collectors.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_orders_created_total",
		Help: "Orders placed successfully.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_orders_rejected_total",
		Help: "Orders rejected, labeled by reason.",
	}, []string{"reason"})
	value := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_order_value_total",
		Help: "Cumulative value of placed orders in rupees.",
	})
	createSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "store_order_create_duration_seconds",
		Help:    "Order creation latency.",
		Buckets: prometheus.DefBuckets,
	})
	logins := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_admin_logins_total",
		Help: "Successful admin logins.",
	})
	denied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "store_admin_logins_denied_total",
		Help: "Admin logins rejected for a bad code.",
	})

	r.MustRegister(created, rejected, value, createSec, logins, denied)
	return &Registry{
		reg:              r,
		OrdersCreated:    created,
		OrdersRejected:   rejected,
		OrderValue:       value,
		OrderCreateSec:   createSec,
		AdminLogins:      logins,
		AdminLoginDenied: denied,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
