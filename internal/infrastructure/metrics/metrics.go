// Package metrics expone métricas Prometheus del API: peticiones HTTP,
// accesos denegados y resultados de login.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de login.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginDisabled           = "disabled"
	LoginError              = "error"
)

// Collector implementación Prometheus.
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	accessDenied *prometheus.CounterVec
	logins       *prometheus.CounterVec
}

// NewCollector registra las métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domka_http_requests_total",
			Help: "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domka_http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP (segundos)",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domka_access_denied_total",
			Help: "Peticiones rechazadas por autenticación o autorización, por motivo",
		}, []string{"reason"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domka_login_attempts_total",
			Help: "Intentos de login por resultado",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.requests, c.latency, c.accessDenied, c.logins)
	return c
}

// RecordRequest cuenta una petición terminada. route es el patrón (/api/quotes/:id),
// nunca la ruta concreta.
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(d.Seconds())
}

// RecordAccessDenied cuenta un 401/403/429.
func (c *Collector) RecordAccessDenied(reason string) {
	c.accessDenied.WithLabelValues(reason).Inc()
}

// RecordLogin cuenta un intento de login.
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// Handler handler de scrape para /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
