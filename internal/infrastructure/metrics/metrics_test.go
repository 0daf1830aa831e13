package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/api/quotes/:id", 200, 15*time.Millisecond)
	c.RecordRequest("GET", "/api/quotes/:id", 200, 5*time.Millisecond)
	c.RecordRequest("GET", "/api/quotes/:id", 404, time.Millisecond)
	c.RecordAccessDenied("module_disabled")
	c.RecordLogin(LoginSuccess)
	c.RecordLogin(LoginInvalidCredentials)
	c.RecordLogin(LoginInvalidCredentials)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/quotes/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/quotes/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.accessDenied.WithLabelValues("module_disabled")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.logins.WithLabelValues(LoginInvalidCredentials)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.latency))
}

func TestHandler_Expone(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin(LoginSuccess)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `domka_login_attempts_total{outcome="success"} 1`)
}

func TestNewCollector_RegistroDuplicadoEntraEnPanico(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
