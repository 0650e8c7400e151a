package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/devcamper/devcamper/backend/go-services/pkg/metrics"
)

func TestMetricsCountsByRoute(t *testing.T) {
	counter := metrics.HTTPRequests.WithLabelValues("GET", "/items/:id", "200")
	before := testutil.ToFloat64(counter)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(200) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/2", nil))

	require.Equal(t, before+2, testutil.ToFloat64(counter))
}
