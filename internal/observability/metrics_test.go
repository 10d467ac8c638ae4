package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMetrics_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMetrics())
	router.GET("/posts/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/posts/:id", "GET", "418"))

	for _, path := range []string{"/posts/1", "/posts/2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	}

	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("/posts/:id", "GET", "418"))
	assert.Equal(t, float64(2), after-before)
}
