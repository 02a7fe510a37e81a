package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommandBoundsLabels(t *testing.T) {
	RegisterCommands([]string{"git", "ls"})
	t.Cleanup(func() { RegisterCommands(nil) })

	before := testutil.ToFloat64(terminalCommandsTotal.WithLabelValues("other", "command_not_found"))
	RecordCommand("sudo", "command_not_found")
	RecordCommand("rm", "command_not_found")
	after := testutil.ToFloat64(terminalCommandsTotal.WithLabelValues("other", "command_not_found"))
	assert.Equal(t, before+2, after)

	before = testutil.ToFloat64(terminalCommandsTotal.WithLabelValues("git", "navigate"))
	RecordCommand("git", "navigate")
	assert.Equal(t, before+1, testutil.ToFloat64(terminalCommandsTotal.WithLabelValues("git", "navigate")))
}

func TestMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", Handler())

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "204")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
}

func TestRegisterCommandsFollowsRegistry(t *testing.T) {
	t.Cleanup(func() { RegisterCommands(nil) })

	counter := terminalCommandsTotal.WithLabelValues("weather", "ok")
	before := testutil.ToFloat64(counter)
	RecordCommand("weather", "ok")
	assert.Equal(t, before, testutil.ToFloat64(counter), "unregistered names fold into other")

	RegisterCommands([]string{"weather"})
	RecordCommand("weather", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
