package main

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/page"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

var instantScript = []boot.Line{{Text: "Booting cosmicOS"}, {Text: "[ OK ] ready"}}

type testApp struct {
	router *gin.Engine
	store  *sessionStore
	cfg    *config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := openDB(":memory:")
	require.NoError(t, err)
	db = conn
	hashingSalt = "test-salt"
	adminToken = "test-token"
	t.Cleanup(func() {
		db = nil
		conn.Close()
	})

	interp := newInterpreter()
	factory := func(sink terminal.Sink, obs terminal.Observer) *terminal.Terminal {
		return terminal.New(interp,
			terminal.WithScript(instantScript),
			terminal.WithSink(sink),
			terminal.WithObserver(obs),
		)
	}
	cfg := &config.Config{Port: "8080", TerminalIdleTimeout: time.Minute}
	store := newSessionStore(factory, cfg.TerminalIdleTimeout)

	r := newRouter(cfg, store)
	r.LoadHTMLGlob("templates/*")
	return &testApp{router: r, store: store, cfg: cfg}
}

func (a *testApp) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("DNT", "1")
	a.router.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Station Renders")
	assert.Contains(t, body, "48k")
	assert.Contains(t, body, "1.5k")
	assert.Contains(t, body, "Tech Enthusiast.")
	assert.Contains(t, body, "years old")
}

func TestIndexData(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.Local)
	data := indexData(now, rand.New(rand.NewSource(1)))

	assert.Equal(t, 18, data["age"])
	assert.Equal(t, 2026, data["year"])
	stats := data["stats"].([]statView)
	require.Len(t, stats, 4)
	assert.Equal(t, "2k", stats[3].Value)
	assert.Equal(t, 2000, stats[3].Steps[len(stats[3].Steps)-1])
	assert.NotEmpty(t, data["taglineFrames"])
	assert.Len(t, data["arcs"].([]page.Arc), avatarArcs)
	assert.Equal(t, 30, avatarArcs)
}

func TestPreviousDesignPage(t *testing.T) {
	app := newTestApp(t)

	w := app.get(t, "/home.html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "previous design")
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.get(t, "/privacy")

	w := app.get(t, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
}

func TestVisitorTracking(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/home.html", nil)
	app.router.ServeHTTP(httptest.NewRecorder(), req)

	require.Eventually(t, func() bool {
		var n int
		db.QueryRow("SELECT COUNT(*) FROM visitors WHERE path = '/home.html'").Scan(&n)
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)

	// DNT and terminal traffic are not recorded.
	app.get(t, "/")
	app.get(t, "/terminal/snapshot")
	time.Sleep(50 * time.Millisecond)
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM visitors").Scan(&n))
	assert.Equal(t, 1, n)
}
