package main

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/logging"
	"github.com/Zachkp/cosmic-portfolio/internal/metrics"
	"github.com/Zachkp/cosmic-portfolio/internal/page"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/sshterm"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

// avatarArcs is the number of decorative orbits drawn around the avatar.
const avatarArcs = 30

type frameView struct {
	Text string `json:"text"`
	Ms   int64  `json:"ms"`
}

type statView struct {
	Label string
	Value string
	Steps []int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		panic(err)
	}
	defer logging.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err = openDB(cfg.DatabasePath)
	if err != nil {
		logging.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	initAdminToken()
	go cleanupOldVisitorData()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interp := newInterpreter()
	script := boot.Scale(boot.Script, cfg.BootSpeed)
	factory := func(sink terminal.Sink, obs terminal.Observer) *terminal.Terminal {
		return terminal.New(interp,
			terminal.WithScript(script),
			terminal.WithSink(sink),
			terminal.WithObserver(obs),
		)
	}

	store := newSessionStore(factory, cfg.TerminalIdleTimeout)
	go store.runSweeper(ctx, time.Minute)

	if cfg.SSHAddr != "" {
		go serveSSH(ctx, cfg, interp, factory)
	}

	r := newRouter(cfg, store)
	r.LoadHTMLGlob("templates/*")
	r.Static("/images", "./images")
	r.Static("/static", "./static")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logging.Info("server starting", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("server failed", zap.Error(err))
	}
}

// newInterpreter builds the shared command interpreter and labels its
// commands in metrics.
func newInterpreter() *shell.Interpreter {
	interp := shell.New(vfs.Portfolio())
	metrics.RegisterCommands(interp.Names())
	return interp
}

// newRouter wires every route except templates and static files.
func newRouter(cfg *config.Config, store *sessionStore) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(), metrics.Middleware(), visitorTrackingMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", indexData(time.Now(), rand.New(rand.NewSource(time.Now().UnixNano()))))
	})

	// Previous design, reached through `git checkout a3f9c22`.
	r.GET("/"+shell.NavigateTarget, func(c *gin.Context) {
		c.HTML(http.StatusOK, "home.html", gin.H{
			"title":    "cosmic (previous design)",
			"about":    content.About,
			"projects": content.Projects,
		})
	})

	r.GET("/metrics", metrics.Handler())

	setupTerminalRoutes(r, store)
	setupAdminRoutes(r, cfg, store)
	return r
}

func indexData(now time.Time, rng *rand.Rand) gin.H {
	stats := make([]statView, 0, len(content.Stats))
	for _, s := range content.Stats {
		stats = append(stats, statView{
			Label: s.Label,
			Value: page.FormatCount(s.Target),
			Steps: page.CountSteps(s.Target),
		})
	}
	var frames []frameView
	for _, f := range page.NewTypewriter(content.Taglines).Cycle() {
		frames = append(frames, frameView{Text: f.Text, Ms: f.After.Milliseconds()})
	}
	return gin.H{
		"taglineFrames":  frames,
		"aboutMeContent": content.About,
		"skills":         content.Skills,
		"projects":       content.Projects,
		"stats":          stats,
		"age":            page.Age(content.BirthDate, now),
		"arcs":           page.Arcs(rng, avatarArcs),
		"wiggle":         page.WigglePath(rng, page.DefaultWiggle),
		"taglines":       content.Taglines,
		"year":           now.Year(),
	}
}

func serveSSH(ctx context.Context, cfg *config.Config, interp *shell.Interpreter, factory terminalFactory) {
	key, err := sshterm.LoadOrGenerateHostKey(cfg.SSHHostKey)
	if err != nil {
		logging.Error("ssh host key unavailable, ssh disabled", zap.Error(err))
		return
	}
	ln, err := net.Listen("tcp", cfg.SSHAddr)
	if err != nil {
		logging.Error("ssh listen failed", zap.String("addr", cfg.SSHAddr), zap.Error(err))
		return
	}

	var (
		mu       sync.Mutex
		sessions int
	)
	recorder := &commandRecorder{db: db, hashedIP: "ssh", frontend: frontendSSH}
	srv := sshterm.New(sshterm.Config{
		NewTerminal: func(sink terminal.Sink) *terminal.Terminal {
			metrics.TerminalOpened(frontendSSH)
			return factory(sink, recorder)
		},
		Exec: func(line string) shell.Result {
			res := interp.Execute(shell.NewState(), line)
			if fields := strings.Fields(line); len(fields) > 0 {
				recorder.CommandExecuted(strings.ToLower(fields[0]), res)
			}
			return res
		},
		HostKey:  key,
		MaxConns: cfg.SSHMaxConns,
		BaseURL:  "http://localhost:" + cfg.Port,
		OnSession: func(delta int) {
			mu.Lock()
			sessions += delta
			metrics.SetTerminalSessions(frontendSSH, sessions)
			mu.Unlock()
		},
	})

	logging.Info("ssh terminal listening", zap.String("addr", cfg.SSHAddr))
	if err := srv.Serve(ctx, ln); err != nil {
		logging.Error("ssh server stopped", zap.Error(err))
	}
}
