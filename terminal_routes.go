package main

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cosmic-portfolio/internal/logging"
	"github.com/Zachkp/cosmic-portfolio/internal/metrics"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

const (
	maxPendingKeys    = 64
	sessionCookie     = "term_session"
	subscriberBuffer  = 256
	frontendWeb       = "web"
	frontendSSH       = "ssh"
	sessionCookieLife = 3600 * 24
)

// eventHub fans terminal events out to SSE subscribers. Emit never blocks:
// a subscriber whose buffer is full misses the event and must resync from
// the snapshot endpoint.
type eventHub struct {
	mu   sync.RWMutex
	subs map[chan terminal.Event]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[chan terminal.Event]struct{})}
}

func (h *eventHub) Emit(e terminal.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			metrics.SSEEventDropped()
		}
	}
}

func (h *eventHub) Subscribe() chan terminal.Event {
	ch := make(chan terminal.Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *eventHub) Unsubscribe(ch chan terminal.Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// closeAll ends every subscription.
func (h *eventHub) closeAll() {
	h.mu.Lock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

type webSession struct {
	term *terminal.Terminal
	hub  *eventHub

	mu       sync.Mutex
	lastSeen time.Time

	// Keys carry a per-open sequence number so requests that overtake each
	// other on parallel connections still reach the terminal in typing order.
	keysMu  sync.Mutex
	nextSeq uint64
	pending map[uint64]terminal.Key
}

// open starts a fresh terminal session and restarts key numbering at 1.
func (s *webSession) open() {
	s.keysMu.Lock()
	s.nextSeq = 1
	s.pending = make(map[uint64]terminal.Key)
	s.keysMu.Unlock()
	s.term.Open()
}

// key delivers k in sequence order and reports whether the browser should
// suppress it. Seq 0 skips ordering; a seq already delivered is dropped.
func (s *webSession) key(seq uint64, k terminal.Key) bool {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()

	if seq == 0 {
		return s.term.HandleKey(k)
	}
	if seq < s.nextSeq {
		return true
	}
	if s.pending == nil {
		s.pending = make(map[uint64]terminal.Key)
	}
	s.pending[seq] = k

	// A gap that never fills (a lost request) must not wedge the input.
	if len(s.pending) > maxPendingKeys {
		lowest := seq
		for n := range s.pending {
			lowest = min(lowest, n)
		}
		s.nextSeq = lowest
	}

	suppress := true
	for {
		next, ok := s.pending[s.nextSeq]
		if !ok {
			break
		}
		delete(s.pending, s.nextSeq)
		consumed := s.term.HandleKey(next)
		if s.nextSeq == seq {
			suppress = consumed
		}
		s.nextSeq++
	}
	return suppress
}

func (s *webSession) touch(t time.Time) {
	s.mu.Lock()
	s.lastSeen = t
	s.mu.Unlock()
}

func (s *webSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// terminalFactory builds a terminal for one visitor.
type terminalFactory func(sink terminal.Sink, obs terminal.Observer) *terminal.Terminal

// sessionStore maps the session cookie to a browser's terminal.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*webSession
	factory  terminalFactory
	idle     time.Duration
	now      func() time.Time
}

func newSessionStore(factory terminalFactory, idle time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*webSession),
		factory:  factory,
		idle:     idle,
		now:      time.Now,
	}
}

// session returns the caller's session, creating it (and the cookie) when
// create is set.
func (s *sessionStore) session(c *gin.Context, create bool) *webSession {
	id, err := c.Cookie(sessionCookie)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		if sess, ok := s.sessions[id]; ok {
			sess.touch(s.now())
			return sess
		}
	}
	if !create {
		return nil
	}

	id = generateToken()
	hub := newEventHub()
	sess := &webSession{hub: hub, lastSeen: s.now()}
	sess.term = s.factory(hub, &commandRecorder{db: db, hashedIP: hashIP(c.ClientIP()), frontend: frontendWeb})
	s.sessions[id] = sess
	metrics.SetTerminalSessions(frontendWeb, len(s.sessions))

	c.SetCookie(sessionCookie, id, sessionCookieLife, "/terminal", "", false, true)
	return sess
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep closes and forgets sessions idle for longer than the timeout.
func (s *sessionStore) sweep() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	var stale []*webSession
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	metrics.SetTerminalSessions(frontendWeb, len(s.sessions))
	s.mu.Unlock()

	for _, sess := range stale {
		sess.term.Close()
		sess.hub.closeAll()
	}
	return len(stale)
}

func (s *sessionStore) runSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logging.Debug("swept idle terminal sessions", zap.Int("count", n))
			}
		}
	}
}

// commandRecorder feeds executed commands into metrics and the analytics table.
type commandRecorder struct {
	db       *sql.DB
	hashedIP string
	frontend string
}

func (r *commandRecorder) CommandExecuted(command string, res shell.Result) {
	outcome := res.Outcome()
	metrics.RecordCommand(command, outcome)
	go recordTerminalCommand(r.db, r.hashedIP, r.frontend, command, outcome)
}

func recordTerminalCommand(conn *sql.DB, hashedIP, frontend, command, outcome string) {
	if conn == nil {
		return
	}
	_, err := conn.Exec(`
		INSERT INTO terminal_commands (hashed_ip, frontend, command, outcome, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, hashedIP, frontend, command, outcome, nowStamp())
	if err != nil {
		logging.Warn("failed to record terminal command", zap.Error(err), zap.String("command", command))
	}
}

type keyRequest struct {
	Key string `json:"key" binding:"required"`
	Seq uint64 `json:"seq"`
}

type pasteRequest struct {
	Line string `json:"line"`
}

type dragRequest struct {
	Phase string `json:"phase" binding:"required,oneof=start move end"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

func setupTerminalRoutes(r *gin.Engine, store *sessionStore) {
	g := r.Group("/terminal")

	g.POST("/open", func(c *gin.Context) {
		sess := store.session(c, true)
		sess.open()
		metrics.TerminalOpened(frontendWeb)
		c.JSON(http.StatusOK, gin.H{"state": sess.term.State().String()})
	})

	g.POST("/close", func(c *gin.Context) {
		if sess := store.session(c, false); sess != nil {
			sess.term.Close()
		}
		c.JSON(http.StatusOK, gin.H{"state": terminal.Closed.String()})
	})

	g.POST("/key", func(c *gin.Context) {
		var req keyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess := store.session(c, false)
		if sess == nil {
			c.JSON(http.StatusOK, gin.H{"suppress": false})
			return
		}
		suppress := sess.key(req.Seq, terminal.ParseKey(req.Key))
		c.JSON(http.StatusOK, gin.H{"suppress": suppress})
	})

	// Paste submits each pasted line in turn; lines are ignored unless the
	// terminal is awaiting input.
	g.POST("/paste", func(c *gin.Context) {
		var req pasteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess := store.session(c, false)
		if sess == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no terminal session"})
			return
		}
		for _, line := range strings.Split(strings.TrimRight(req.Line, "\r\n"), "\n") {
			sess.term.Submit(strings.TrimRight(line, "\r"))
		}
		c.JSON(http.StatusOK, gin.H{"state": sess.term.State().String()})
	})

	g.POST("/drag", func(c *gin.Context) {
		var req dragRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess := store.session(c, false)
		if sess == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no terminal session"})
			return
		}
		switch req.Phase {
		case "start":
			sess.term.BeginDrag(req.X, req.Y)
		case "move":
			sess.term.DragTo(req.X, req.Y)
		case "end":
			sess.term.EndDrag()
		}
		w := sess.term.Window()
		c.JSON(http.StatusOK, gin.H{"x": w.X, "y": w.Y})
	})

	g.GET("/snapshot", func(c *gin.Context) {
		sess := store.session(c, false)
		if sess == nil {
			c.JSON(http.StatusOK, terminal.Snapshot{State: terminal.Closed.String(), Lines: []terminal.Line{}})
			return
		}
		c.JSON(http.StatusOK, sess.term.Snapshot())
	})

	g.GET("/stream", func(c *gin.Context) {
		sess := store.session(c, true)
		ch := sess.hub.Subscribe()
		defer sess.hub.Unsubscribe(ch)

		metrics.SSEConnected(1)
		defer metrics.SSEConnected(-1)

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		c.SSEvent("snapshot", sess.term.Snapshot())
		c.Writer.Flush()

		ctx := c.Request.Context()
		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case e, ok := <-ch:
				if !ok {
					return false
				}
				sess.touch(store.now())
				c.SSEvent(string(e.Kind), e)
				return true
			}
		})
	})
}
