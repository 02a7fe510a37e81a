// Package terminal runs the portfolio's toy terminal: the boot sequence, the
// input loop and the window chrome around the shell interpreter.
package terminal

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

// Observer is told about every executed command line. It is called with the
// terminal locked.
type Observer interface {
	CommandExecuted(command string, res shell.Result)
}

// Terminal serializes every front-end call behind one lock.
type Terminal struct {
	mu       sync.Mutex
	interp   *shell.Interpreter
	script   []boot.Line
	rules    map[string]string
	sink     Sink
	observer Observer
	window   Window
	sess     *Session
	gen      uint64
	cancel   context.CancelFunc
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithScript replaces the boot sequence.
func WithScript(script []boot.Line) Option {
	return func(t *Terminal) { t.script = script }
}

// WithSink sets where render events go.
func WithSink(s Sink) Option {
	return func(t *Terminal) { t.sink = s }
}

// WithObserver sets the command observer.
func WithObserver(o Observer) Option {
	return func(t *Terminal) { t.observer = o }
}

// New builds a closed terminal.
func New(interp *shell.Interpreter, opts ...Option) *Terminal {
	t := &Terminal{
		interp: interp,
		script: boot.Script,
		rules:  boot.Keywords,
		sink:   discard{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open starts a fresh session and replays the boot sequence from the top.
// A boot still playing from an earlier open is cancelled first.
func (t *Terminal) Open() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.sess = newSession(t.gen)
	t.window.Open = true

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	t.emit(Event{Kind: EventReset})
	t.emit(Event{Kind: EventState, State: Booting.String()})
	go t.runBoot(ctx, t.gen)
}

// Close ends the session.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLocked()
}

// State reports the current state.
func (t *Terminal) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil {
		return Closed
	}
	return t.sess.state
}

// HandleKey feeds one key press to the input loop. It reports whether the key
// must be kept from the host page: always while booting or processing, and for
// every key the loop consumed.
func (t *Terminal) HandleKey(k Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.sess
	if s == nil {
		return false
	}
	if s.state != AwaitingInput {
		return true
	}

	switch k.Kind {
	case KeyRune:
		if !unicode.IsPrint(k.Rune) {
			return false
		}
		s.input = append(s.input, k.Rune)
		t.emit(Event{Kind: EventInput, Text: string(s.input)})
	case KeyBackspace:
		if len(s.input) > 0 {
			s.input = s.input[:len(s.input)-1]
			t.emit(Event{Kind: EventInput, Text: string(s.input)})
		}
	case KeyEnter:
		t.submitLocked()
	default:
		return false
	}
	return true
}

// Submit types line and presses Enter. It is a no-op unless the terminal is
// awaiting input.
func (t *Terminal) Submit(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sess == nil || t.sess.state != AwaitingInput {
		return
	}
	t.sess.input = []rune(line)
	t.submitLocked()
}

// BeginDrag, DragTo and EndDrag move the window.
func (t *Terminal) BeginDrag(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window.BeginDrag(x, y)
}

func (t *Terminal) DragTo(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.window.DragTo(x, y) {
		t.emit(Event{Kind: EventMove, X: t.window.X, Y: t.window.Y})
	}
}

func (t *Terminal) EndDrag() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.window.EndDrag()
}

// Window returns a copy of the window chrome.
func (t *Terminal) Window() Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window
}

// Snapshot copies the visible state.
func (t *Terminal) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		State: Closed.String(),
		Open:  t.window.Open,
		X:     t.window.X,
		Y:     t.window.Y,
	}
	s := t.sess
	if s == nil {
		return snap
	}
	snap.State = s.state.String()
	snap.Lines = append([]Line(nil), s.lines...)
	snap.Partial = s.partial
	snap.Cwd = vfs.Join(s.shell.Path)
	if s.state == AwaitingInput {
		snap.Prompt = s.prompt()
		snap.Input = string(s.input)
	}
	return snap
}

func (t *Terminal) submitLocked() {
	s := t.sess
	s.state = Processing
	t.emit(Event{Kind: EventState, State: Processing.String()})

	typed := string(s.input)
	s.input = nil
	frozen := s.prompt() + typed
	s.lines = append(s.lines, Line{Spans: boot.Plain(frozen)})
	t.emit(Event{Kind: EventFreeze, Text: frozen})

	line := strings.TrimSpace(typed)
	res := t.interp.Execute(s.shell, line)
	if t.observer != nil && line != "" {
		t.observer.CommandExecuted(strings.ToLower(strings.Fields(line)[0]), res)
	}

	if res.Clear {
		s.lines = nil
		t.emit(Event{Kind: EventClear})
		t.promptLocked()
		return
	}
	for _, out := range res.Output() {
		l := Line{Spans: boot.Plain(out)}
		s.lines = append(s.lines, l)
		t.emit(Event{Kind: EventLine, Spans: l.Spans, Text: out})
	}
	if res.Image != nil {
		s.lines = append(s.lines, Line{Image: res.Image.URL})
		t.emit(Event{Kind: EventImage, URL: res.Image.URL, Text: res.Image.Name})
	}
	if res.Navigate != "" {
		t.emit(Event{Kind: EventNavigate, URL: res.Navigate})
		t.closeLocked()
		return
	}
	if res.Exit {
		t.closeLocked()
		return
	}
	t.promptLocked()
}

func (t *Terminal) promptLocked() {
	t.sess.state = AwaitingInput
	t.emit(Event{Kind: EventState, State: AwaitingInput.String()})
	t.emit(Event{Kind: EventPrompt, Text: t.sess.prompt()})
}

func (t *Terminal) closeLocked() {
	t.stopLocked()
	t.sess = nil
	t.window.Open = false
	t.window.EndDrag()
	t.emit(Event{Kind: EventState, State: Closed.String()})
	t.emit(Event{Kind: EventClose})
}

// stopLocked invalidates any boot chain in flight.
func (t *Terminal) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
}

func (t *Terminal) current(gen uint64) bool {
	return t.sess != nil && t.sess.gen == gen
}

func (t *Terminal) emit(e Event) { t.sink.Emit(e) }

func (t *Terminal) runBoot(ctx context.Context, gen uint64) {
	if err := boot.Play(ctx, t.script, t.rules, bootWriter{t: t, gen: gen}); err != nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.current(gen) || t.sess.state != Booting {
		return
	}
	t.promptLocked()
}

type bootWriter struct {
	t   *Terminal
	gen uint64
}

func (w bootWriter) Reveal(_ int, partial string) {
	w.t.mu.Lock()
	defer w.t.mu.Unlock()
	if !w.t.current(w.gen) {
		return
	}
	w.t.sess.partial = partial
	w.t.emit(Event{Kind: EventReveal, Text: partial})
}

func (w bootWriter) Complete(_ int, spans []boot.Span) {
	w.t.mu.Lock()
	defer w.t.mu.Unlock()
	if !w.t.current(w.gen) {
		return
	}
	s := w.t.sess
	s.partial = ""
	s.lines = append(s.lines, Line{Spans: spans})
	w.t.emit(Event{Kind: EventLine, Spans: spans, Text: boot.Text(spans)})
}
