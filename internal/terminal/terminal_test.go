package terminal

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/shell"
	"github.com/Zachkp/cosmic-portfolio/internal/vfs"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recordingSink) count(kind EventKind) int {
	n := 0
	for _, e := range r.all() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type recordingObserver struct {
	commands []string
	outcomes []string
}

func (o *recordingObserver) CommandExecuted(cmd string, res shell.Result) {
	o.commands = append(o.commands, cmd)
	o.outcomes = append(o.outcomes, res.Outcome())
}

var instant = boot.Scale(boot.Script, 0)

func newTestTerminal(t *testing.T, script []boot.Line, opts ...Option) (*Terminal, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	opts = append([]Option{WithScript(script), WithSink(sink)}, opts...)
	term := New(shell.New(vfs.Portfolio()), opts...)
	t.Cleanup(term.Close)
	return term, sink
}

func waitReady(t *testing.T, term *Terminal) {
	t.Helper()
	require.Eventually(t, func() bool { return term.State() == AwaitingInput },
		2*time.Second, time.Millisecond)
}

func typeLine(term *Terminal, line string) {
	for _, r := range line {
		term.HandleKey(RuneKey(r))
	}
	term.HandleKey(Key{Kind: KeyEnter})
}

func lastLines(snap Snapshot, n int) []string {
	var out []string
	for _, l := range snap.Lines[len(snap.Lines)-n:] {
		out = append(out, l.Text())
	}
	return out
}

func TestBootThenPrompt(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	assert.Equal(t, Closed, term.State())

	term.Open()
	waitReady(t, term)

	snap := term.Snapshot()
	require.Len(t, snap.Lines, len(boot.Script))
	for i, l := range snap.Lines {
		assert.Equal(t, boot.Script[i].Text, l.Text())
	}
	assert.Equal(t, "cosmic@portfolio:~/portfolio$ ", snap.Prompt)
	assert.Equal(t, 1, sink.count(EventPrompt))
}

func TestBootLinesAreHighlightedOnce(t *testing.T) {
	term, _ := newTestTerminal(t, []boot.Line{{Text: "[ OK ] OK"}})
	term.Open()
	waitReady(t, term)

	spans := term.Snapshot().Lines[0].Spans
	assert.Equal(t, []boot.Span{
		{Text: "[ "}, {Text: "OK", Color: "green"}, {Text: " ] "}, {Text: "OK", Color: "green"},
	}, spans)
}

func TestKeysIgnoredWhileBooting(t *testing.T) {
	slow := []boot.Line{{Text: "booting", CharDelay: time.Hour}}
	term, sink := newTestTerminal(t, slow)
	term.Open()
	before := len(sink.all())

	assert.True(t, term.HandleKey(RuneKey('x')))
	assert.True(t, term.HandleKey(Key{Kind: KeyEnter}))
	assert.True(t, term.HandleKey(Key{Kind: KeyOther}))

	assert.Equal(t, Booting, term.State())
	assert.Empty(t, term.Snapshot().Input)
	assert.Len(t, sink.all(), before)
}

func TestKeysWhileClosed(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	assert.False(t, term.HandleKey(RuneKey('x')))
	assert.Empty(t, sink.all())
}

func TestInputEditing(t *testing.T) {
	term, _ := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)

	assert.True(t, term.HandleKey(Key{Kind: KeyBackspace}))
	for _, r := range "pwdd" {
		term.HandleKey(RuneKey(r))
	}
	term.HandleKey(Key{Kind: KeyBackspace})
	assert.Equal(t, "pwd", term.Snapshot().Input)

	assert.False(t, term.HandleKey(Key{Kind: KeyOther}))
	assert.False(t, term.HandleKey(RuneKey('\x07')))
	assert.Equal(t, "pwd", term.Snapshot().Input)

	term.HandleKey(Key{Kind: KeyEnter})
	snap := term.Snapshot()
	assert.Equal(t, AwaitingInput.String(), snap.State)
	assert.Empty(t, snap.Input)
	assert.Equal(t, []string{"cosmic@portfolio:~/portfolio$ pwd", "/home/cosmic/portfolio"}, lastLines(snap, 2))
}

func TestWhitespaceLineOnlyFreezesPrompt(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)
	n := len(term.Snapshot().Lines)

	typeLine(term, "   ")

	snap := term.Snapshot()
	assert.Len(t, snap.Lines, n+1)
	assert.Equal(t, AwaitingInput.String(), snap.State)
	assert.Equal(t, 2, sink.count(EventPrompt))
}

func TestClearEmptiesOutput(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)

	typeLine(term, "clear")

	snap := term.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Equal(t, AwaitingInput.String(), snap.State)
	assert.Equal(t, 1, sink.count(EventClear))
}

func TestCheckoutNavigatesOnce(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)

	typeLine(term, "git checkout a3f9c22")

	var navs []Event
	var lines []string
	for _, e := range sink.all() {
		switch e.Kind {
		case EventNavigate:
			navs = append(navs, e)
		case EventLine:
			lines = append(lines, e.Text)
		}
	}
	require.Len(t, navs, 1)
	assert.Equal(t, "home.html", navs[0].URL)
	assert.Contains(t, lines, "HEAD is now at a3f9c22 Previous portfolio design")
	assert.Equal(t, Closed, term.State())
	assert.False(t, term.HandleKey(RuneKey('x')))
}

func TestCheckoutUnknownRefStays(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)

	typeLine(term, "git checkout deadbeef")

	assert.Zero(t, sink.count(EventNavigate))
	assert.Equal(t, AwaitingInput, term.State())
	assert.Equal(t, []string{"error: pathspec 'deadbeef' did not match any file(s) known to git"},
		lastLines(term.Snapshot(), 1))
}

func TestXdgOpenEmitsImage(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)

	typeLine(term, "cd photos")
	typeLine(term, "xdg-open avatar.png")

	require.Equal(t, 1, sink.count(EventImage))
	snap := term.Snapshot()
	assert.Equal(t, "/images/avatar.png", snap.Lines[len(snap.Lines)-1].Image)
	assert.Equal(t, "cosmic@portfolio:~/portfolio/photos$ ", snap.Prompt)
}

func TestExitCloses(t *testing.T) {
	term, sink := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)

	typeLine(term, "exit")

	assert.Equal(t, Closed, term.State())
	assert.False(t, term.Window().Open)
	assert.Equal(t, 1, sink.count(EventClose))
}

func TestReopenReplaysFromStart(t *testing.T) {
	term, _ := newTestTerminal(t, instant)
	term.Open()
	waitReady(t, term)
	typeLine(term, "cd projects")
	term.HandleKey(RuneKey('l'))

	term.Open()
	waitReady(t, term)

	snap := term.Snapshot()
	assert.Empty(t, snap.Input)
	assert.Equal(t, "/home/cosmic/portfolio", snap.Cwd)
	require.Len(t, snap.Lines, len(boot.Script))
	assert.Equal(t, boot.Script[0].Text, snap.Lines[0].Text())
}

func TestReopenCancelsStaleBoot(t *testing.T) {
	script := []boot.Line{{Text: strings.Repeat("x", 40), CharDelay: time.Millisecond}}
	term, sink := newTestTerminal(t, script)

	term.Open()
	time.Sleep(5 * time.Millisecond)
	term.Open()
	waitReady(t, term)

	events := sink.all()
	last := 0
	for i, e := range events {
		if e.Kind == EventReset {
			last = i
		}
	}
	var reveals []string
	for _, e := range events[last:] {
		if e.Kind == EventReveal {
			reveals = append(reveals, e.Text)
		}
	}
	require.Len(t, reveals, 40)
	for i, r := range reveals {
		assert.Equal(t, strings.Repeat("x", i+1), r)
	}
	assert.Len(t, term.Snapshot().Lines, 1)
}

func TestCloseDuringBoot(t *testing.T) {
	slow := []boot.Line{{Text: "abc", CharDelay: 20 * time.Millisecond}}
	term, sink := newTestTerminal(t, slow)
	term.Open()
	term.Close()
	n := len(sink.all())

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, sink.all(), n)
	assert.Equal(t, Closed, term.State())
}

func TestObserverSeesCommands(t *testing.T) {
	obs := &recordingObserver{}
	term, _ := newTestTerminal(t, instant, WithObserver(obs))
	term.Open()
	waitReady(t, term)

	typeLine(term, "LS")
	typeLine(term, "")
	typeLine(term, "cat nope")

	assert.Equal(t, []string{"ls", "cat"}, obs.commands)
	assert.Equal(t, []string{"ok", "no_such_file"}, obs.outcomes)
}

func TestSubmit(t *testing.T) {
	term, _ := newTestTerminal(t, instant)
	term.Submit("pwd")
	assert.Equal(t, Closed, term.State())

	term.Open()
	waitReady(t, term)
	term.Submit("whoami")
	assert.Equal(t, []string{"cosmic"}, lastLines(term.Snapshot(), 1))
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "cosmic@portfolio:~/portfolio$ ", Prompt(vfs.HomePath))
	assert.Equal(t, "cosmic@portfolio:~$ ", Prompt([]string{"home", "cosmic"}))
	assert.Equal(t, "cosmic@portfolio:/home$ ", Prompt([]string{"home"}))
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"a", RuneKey('a')},
		{" ", RuneKey(' ')},
		{"é", RuneKey('é')},
		{"Enter", Key{Kind: KeyEnter}},
		{"Backspace", Key{Kind: KeyBackspace}},
		{"ArrowUp", Key{}},
		{"Shift", Key{}},
		{"", Key{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKey(tt.name))
		})
	}
}

func TestWindowDrag(t *testing.T) {
	term, sink := newTestTerminal(t, instant)

	term.DragTo(50, 50)
	assert.Zero(t, term.Window().X)

	term.BeginDrag(10, 5)
	term.DragTo(30, 25)
	assert.Equal(t, 20, term.Window().X)
	assert.Equal(t, 20, term.Window().Y)

	term.DragTo(0, 0)
	assert.Zero(t, term.Window().X)
	assert.Zero(t, term.Window().Y)

	term.EndDrag()
	term.DragTo(100, 100)
	assert.Zero(t, term.Window().X)
	assert.Equal(t, 2, sink.count(EventMove))
}
