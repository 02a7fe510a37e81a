// Package tui draws the portfolio terminal as a draggable window in a tcell
// screen.
package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

// Window size in cells, border included.
const (
	WindowWidth  = 72
	WindowHeight = 20
)

const title = " cosmic@portfolio: terminal "

// View owns the screen and forwards input to a terminal.
type View struct {
	screen tcell.Screen
	term   *terminal.Terminal

	mu        sync.Mutex
	navigated string
}

// New builds a view. Attach it to the terminal with terminal.WithSink(view)
// through Bind, since the terminal and view refer to each other.
func New(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// Bind sets the terminal the view drives.
func (v *View) Bind(t *terminal.Terminal) { v.term = t }

// Emit wakes the event loop for a redraw. It never blocks.
func (v *View) Emit(e terminal.Event) {
	if e.Kind == terminal.EventNavigate {
		v.mu.Lock()
		v.navigated = e.URL
		v.mu.Unlock()
	}
	v.screen.PostEvent(tcell.NewEventInterrupt(nil)) //nolint:errcheck
}

// Navigated returns the page a git checkout asked to leave for, if any.
func (v *View) Navigated() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.navigated
}

// Run processes screen events until the user quits or the screen finalizes.
func (v *View) Run() {
	v.Draw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if quit := v.HandleEvent(ev); quit {
			return
		}
		v.Draw()
	}
}

// HandleEvent applies one screen event and reports whether to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
	return false
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyF2:
		if v.term.State() == terminal.Closed {
			v.term.Open()
		} else {
			v.term.Close()
		}
	case tcell.KeyEnter:
		v.term.HandleKey(terminal.Key{Kind: terminal.KeyEnter})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.term.HandleKey(terminal.Key{Kind: terminal.KeyBackspace})
	case tcell.KeyRune:
		v.term.HandleKey(terminal.RuneKey(ev.Rune()))
	default:
		v.term.HandleKey(terminal.Key{Kind: terminal.KeyOther})
	}
	return false
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	w := v.term.Window()
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && w.Dragging():
		v.term.DragTo(x, y)
	case pressed && w.Open && y == w.Y && x >= w.X && x < w.X+WindowWidth:
		v.term.BeginDrag(x, y)
	case !pressed && w.Dragging():
		v.term.EndDrag()
	}
}

// Draw renders the current snapshot.
func (v *View) Draw() {
	s := v.screen
	s.Clear()
	snap := v.term.Snapshot()

	if !snap.Open {
		msg := "terminal closed: F2 opens it, Esc quits"
		if nav := v.Navigated(); nav != "" {
			msg = "left for " + nav + ": F2 reopens the terminal, Esc quits"
		}
		drawText(s, 1, 1, msg, tcell.StyleDefault)
		s.Show()
		return
	}

	x0, y0 := snap.X, snap.Y
	drawBox(s, x0, y0, WindowWidth, WindowHeight)
	drawText(s, x0+2, y0, title, tcell.StyleDefault.Reverse(true))

	rows := contentRows(snap)
	inner := WindowHeight - 2
	if len(rows) > inner {
		rows = rows[len(rows)-inner:]
	}
	for i, row := range rows {
		drawSpans(s, x0+1, y0+1+i, WindowWidth-2, row)
	}
	s.Show()
}

func contentRows(snap terminal.Snapshot) [][]boot.Span {
	rows := make([][]boot.Span, 0, len(snap.Lines)+1)
	for _, l := range snap.Lines {
		if l.Image != "" {
			rows = append(rows, []boot.Span{{Text: "[image] " + l.Image, Color: "blue"}})
			continue
		}
		rows = append(rows, l.Spans)
	}
	switch {
	case snap.Partial != "":
		rows = append(rows, boot.Plain(snap.Partial))
	case snap.Prompt != "":
		rows = append(rows, []boot.Span{{Text: snap.Prompt + snap.Input}, {Text: "█"}})
	}
	return rows
}

func drawBox(s tcell.Screen, x, y, w, h int) {
	st := tcell.StyleDefault
	for i := x + 1; i < x+w-1; i++ {
		s.SetContent(i, y, tcell.RuneHLine, nil, st)
		s.SetContent(i, y+h-1, tcell.RuneHLine, nil, st)
	}
	for j := y + 1; j < y+h-1; j++ {
		s.SetContent(x, j, tcell.RuneVLine, nil, st)
		s.SetContent(x+w-1, j, tcell.RuneVLine, nil, st)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, st)
	s.SetContent(x+w-1, y, tcell.RuneURCorner, nil, st)
	s.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, st)
	s.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, st)
}

func drawSpans(s tcell.Screen, x, y, width int, spans []boot.Span) {
	col := 0
	for _, sp := range spans {
		st := tcell.StyleDefault
		if sp.Color != "" {
			st = st.Foreground(tcell.GetColor(sp.Color))
		}
		for _, r := range sp.Text {
			if col >= width {
				return
			}
			s.SetContent(x+col, y, r, nil, st)
			col++
		}
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, st)
	}
}
