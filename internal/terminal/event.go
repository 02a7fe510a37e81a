package terminal

import "github.com/Zachkp/cosmic-portfolio/internal/boot"

// EventKind names a visible change of the terminal.
type EventKind string

const (
	EventReset    EventKind = "reset"
	EventReveal   EventKind = "reveal"
	EventLine     EventKind = "line"
	EventPrompt   EventKind = "prompt"
	EventInput    EventKind = "input"
	EventFreeze   EventKind = "freeze"
	EventClear    EventKind = "clear"
	EventImage    EventKind = "image"
	EventNavigate EventKind = "navigate"
	EventState    EventKind = "state"
	EventMove     EventKind = "move"
	EventClose    EventKind = "close"
)

// Event is one render instruction for a front-end.
type Event struct {
	Kind  EventKind   `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Spans []boot.Span `json:"spans,omitempty"`
	URL   string      `json:"url,omitempty"`
	State string      `json:"state,omitempty"`
	X     int         `json:"x,omitempty"`
	Y     int         `json:"y,omitempty"`
}

// Sink receives events. Emit is called with the terminal locked and must not
// call back into the terminal.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

type discard struct{}

func (discard) Emit(Event) {}

// Line is one line of terminal output. Image lines carry only a URL.
type Line struct {
	Spans []boot.Span `json:"spans,omitempty"`
	Image string      `json:"image,omitempty"`
}

// Text flattens the line.
func (l Line) Text() string { return boot.Text(l.Spans) }
