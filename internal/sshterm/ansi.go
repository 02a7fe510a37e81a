package sshterm

import (
	"io"
	"strings"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

var ansiColors = map[string]string{
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
}

const (
	clearScreen = "\x1b[2J\x1b[H"
	clearLine   = "\r\x1b[K"
)

// ansiSink renders terminal events as ANSI escape sequences.
type ansiSink struct {
	w       io.Writer
	baseURL string
	prompt  string
}

func (s *ansiSink) Emit(e terminal.Event) {
	var out string
	switch e.Kind {
	case terminal.EventReset, terminal.EventClear:
		out = clearScreen
	case terminal.EventReveal:
		out = clearLine + e.Text
	case terminal.EventLine:
		out = clearLine + colorize(e.Spans) + "\r\n"
	case terminal.EventPrompt:
		s.prompt = e.Text
		out = e.Text
	case terminal.EventInput:
		out = clearLine + s.prompt + e.Text
	case terminal.EventFreeze:
		out = clearLine + e.Text + "\r\n"
	case terminal.EventImage:
		out = "  [image] " + s.baseURL + e.URL + "\r\n"
	case terminal.EventNavigate:
		out = "Redirecting to " + s.baseURL + "/" + strings.TrimPrefix(e.URL, "/") + "\r\n"
	default:
		return
	}
	io.WriteString(s.w, out) //nolint:errcheck
}

func colorize(spans []boot.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		code, ok := ansiColors[sp.Color]
		if !ok {
			b.WriteString(sp.Text)
			continue
		}
		b.WriteString("\x1b[" + code + "m" + sp.Text + "\x1b[0m")
	}
	return b.String()
}
