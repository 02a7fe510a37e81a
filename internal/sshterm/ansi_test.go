package sshterm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zachkp/cosmic-portfolio/internal/boot"
	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

func TestAnsiSink(t *testing.T) {
	var b strings.Builder
	s := &ansiSink{w: &b, baseURL: "https://cosmic.dev"}

	s.Emit(terminal.Event{Kind: terminal.EventLine, Spans: []boot.Span{{Text: "[ "}, {Text: "OK", Color: "green"}, {Text: " ]"}}})
	assert.Equal(t, "\r\x1b[K[ \x1b[32mOK\x1b[0m ]\r\n", b.String())

	b.Reset()
	s.Emit(terminal.Event{Kind: terminal.EventPrompt, Text: "$ "})
	s.Emit(terminal.Event{Kind: terminal.EventInput, Text: "pw"})
	assert.Equal(t, "$ \r\x1b[K$ pw", b.String())

	b.Reset()
	s.Emit(terminal.Event{Kind: terminal.EventImage, URL: "/images/avatar.png"})
	s.Emit(terminal.Event{Kind: terminal.EventNavigate, URL: "home.html"})
	assert.Equal(t, "  [image] https://cosmic.dev/images/avatar.png\r\nRedirecting to https://cosmic.dev/home.html\r\n", b.String())

	b.Reset()
	s.Emit(terminal.Event{Kind: terminal.EventState, State: "booting"})
	assert.Empty(t, b.String())
}
