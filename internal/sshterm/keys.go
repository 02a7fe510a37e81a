package sshterm

import (
	"unicode/utf8"

	"github.com/Zachkp/cosmic-portfolio/internal/terminal"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
	esc   = 0x1b
)

// keyDecoder turns the raw byte stream of a pty into key presses.
type keyDecoder struct {
	pending []byte
	inEsc   bool
	escLen  int
}

// feed consumes one byte. It returns the decoded key and ok=true when the
// byte completed a key; hangup is true for Ctrl+C and Ctrl+D.
func (d *keyDecoder) feed(b byte) (k terminal.Key, ok bool, hangup bool) {
	if d.inEsc {
		d.escLen++
		// ESC [ ... final, or a two-byte ESC x sequence.
		if (d.escLen == 1 && b != '[' && b != 'O') || (d.escLen > 1 && b >= 0x40 && b <= 0x7e) {
			d.inEsc = false
		}
		return terminal.Key{}, false, false
	}

	switch {
	case b == esc:
		d.inEsc, d.escLen, d.pending = true, 0, d.pending[:0]
		return terminal.Key{}, false, false
	case b == ctrlC || b == ctrlD:
		return terminal.Key{}, false, true
	case b == '\r' || b == '\n':
		return terminal.Key{Kind: terminal.KeyEnter}, true, false
	case b == 0x7f || b == 0x08:
		return terminal.Key{Kind: terminal.KeyBackspace}, true, false
	case b < 0x20:
		return terminal.Key{Kind: terminal.KeyOther}, true, false
	}

	d.pending = append(d.pending, b)
	if !utf8.FullRune(d.pending) {
		return terminal.Key{}, false, false
	}
	r, _ := utf8.DecodeRune(d.pending)
	d.pending = d.pending[:0]
	if r == utf8.RuneError {
		return terminal.Key{Kind: terminal.KeyOther}, true, false
	}
	return terminal.RuneKey(r), true, false
}
