package terminal

import (
	"unicode"
	"unicode/utf8"
)

// KeyKind classifies a key press.
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyBackspace
	KeyEnter
)

// Key is a front-end independent key press.
type Key struct {
	Kind KeyKind
	Rune rune
}

// RuneKey is a printable character.
func RuneKey(r rune) Key { return Key{Kind: KeyRune, Rune: r} }

// ParseKey maps a DOM KeyboardEvent.key value to a Key.
func ParseKey(name string) Key {
	switch name {
	case "Enter":
		return Key{Kind: KeyEnter}
	case "Backspace":
		return Key{Kind: KeyBackspace}
	}
	r, size := utf8.DecodeRuneInString(name)
	if size > 0 && size == len(name) && r != utf8.RuneError && unicode.IsPrint(r) {
		return RuneKey(r)
	}
	return Key{}
}
