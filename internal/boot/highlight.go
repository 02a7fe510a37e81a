package boot

import (
	"strings"
	"unicode"
)

// Span is a run of text drawn in one color. An empty color is the default.
type Span struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// Plain wraps text in a single default span.
func Plain(text string) []Span {
	if text == "" {
		return nil
	}
	return []Span{{Text: text}}
}

// Highlight splits text into spans, coloring every whole word found in rules.
// It works on raw text so a word is colored at most once.
func Highlight(text string, rules map[string]string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			plain.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		word := string(runes[i:j])
		if color, ok := rules[word]; ok {
			flush()
			spans = append(spans, Span{Text: word, Color: color})
		} else {
			plain.WriteString(word)
		}
		i = j
	}
	flush()
	return spans
}

// Text concatenates span texts.
func Text(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
