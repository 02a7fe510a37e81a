package page

import "time"

// Typewriter timings for the tagline.
const (
	TypeDelay   = 100 * time.Millisecond
	DeleteDelay = 50 * time.Millisecond
	WordPause   = 1500 * time.Millisecond
)

// Frame is what the tagline shows and for how long.
type Frame struct {
	Text  string
	After time.Duration
}

// Typewriter steps through words, typing each one out and deleting it again.
type Typewriter struct {
	words    []string
	word     int
	char     int
	deleting bool
}

func NewTypewriter(words []string) *Typewriter {
	return &Typewriter{words: words}
}

// Next returns the next frame. With no words it always returns an empty frame.
func (t *Typewriter) Next() Frame {
	if len(t.words) == 0 {
		return Frame{After: WordPause}
	}
	word := []rune(t.words[t.word])
	text := string(word[:t.char])

	if !t.deleting {
		if t.char < len(word) {
			t.char++
			return Frame{Text: text, After: TypeDelay}
		}
		t.deleting = true
		return Frame{Text: text, After: WordPause}
	}
	if t.char > 0 {
		t.char--
		return Frame{Text: text, After: DeleteDelay}
	}
	t.deleting = false
	t.word = (t.word + 1) % len(t.words)
	return Frame{Text: text, After: TypeDelay}
}

// Cycle plays one full pass over every word, leaving the typewriter where it
// started.
func (t *Typewriter) Cycle() []Frame {
	if len(t.words) == 0 {
		return nil
	}
	start := t.word
	var frames []Frame
	for {
		frames = append(frames, t.Next())
		if t.word == start && t.char == 0 && !t.deleting {
			return frames
		}
	}
}
