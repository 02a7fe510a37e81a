// Package boot plays the scripted log shown when the terminal opens.
package boot

import "time"

// Line is one entry of the boot log.
type Line struct {
	Text      string
	CharDelay time.Duration
	Pause     time.Duration
}

// Script is the fixed boot sequence.
var Script = []Line{
	{Text: "Booting cosmicOS 2.4.1 (tty1)", CharDelay: 18 * time.Millisecond, Pause: 300 * time.Millisecond},
	{Text: "[ OK ] Mounted /home/cosmic", CharDelay: 8 * time.Millisecond, Pause: 120 * time.Millisecond},
	{Text: "[ OK ] Started portfolio.service", CharDelay: 8 * time.Millisecond, Pause: 120 * time.Millisecond},
	{Text: "[ OK ] Indexed 3 projects and 4 photos", CharDelay: 8 * time.Millisecond, Pause: 120 * time.Millisecond},
	{Text: "[WARN] coffee level low, continuing anyway", CharDelay: 8 * time.Millisecond, Pause: 250 * time.Millisecond},
	{Text: "[ OK ] Reached target shell", CharDelay: 8 * time.Millisecond, Pause: 200 * time.Millisecond},
	{Text: "Welcome, visitor. Type 'help' to get started.", CharDelay: 25 * time.Millisecond, Pause: 400 * time.Millisecond},
}

// Keywords colors whole words of completed boot lines.
var Keywords = map[string]string{
	"OK":        "green",
	"WARN":      "yellow",
	"FAIL":      "red",
	"cosmicOS":  "cyan",
	"cosmic":    "cyan",
	"portfolio": "magenta",
	"help":      "blue",
}

// Scale returns a copy of script with every delay multiplied by factor.
// A factor of zero plays the script instantly.
func Scale(script []Line, factor float64) []Line {
	out := make([]Line, len(script))
	for i, l := range script {
		out[i] = Line{
			Text:      l.Text,
			CharDelay: time.Duration(float64(l.CharDelay) * factor),
			Pause:     time.Duration(float64(l.Pause) * factor),
		}
	}
	return out
}
