package boot

import (
	"context"
	"time"
)

// Writer receives the boot sequence as it plays.
type Writer interface {
	// Reveal shows the first part of line i; called once per rune.
	Reveal(i int, partial string)
	// Complete replaces line i with its highlighted form.
	Complete(i int, spans []Span)
}

// Play reveals script one rune at a time. It returns ctx.Err() as soon as ctx
// is cancelled and nil once every line is complete.
func Play(ctx context.Context, script []Line, rules map[string]string, w Writer) error {
	for i, line := range script {
		runes := []rune(line.Text)
		for n := 1; n <= len(runes); n++ {
			if err := sleep(ctx, line.CharDelay); err != nil {
				return err
			}
			w.Reveal(i, string(runes[:n]))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.Complete(i, Highlight(line.Text, rules))
		if err := sleep(ctx, line.Pause); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
