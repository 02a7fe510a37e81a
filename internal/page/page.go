// Package page computes the decorative bits of the portfolio page on the
// server: counter labels, the visitor-facing age, SVG arcs and the wiggly
// underline.
package page

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// FormatCount renders a counter value, abbreviating thousands.
func FormatCount(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	if n%1000 == 0 {
		return strconv.Itoa(n/1000) + "k"
	}
	return strconv.FormatFloat(float64(n)/1000, 'f', 1, 64) + "k"
}

// CountSteps lists the values a counter shows while it animates up to target.
func CountSteps(target int) []int {
	if target <= 0 {
		return []int{target}
	}
	inc := int(math.Ceil(float64(target) / 100))
	var steps []int
	for cur := inc; cur < target; cur += inc {
		steps = append(steps, cur)
	}
	return append(steps, target)
}

// Age is the number of whole years between birth and now.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Arc is one animated stroke around the avatar.
type Arc struct {
	D        string
	Duration time.Duration
	Delay    time.Duration
}

const (
	arcCX = 135.0
	arcCY = 135.0
	arcR  = 130.0
)

// Arcs draws n random arcs on the avatar circle.
func Arcs(rng *rand.Rand, n int) []Arc {
	arcs := make([]Arc, 0, n)
	for i := 0; i < n; i++ {
		start := rng.Float64() * 360
		length := 20 + rng.Float64()*20

		x1, y1 := polar(start)
		x2, y2 := polar(start + length)
		large := 0
		if length > 180 {
			large = 1
		}
		arcs = append(arcs, Arc{
			D: fmt.Sprintf("M %s %s A %s %s 0 %d 1 %s %s",
				num(x1), num(y1), num(arcR), num(arcR), large, num(x2), num(y2)),
			Duration: time.Duration(3000+rng.Float64()*4000) * time.Millisecond,
			Delay:    time.Duration(rng.Float64()*1000) * time.Millisecond,
		})
	}
	return arcs
}

func polar(deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return arcCX + arcR*math.Cos(rad), arcCY + arcR*math.Sin(rad)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WiggleOptions shape the underline under the page title.
type WiggleOptions struct {
	StartX    float64
	EndX      float64
	Segments  int
	BaseY     float64
	Amplitude float64
}

// DefaultWiggle matches the underline SVG's viewBox.
var DefaultWiggle = WiggleOptions{StartX: 5, EndX: 195, Segments: 6, BaseY: 20, Amplitude: 5}

// WigglePath builds a cubic Bézier path that wobbles around BaseY.
func WigglePath(rng *rand.Rand, o WiggleOptions) string {
	if o.Segments <= 0 {
		o.Segments = 1
	}
	width := o.EndX - o.StartX
	seg := width / float64(o.Segments)
	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", num(o.StartX), num(o.BaseY))
	x := o.StartX
	for i := 0; i < o.Segments; i++ {
		cp1 := o.BaseY + (rng.Float64()*2-1)*o.Amplitude
		cp2 := o.BaseY + (rng.Float64()*2-1)*o.Amplitude
		next := o.StartX + width*float64(i+1)/float64(o.Segments)
		fmt.Fprintf(&b, " C%s %.1f, %s %.1f, %s %s",
			num(x+seg/3), cp1, num(x+2*seg/3), cp2, num(next), num(o.BaseY))
		x = next
	}
	return b.String()
}
