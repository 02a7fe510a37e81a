package terminal

// Window is the draggable chrome around the terminal.
type Window struct {
	X, Y     int
	Open     bool
	dragging bool
	offX     int
	offY     int
}

// BeginDrag grabs the window at pointer position (x, y).
func (w *Window) BeginDrag(x, y int) {
	w.dragging = true
	w.offX = x - w.X
	w.offY = y - w.Y
}

// DragTo moves the window so the grab point follows the pointer. It reports
// whether a drag was in progress.
func (w *Window) DragTo(x, y int) bool {
	if !w.dragging {
		return false
	}
	w.X = max(0, x-w.offX)
	w.Y = max(0, y-w.offY)
	return true
}

func (w *Window) EndDrag() { w.dragging = false }

func (w *Window) Dragging() bool { return w.dragging }
