package chart

import "math"

// dragThreshold is the pixel distance a pressed pointer must travel before a
// press turns into a drag, so plain clicks never pan the view.
const dragThreshold = 5.0

// zoomInFactor / zoomOutFactor are applied per wheel notch with the zoom
// modifier held.
const (
	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Controller translates normalized pointer and wheel events into viewport
// mutations and repaint requests. It never paints directly and never touches
// the dataset or renderer. Platform event decoding (buttons, modifier keys,
// wheel units) is an adapter concern.
type Controller struct {
	viewport *Viewport
	onUpdate func()

	dragging   bool
	lastX      float64
	lastY      float64
	dragStartX float64
	detached   bool
}

// NewController wires a controller to the viewport it mutates; onUpdate is
// invoked after every mutation to request a repaint.
func NewController(viewport *Viewport, onUpdate func()) *Controller {
	return &Controller{viewport: viewport, onUpdate: onUpdate}
}

// Wheel handles a wheel event at position (x, y). With the zoom modifier held
// (ctrl/meta) a negative delta (wheel up) zooms in around x; without it the
// vertical delta pans the view horizontally.
func (c *Controller) Wheel(x, y, deltaY float64, zoomModifier bool) {
	if c.detached {
		return
	}

	if zoomModifier {
		factor := zoomInFactor
		if deltaY > 0 {
			factor = zoomOutFactor
		}
		c.viewport.Zoom(factor, x)
	} else {
		c.viewport.Scroll(deltaY)
	}
	c.onUpdate()
}

// PointerDown records the press position of the primary button as the drag
// anchor. Dragging does not start until the pointer moves past the threshold.
func (c *Controller) PointerDown(x, y float64) {
	if c.detached {
		return
	}
	c.lastX = x
	c.lastY = y
	c.dragStartX = x
	c.dragging = false
}

// PointerMove pans the view by the delta from the previous move position once
// the drag threshold has been exceeded with the primary button held.
func (c *Controller) PointerMove(x, y float64, primaryHeld bool) {
	if c.detached {
		return
	}

	if primaryHeld {
		if !c.dragging && math.Abs(x-c.dragStartX) > dragThreshold {
			c.dragging = true
		}
		if c.dragging {
			c.viewport.Scroll(-(x - c.lastX))
			c.onUpdate()
		}
	}

	c.lastX = x
	c.lastY = y
}

// PointerUp ends a drag on primary-button release.
func (c *Controller) PointerUp() {
	if c.detached {
		return
	}
	c.dragging = false
}

// PointerLeave ends a drag when the pointer leaves the chart area.
func (c *Controller) PointerLeave() {
	if c.detached {
		return
	}
	c.dragging = false
}

// Detach permanently disconnects the controller; subsequent events are
// dropped. Idempotent.
func (c *Controller) Detach() {
	c.detached = true
	c.dragging = false
}
