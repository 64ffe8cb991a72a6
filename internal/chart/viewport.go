package chart

import "math"

const (
	minBarWidth     = 2.0
	maxBarWidth     = 50.0
	defaultBarWidth = 10.0
	defaultSpacing  = 2.0
)

// Viewport maps between logical bar indices and pixel x-coordinates. It
// tracks the zoom level (bar pixel width) and the scroll offset (fractional
// start index) and clamps both so the view never runs past either edge of the
// dataset. It holds no reference to bar content; the total bar count is
// supplied by the dataset owner.
type Viewport struct {
	barWidth      float64
	barSpacing    float64
	startBarIndex float64 // fractional, >= 0
	totalBars     int
	viewportWidth float64
}

// NewViewport creates a viewport over totalBars bars rendered into
// viewportWidth pixels, scrolled to the start.
func NewViewport(totalBars int, viewportWidth float64) *Viewport {
	return &Viewport{
		barWidth:      defaultBarWidth,
		barSpacing:    defaultSpacing,
		totalBars:     totalBars,
		viewportWidth: viewportWidth,
	}
}

// BarWidth returns the current bar body width in pixels.
func (v *Viewport) BarWidth() float64 { return v.barWidth }

// BarSpacing returns the fixed gap between adjacent bars in pixels.
func (v *Viewport) BarSpacing() float64 { return v.barSpacing }

// FullBarWidth is the repeating pixel stride between bar centers.
func (v *Viewport) FullBarWidth() float64 { return v.barWidth + v.barSpacing }

// StartBarIndex is the first (whole) bar index aligned with the left edge.
func (v *Viewport) StartBarIndex() int {
	return int(math.Floor(v.startBarIndex))
}

// EndBarIndex is the exclusive end of the visible index range.
func (v *Viewport) EndBarIndex() int {
	end := int(math.Ceil(v.startBarIndex + float64(v.VisibleBarCount())))
	if end > v.totalBars {
		end = v.totalBars
	}
	return end
}

// VisibleBarCount is how many bars fit the viewport at the current zoom.
func (v *Viewport) VisibleBarCount() int {
	return int(math.Ceil(v.viewportWidth / v.FullBarWidth()))
}

// Zoom multiplies the bar width by factor, clamped to [2, 50], and re-anchors
// the scroll offset so the bar under centerX stays under centerX. A zoom that
// does not change the clamped width leaves the state untouched.
func (v *Viewport) Zoom(factor, centerX float64) {
	oldBarWidth := v.barWidth
	newBarWidth := math.Max(minBarWidth, math.Min(maxBarWidth, v.barWidth*factor))
	if newBarWidth == oldBarWidth {
		return
	}

	// Index under the cursor before the width changes.
	barAtCenter := v.BarIndexAtX(centerX)

	v.barWidth = newBarWidth
	centerRatio := centerX / v.viewportWidth
	v.startBarIndex = barAtCenter - float64(v.VisibleBarCount())*centerRatio
	v.clampStartIndex()
}

// Scroll shifts the view by deltaPixels of content (positive moves the view
// toward later bars).
func (v *Viewport) Scroll(deltaPixels float64) {
	v.startBarIndex += deltaPixels / v.FullBarWidth()
	v.clampStartIndex()
}

// BarIndexAtX returns the fractional bar index under the pixel x.
func (v *Viewport) BarIndexAtX(x float64) float64 {
	return v.startBarIndex + x/v.FullBarWidth()
}

// XForBarIndex returns the pixel x of the left edge of the given bar index.
// Exact inverse of BarIndexAtX.
func (v *Viewport) XForBarIndex(barIndex float64) float64 {
	return (barIndex - v.startBarIndex) * v.FullBarWidth()
}

// UpdateViewportWidth sets the viewport pixel width and re-clamps the scroll
// offset. Called on resize.
func (v *Viewport) UpdateViewportWidth(width float64) {
	v.viewportWidth = width
	v.clampStartIndex()
}

// UpdateTotalBars sets the dataset size and re-clamps the scroll offset.
// Called on data load.
func (v *Viewport) UpdateTotalBars(totalBars int) {
	v.totalBars = totalBars
	v.clampStartIndex()
}

func (v *Viewport) clampStartIndex() {
	maxStart := math.Max(0, float64(v.totalBars-v.VisibleBarCount()))
	v.startBarIndex = math.Max(0, math.Min(maxStart, v.startBarIndex))
}
