package chart

import (
	"fmt"
	"math"
	"time"

	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

const (
	axisFontSize = 11.0

	// Time axis label layout: stride targets one label per ~120px of bars,
	// drawn labels keep at least 80px apart, interior labels stay 30px off
	// the chart edges.
	labelStrideSpacing = 120.0
	labelMinSpacing    = 80.0
	labelEdgePadding   = 30.0
)

// priceSteps is the candidate ladder for "nice" price grid intervals.
var priceSteps = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005,
	0.01, 0.05, 0.1, 0.5, 1, 5, 10,
}

// Renderer paints one frame of the chart onto a Surface. It is stateless per
// invocation beyond the surface dimensions and the palette; all bar and
// viewport state is passed in on each call.
type Renderer struct {
	surface ports.Surface
	width   float64
	height  float64
	cfg     RenderConfig
}

// NewRenderer creates a renderer for the given surface dimensions.
func NewRenderer(surface ports.Surface, width, height float64, cfg RenderConfig) *Renderer {
	return &Renderer{surface: surface, width: width, height: height, cfg: cfg}
}

// Clear paints the whole surface with the background color.
func (r *Renderer) Clear() {
	r.surface.FillRect(0, 0, r.width, r.height, r.cfg.BackgroundColor)
}

// ChartArea returns the candle-drawing region, i.e. the surface minus the
// price and time axis gutters.
func (r *Renderer) ChartArea() (width, height float64) {
	return r.width - r.cfg.PriceAxisWidth, r.height - r.cfg.TimeAxisHeight
}

// RenderBars draws the candlesticks for the visible slice. Bars fully outside
// [-fullBarWidth, chartAreaWidth] are skipped, which makes clipping
// unnecessary. A degenerate price range (Max <= Min, e.g. the empty-dataset
// sentinel) draws nothing.
func (r *Renderer) RenderBars(bars []domain.NormalizedBar, viewport *Viewport, priceRange domain.PriceRange) {
	chartW, chartH := r.ChartArea()
	if !(priceRange.Max > priceRange.Min) {
		return
	}
	priceScale := chartH / (priceRange.Max - priceRange.Min)

	startIndex := viewport.StartBarIndex()
	for i, bar := range bars {
		x := viewport.XForBarIndex(float64(startIndex + i))
		if x < -viewport.FullBarWidth() || x > chartW {
			continue
		}

		openY := chartH - (bar.Open-priceRange.Min)*priceScale
		closeY := chartH - (bar.Close-priceRange.Min)*priceScale
		highY := chartH - (bar.High-priceRange.Min)*priceScale
		lowY := chartH - (bar.Low-priceRange.Min)*priceScale

		col := r.cfg.BearishColor
		if bar.Close >= bar.Open {
			col = r.cfg.BullishColor
		}

		centerX := x + viewport.FullBarWidth()/2
		r.surface.StrokeLine(centerX, highY, centerX, lowY, r.cfg.AxisWidth, col)

		bodyTop := math.Min(openY, closeY)
		bodyHeight := math.Abs(closeY - openY)
		if bodyHeight == 0 {
			bodyHeight = 1 // zero-range bars stay visible
		}
		r.surface.FillRect(x+viewport.BarSpacing()/2, bodyTop, viewport.BarWidth(), bodyHeight, col)
	}
}

// RenderPriceAxis draws the right-hand gutter with horizontal grid lines and
// price labels at 5-decimal precision. The step is the first ladder candidate
// that keeps roughly 10 grid lines in the range.
func (r *Renderer) RenderPriceAxis(priceRange domain.PriceRange) {
	chartW, chartH := r.ChartArea()
	axisX := chartW

	r.surface.FillRect(axisX, 0, r.cfg.PriceAxisWidth, chartH, r.cfg.BackgroundColor)
	r.surface.StrokeLine(axisX, 0, axisX, chartH, r.cfg.AxisWidth, r.cfg.GridColor)

	if !(priceRange.Max > priceRange.Min) {
		return
	}

	step := priceStep(priceRange.Max - priceRange.Min)
	startPrice := math.Ceil(priceRange.Min/step) * step

	for price := startPrice; price <= priceRange.Max; price += step {
		y := chartH - (price-priceRange.Min)/(priceRange.Max-priceRange.Min)*chartH
		r.surface.StrokeLine(0, y, chartW, y, r.cfg.AxisWidth, r.cfg.GridColor)
		r.surface.DrawText(fmt.Sprintf("%.5f", price), axisX+5, y-axisFontSize/2, ports.AlignLeft, r.cfg.TextColor)
	}
}

// RenderTimeAxis draws the bottom gutter with time labels. The first visible
// bar is always labeled at the left edge and the last eligible label is
// anchored near the right edge; interior labels are greedily thinned so no
// two drawn labels come closer than labelMinSpacing.
func (r *Renderer) RenderTimeAxis(bars []domain.NormalizedBar, viewport *Viewport) {
	chartW, chartH := r.ChartArea()
	axisY := chartH

	r.surface.FillRect(0, axisY, r.width, r.cfg.TimeAxisHeight, r.cfg.BackgroundColor)
	r.surface.StrokeLine(0, axisY, chartW, axisY, r.cfg.AxisWidth, r.cfg.GridColor)

	if len(bars) == 0 {
		return
	}

	barStep := int(math.Ceil(labelStrideSpacing / viewport.FullBarWidth()))
	startIndex := viewport.StartBarIndex()
	textY := axisY + 8
	lastDrawX := math.Inf(-1)

	for i := 0; i < len(bars); i += barStep {
		centerX := viewport.XForBarIndex(float64(startIndex+i)) + viewport.FullBarWidth()/2
		label := formatTimeLabel(bars[i].Timestamp)

		if i == 0 {
			r.surface.DrawText(label, math.Max(2, centerX), textY, ports.AlignLeft, r.cfg.TextColor)
			lastDrawX = centerX
			continue
		}

		if i+barStep >= len(bars) {
			// Last eligible label: keep it near the right edge, pushed left
			// of the edge and right of the previous label when crowded.
			x := math.Min(chartW-2, centerX)
			if x-lastDrawX < labelMinSpacing {
				x = lastDrawX + labelMinSpacing
				if x > chartW-2 {
					x = chartW - 2
				}
			}
			r.surface.DrawText(label, x, textY, ports.AlignCenter, r.cfg.TextColor)
			lastDrawX = x
			continue
		}

		if centerX >= labelEdgePadding && centerX <= chartW-labelEdgePadding &&
			centerX-lastDrawX >= labelMinSpacing {
			r.surface.DrawText(label, centerX, textY, ports.AlignCenter, r.cfg.TextColor)
			lastDrawX = centerX
		}
	}
}

// UpdateDimensions adjusts the renderer to a resized surface.
func (r *Renderer) UpdateDimensions(width, height float64) {
	r.width = width
	r.height = height
}

func priceStep(priceRange float64) float64 {
	const targetLines = 10
	target := priceRange / targetLines
	for _, step := range priceSteps {
		if step >= target {
			return step
		}
	}
	return priceSteps[len(priceSteps)-1]
}

// formatTimeLabel renders a bar timestamp as "MM/DD HH:MM" in UTC.
func formatTimeLabel(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format("01/02 15:04")
}
