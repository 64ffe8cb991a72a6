package chart

import "image/color"

// RenderConfig carries the fixed palette and axis-gutter sizes consumed by
// the renderer. It is supplied as configuration, never derived from data.
type RenderConfig struct {
	BackgroundColor color.RGBA
	GridColor       color.RGBA
	TextColor       color.RGBA
	BullishColor    color.RGBA
	BearishColor    color.RGBA
	AxisWidth       float64
	PriceAxisWidth  float64
	TimeAxisHeight  float64
}

// DefaultRenderConfig returns the standard dark palette.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		BackgroundColor: color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff},
		GridColor:       color.RGBA{R: 0x2a, G: 0x2a, B: 0x2a, A: 0xff},
		TextColor:       color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff},
		BullishColor:    color.RGBA{R: 0x26, G: 0xa6, B: 0x9a, A: 0xff},
		BearishColor:    color.RGBA{R: 0xef, G: 0x53, B: 0x50, A: 0xff},
		AxisWidth:       1,
		PriceAxisWidth:  80,
		TimeAxisHeight:  30,
	}
}
