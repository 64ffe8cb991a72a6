package ports

import "image/color"

// TextAlign controls how DrawText anchors a string horizontally at x.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Surface is a fixed-size 2D raster target the renderer paints onto.
// Implementations translate these calls to the platform drawing API; the
// renderer never talks to the platform directly. Coordinates are pixels with
// the origin at the top-left corner, y growing downward.
type Surface interface {
	// Size returns the current surface dimensions in pixels.
	Size() (width, height float64)

	// FillRect paints a filled axis-aligned rectangle.
	FillRect(x, y, w, h float64, c color.RGBA)

	// StrokeLine draws a straight line segment of the given stroke width.
	StrokeLine(x1, y1, x2, y2, strokeWidth float64, c color.RGBA)

	// DrawText renders a single line of text with its vertical anchor at y
	// (top of the glyphs) and its horizontal anchor at x per align.
	DrawText(s string, x, y float64, align TextAlign, c color.RGBA)
}
