package ebitenui

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"fxchart/internal/ports"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

const labelFontSize = 11

var (
	fontOnce   sync.Once
	fontSource *text.GoTextFaceSource
	fontErr    error
)

func labelFaceSource() (*text.GoTextFaceSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	})
	return fontSource, fontErr
}

// Surface implements ports.Surface over an offscreen ebiten image. The image
// persists between frames like a raster canvas; the game loop blits it to the
// screen each frame and the renderer repaints it only when the chart is dirty.
type Surface struct {
	img  *ebiten.Image
	face *text.GoTextFace
}

// NewSurface allocates the offscreen raster and the label typeface. A font
// failure here is the surface-acquisition failure of the chart: fatal for the
// instance, surfaced before any data load.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface dimensions %dx%d: %w", width, height, ports.ErrSurfaceUnavailable)
	}
	src, err := labelFaceSource()
	if err != nil {
		return nil, fmt.Errorf("loading label typeface: %v: %w", err, ports.ErrSurfaceUnavailable)
	}

	return &Surface{
		img:  ebiten.NewImage(width, height),
		face: &text.GoTextFace{Source: src, Size: labelFontSize},
	}, nil
}

// Image exposes the backing raster for blitting to the screen.
func (s *Surface) Image() *ebiten.Image { return s.img }

// Face exposes the label typeface so the shell can draw status text in the
// same style.
func (s *Surface) Face() *text.GoTextFace { return s.face }

// Resize replaces the backing raster. Contents are discarded; the chart
// schedules a repaint on resize anyway.
func (s *Surface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	old := s.img
	s.img = ebiten.NewImage(width, height)
	old.Deallocate()
}

// Size returns the raster dimensions in pixels.
func (s *Surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// FillRect paints a filled axis-aligned rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c color.RGBA) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), c, false)
}

// StrokeLine draws a straight line segment.
func (s *Surface) StrokeLine(x1, y1, x2, y2, strokeWidth float64, c color.RGBA) {
	vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(strokeWidth), c, false)
}

// DrawText renders one line of text, top-anchored at y and aligned at x.
func (s *Surface) DrawText(str string, x, y float64, align ports.TextAlign, c color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	switch align {
	case ports.AlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case ports.AlignRight:
		op.PrimaryAlign = text.AlignEnd
	default:
		op.PrimaryAlign = text.AlignStart
	}
	text.Draw(s.img, str, s.face, op)
}
