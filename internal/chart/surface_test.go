package chart

import (
	"context"
	"image/color"

	"fxchart/internal/ports"
)

// fakeSurface records draw calls for renderer assertions.
type fakeSurface struct {
	width  float64
	height float64
	rects  []rectOp
	lines  []lineOp
	texts  []textOp
}

type rectOp struct {
	x, y, w, h float64
	color      color.RGBA
}

type lineOp struct {
	x1, y1, x2, y2 float64
	color          color.RGBA
}

type textOp struct {
	s     string
	x, y  float64
	align ports.TextAlign
	color color.RGBA
}

func newFakeSurface(width, height float64) *fakeSurface {
	return &fakeSurface{width: width, height: height}
}

func (f *fakeSurface) Size() (float64, float64) { return f.width, f.height }

func (f *fakeSurface) FillRect(x, y, w, h float64, c color.RGBA) {
	f.rects = append(f.rects, rectOp{x, y, w, h, c})
}

func (f *fakeSurface) StrokeLine(x1, y1, x2, y2, _ float64, c color.RGBA) {
	f.lines = append(f.lines, lineOp{x1, y1, x2, y2, c})
}

func (f *fakeSurface) DrawText(s string, x, y float64, align ports.TextAlign, c color.RGBA) {
	f.texts = append(f.texts, textOp{s, x, y, align, c})
}

func (f *fakeSurface) reset() {
	f.rects = nil
	f.lines = nil
	f.texts = nil
}

func (f *fakeSurface) opCount() int {
	return len(f.rects) + len(f.lines) + len(f.texts)
}

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}
