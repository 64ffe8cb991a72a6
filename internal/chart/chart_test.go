package chart

import (
	"errors"
	"testing"

	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

func newTestChart(t *testing.T) (*Chart, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface(880, 530)
	c, err := New(Config{
		Surface: surface,
		Width:   880,
		Height:  530,
		Render:  DefaultRenderConfig(),
		Logger:  &mockLogger{},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c, surface
}

func testDataset(n int) *domain.Dataset {
	raw := &domain.RawDataset{ChunkStart: 1700000000}
	for i := 0; i < n; i++ {
		raw.Bars = append(raw.Bars, domain.RawBar{
			Time: int64(i * 60), Open: 1.2, High: 1.8, Low: 1.0, Close: 1.6, TickVolume: 10,
		})
	}
	return domain.NewDataset(raw)
}

func TestChart_NewRequiresSurface(t *testing.T) {
	_, err := New(Config{Width: 880, Height: 530, Logger: &mockLogger{}})
	if !errors.Is(err, ports.ErrSurfaceUnavailable) {
		t.Errorf("New() without surface = %v, want ErrSurfaceUnavailable", err)
	}
}

func TestChart_InitialFramePaintsBackgroundOnly(t *testing.T) {
	c, surface := newTestChart(t)

	c.RenderFrame()

	// Construction schedules one paint of the empty background.
	if len(surface.rects) != 1 {
		t.Fatalf("initial frame painted %d rects, want background only", len(surface.rects))
	}
}

func TestChart_RepaintCoalescing(t *testing.T) {
	c, surface := newTestChart(t)
	c.LoadData(testDataset(10))

	// A burst of mutations before the frame tick collapses into one paint.
	c.Controller().Wheel(100, 50, 120, false)
	c.Controller().Wheel(100, 50, 120, false)
	c.RequestRepaint()

	surface.reset()
	c.RenderFrame()
	painted := surface.opCount()
	if painted == 0 {
		t.Fatal("pending repaint did not paint")
	}

	surface.reset()
	c.RenderFrame() // nothing pending
	if surface.opCount() != 0 {
		t.Errorf("second frame painted %d ops with no pending repaint", surface.opCount())
	}
}

func TestChart_PaintReadsCurrentState(t *testing.T) {
	c, surface := newTestChart(t)
	c.LoadData(testDataset(200))
	surface.reset()

	// Mutations after the repaint request but before the frame still land in
	// the paint: the last frame reflects the final scroll position.
	c.RequestRepaint()
	c.Controller().Wheel(100, 50, 1e9, false) // pin to right edge

	c.RenderFrame()
	if len(surface.texts) == 0 {
		t.Fatal("no labels painted")
	}
	// Pinned right: 74 bars fit, so the visible slice starts at bar 126 and
	// the last label candidate (stride 10) is bar 126+70.
	want := formatTimeLabel(1700000000 + 196*60)
	last := surface.texts[len(surface.texts)-1]
	if last.s != want {
		t.Errorf("last time label = %q, want %q (paint must read post-scroll state)", last.s, want)
	}
}

func TestChart_LoadDataReplacesDataset(t *testing.T) {
	c, surface := newTestChart(t)

	c.LoadData(testDataset(5))
	surface.reset()
	c.RenderFrame()
	if surface.opCount() == 0 {
		t.Fatal("load did not schedule a paint")
	}

	c.LoadData(testDataset(0))
	surface.reset()
	c.RenderFrame()
	// Empty dataset: background, axis gutters and frames only, no candles.
	if len(surface.texts) != 0 {
		t.Errorf("empty dataset painted %d labels, want 0", len(surface.texts))
	}
	for _, line := range surface.lines {
		if line.color != DefaultRenderConfig().GridColor {
			t.Errorf("empty dataset painted a non-grid line %+v (candle wick?)", line)
		}
	}
}

func TestChart_ResizeSchedulesRepaint(t *testing.T) {
	c, surface := newTestChart(t)
	c.LoadData(testDataset(10))
	c.RenderFrame()
	surface.reset()

	c.Resize(640, 480)
	c.RenderFrame()
	if surface.opCount() == 0 {
		t.Error("resize did not schedule a repaint")
	}
	// The background now covers the new dimensions.
	if got := surface.rects[0]; got.w != 640 || got.h != 480 {
		t.Errorf("background after resize = %vx%v, want 640x480", got.w, got.h)
	}
}

func TestChart_DestroyCancelsAndDetaches(t *testing.T) {
	c, surface := newTestChart(t)
	c.LoadData(testDataset(10))
	c.RequestRepaint()

	c.Destroy()
	surface.reset()

	c.RenderFrame()
	if surface.opCount() != 0 {
		t.Errorf("destroyed chart painted %d ops", surface.opCount())
	}

	c.Controller().Wheel(100, 50, 120, false)
	c.RenderFrame()
	if surface.opCount() != 0 {
		t.Errorf("input after destroy caused a paint")
	}

	c.Destroy() // idempotent
}
