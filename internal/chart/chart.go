package chart

import (
	"context"
	"fmt"

	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

// Chart wires the dataset, viewport, renderer and interaction controller
// together over one drawing surface. It owns render scheduling: any number of
// mutations between two frame ticks collapse into at most one paint, and the
// paint always reads the state current at execution time.
//
// All methods must be called from the single event/render goroutine; the
// chart performs no locking of its own.
type Chart struct {
	logger     ports.Logger
	surface    ports.Surface
	renderer   *Renderer
	viewport   *Viewport
	controller *Controller
	dataset    *domain.Dataset

	pendingRepaint bool
	destroyed      bool
}

// Config holds the dependencies and initial dimensions for a chart instance.
type Config struct {
	Surface ports.Surface
	Width   float64
	Height  float64
	Render  RenderConfig
	Logger  ports.Logger
}

// New creates a chart over the given surface. A missing surface is fatal and
// unrecoverable for the instance, surfaced here before any data load.
func New(cfg Config) (*Chart, error) {
	if cfg.Surface == nil {
		return nil, fmt.Errorf("chart construction: %w", ports.ErrSurfaceUnavailable)
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for chart: %w", ports.ErrConfigurationError)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("chart dimensions must be positive: %w", ports.ErrConfigurationError)
	}

	c := &Chart{
		logger:   cfg.Logger,
		surface:  cfg.Surface,
		renderer: NewRenderer(cfg.Surface, cfg.Width, cfg.Height, cfg.Render),
		viewport: NewViewport(0, cfg.Width),
	}
	c.controller = NewController(c.viewport, c.RequestRepaint)

	// Paint the empty background before any data arrives.
	c.RequestRepaint()
	return c, nil
}

// Controller exposes the interaction controller so the platform shell can
// feed it normalized input events.
func (c *Chart) Controller() *Controller { return c.controller }

// HasData reports whether a dataset has been loaded.
func (c *Chart) HasData() bool { return c.dataset != nil }

// Destroyed reports whether Destroy has been called.
func (c *Chart) Destroyed() bool { return c.destroyed }

// LoadData replaces the chart's dataset wholesale and schedules a repaint.
func (c *Chart) LoadData(dataset *domain.Dataset) {
	if c.destroyed {
		return
	}
	c.dataset = dataset
	c.viewport.UpdateTotalBars(dataset.BarCount())
	c.logger.Info(context.Background(), "Dataset loaded", map[string]interface{}{"bars": dataset.BarCount()})
	c.RequestRepaint()
}

// RequestRepaint marks the chart dirty. At most one repaint is outstanding;
// further requests before the next RenderFrame are absorbed by the flag.
func (c *Chart) RequestRepaint() {
	if c.destroyed {
		return
	}
	c.pendingRepaint = true
}

// RenderFrame is called by the platform shell on every frame tick. It paints
// only when a repaint is pending, then clears the flag. State is read at
// execution time, so mutations arriving after the request are still captured.
func (c *Chart) RenderFrame() {
	if c.destroyed || !c.pendingRepaint {
		return
	}
	c.pendingRepaint = false
	c.draw()
}

// Resize synchronously adjusts the renderer and viewport to new surface
// dimensions and schedules one repaint.
func (c *Chart) Resize(width, height float64) {
	if c.destroyed {
		return
	}
	c.renderer.UpdateDimensions(width, height)
	c.viewport.UpdateViewportWidth(width)
	c.RequestRepaint()
}

// Destroy cancels any outstanding repaint and detaches the controller. No
// paint or input callback runs afterward. Idempotent.
func (c *Chart) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.pendingRepaint = false
	c.controller.Detach()
}

func (c *Chart) draw() {
	c.renderer.Clear()

	if c.dataset == nil {
		return
	}

	start := c.viewport.StartBarIndex()
	end := c.viewport.EndBarIndex()
	visible := c.dataset.VisibleBars(start, end)
	priceRange := c.dataset.PriceRange(start, end)

	c.renderer.RenderBars(visible, c.viewport, priceRange)
	c.renderer.RenderPriceAxis(priceRange)
	c.renderer.RenderTimeAxis(visible, c.viewport)
}
