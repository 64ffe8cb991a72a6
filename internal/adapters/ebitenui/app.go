package ebitenui

import (
	"context"
	"fmt"
	"image/color"

	"fxchart/internal/app"
	"fxchart/internal/chart"
	"fxchart/internal/domain"
	"fxchart/internal/ports"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// wheelDeltaScale converts one wheel notch into scroll pixels.
const wheelDeltaScale = 40.0

var statusColor = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}

// loadResult carries an asynchronous load outcome from the worker goroutine
// to Update. The dataset is applied to the chart there, never on the worker,
// so all chart mutation stays on the game goroutine.
type loadResult struct {
	dataset *domain.Dataset
	err     error
}

// App is the windowing shell around one chart instance: it implements
// ebiten.Game, translates platform input into controller events, drives the
// frame tick, and hands off asynchronous load results to the chart on the
// game goroutine so all chart mutation stays single-threaded.
type App struct {
	logger  ports.Logger
	chart   *chart.Chart
	surface *Surface
	service *app.Service

	loadCh  chan loadResult
	loading bool
	loadErr error

	width  int
	height int

	cursorInside bool
	lastCX       int
	lastCY       int
}

// Config holds the shell dependencies.
type Config struct {
	Logger  ports.Logger
	Chart   *chart.Chart
	Surface *Surface
	Service *app.Service
	Width   int
	Height  int
}

// NewApp creates the shell.
func NewApp(cfg Config) (*App, error) {
	if cfg.Logger == nil || cfg.Chart == nil || cfg.Surface == nil || cfg.Service == nil {
		return nil, fmt.Errorf("missing required dependencies for app shell: %w", ports.ErrConfigurationError)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("window dimensions must be positive: %w", ports.ErrConfigurationError)
	}
	return &App{
		logger:  cfg.Logger,
		chart:   cfg.Chart,
		surface: cfg.Surface,
		service: cfg.Service,
		loadCh:  make(chan loadResult, 1),
		width:   cfg.Width,
		height:  cfg.Height,
	}, nil
}

// StartLoad kicks off an asynchronous load. The result is applied inside
// Update; while pending the shell shows a loading state and routes no
// chart-area input.
func (a *App) StartLoad(ctx context.Context, address string) {
	if a.loading {
		return
	}
	a.loading = true
	a.loadErr = nil
	a.logger.Info(ctx, "Loading chart data", map[string]interface{}{"address": address})

	go func() {
		dataset, err := a.service.Load(ctx, address)
		a.loadCh <- loadResult{dataset: dataset, err: err}
	}()
}

// Update drains pending load results and translates input events. Runs on
// the single game goroutine, as does Draw, so the chart needs no locking.
func (a *App) Update() error {
	select {
	case result := <-a.loadCh:
		a.loading = false
		a.loadErr = result.err
		if result.err != nil {
			a.logger.Error(context.Background(), result.err, "Chart data load failed")
		} else {
			a.chart.LoadData(result.dataset)
		}
	default:
	}

	if a.loading {
		return nil
	}
	a.handleInput()
	return nil
}

func (a *App) handleInput() {
	ctrl := a.chart.Controller()
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	inside := cx >= 0 && cy >= 0 && cx < a.width && cy < a.height
	if a.cursorInside && !inside {
		ctrl.PointerLeave()
	}
	a.cursorInside = inside

	if inside {
		if _, wy := ebiten.Wheel(); wy != 0 {
			modifier := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
			// Controller convention: wheel up is a negative delta.
			ctrl.Wheel(x, y, -wy*wheelDeltaScale, modifier)
		}

		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			ctrl.PointerDown(x, y)
		}
		if cx != a.lastCX || cy != a.lastCY {
			ctrl.PointerMove(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			ctrl.PointerUp()
		}
	}

	a.lastCX, a.lastCY = cx, cy
}

// Draw paints the chart raster (repainted only when dirty) and the status
// line for loading and error states.
func (a *App) Draw(screen *ebiten.Image) {
	a.chart.RenderFrame()
	screen.DrawImage(a.surface.Image(), nil)

	switch {
	case a.loading:
		a.drawStatus(screen, "Loading chart data...")
	case a.loadErr != nil:
		a.drawStatus(screen, fmt.Sprintf("Load failed: %v", a.loadErr))
	}
}

func (a *App) drawStatus(screen *ebiten.Image, msg string) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(10, 10)
	op.ColorScale.ScaleWithColor(statusColor)
	text.Draw(screen, msg, a.surface.Face(), op)
}

// Layout reports the logical screen size and applies window resizes to the
// surface and chart synchronously.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != a.width || outsideHeight != a.height) {
		a.width = outsideWidth
		a.height = outsideHeight
		a.surface.Resize(outsideWidth, outsideHeight)
		a.chart.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return a.width, a.height
}
