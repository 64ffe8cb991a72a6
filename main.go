package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"fxchart/config"
	"fxchart/internal/adapters/binancesource"
	"fxchart/internal/adapters/ebitenui"
	"fxchart/internal/adapters/filesource"
	"fxchart/internal/adapters/httpsource"
	"fxchart/internal/adapters/logger"
	"fxchart/internal/adapters/sqlite"
	"fxchart/internal/app"
	"fxchart/internal/chart"
	"fxchart/internal/ports"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Bar Cache (SQLite Adapter)
	var cache ports.BarCache
	if cfg.CacheEnabled {
		sqliteCache, err := sqlite.NewCache(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize bar cache")
			log.Fatalf("FATAL: Failed to initialize bar cache: %v", err)
		}
		defer func() {
			if err := sqliteCache.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing bar cache")
			}
		}()
		cache = sqliteCache
	}

	// 4. Initialize Data Sources
	httpSource, err := httpsource.New(httpsource.Config{
		Timeout: cfg.HTTPTimeout,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize HTTP source: %v", err)
	}
	fileSource, err := filesource.New(appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize file source: %v", err)
	}
	barSource, err := binancesource.New(binancesource.Config{Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance source: %v", err)
	}

	// 5. Initialize Drawing Surface and Chart
	surface, err := ebitenui.NewSurface(cfg.WindowWidth, cfg.WindowHeight)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to acquire drawing surface")
		log.Fatalf("FATAL: Failed to acquire drawing surface: %v", err)
	}
	chrt, err := chart.New(chart.Config{
		Surface: surface,
		Width:   float64(cfg.WindowWidth),
		Height:  float64(cfg.WindowHeight),
		Render:  cfg.Render,
		Logger:  appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to construct chart")
		log.Fatalf("FATAL: Failed to construct chart: %v", err)
	}
	defer chrt.Destroy()

	// 6. Initialize Load Service
	service, err := app.NewService(app.Config{
		Logger:     appLogger,
		HTTPSource: httpSource,
		FileSource: fileSource,
		BarSource:  barSource,
		Cache:      cache,
		Chart:      chrt,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize load service: %v", err)
	}

	// 7. Run the windowing shell
	shell, err := ebitenui.NewApp(ebitenui.Config{
		Logger:  appLogger,
		Chart:   chrt,
		Surface: surface,
		Service: service,
		Width:   cfg.WindowWidth,
		Height:  cfg.WindowHeight,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize app shell: %v", err)
	}
	shell.StartLoad(context.Background(), cfg.Source)

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("fxchart")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(shell); err != nil {
		appLogger.Error(context.Background(), err, "Shell exited with error")
		log.Fatalf("Shell exited with error: %v", err)
	}
	appLogger.Info(context.Background(), "Shutdown complete")
}
