package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fxchart/config"
	"fxchart/internal/adapters/binancesource"
	"fxchart/internal/adapters/logger"
	"fxchart/internal/app"
	"fxchart/internal/domain"
	"fxchart/internal/utils"
)

// fetchbars downloads klines from Binance and writes them as a chunk file the
// viewer can load offline, plus a CSV export for inspection.
func main() {
	symbol := flag.String("symbol", "ETHUSDT", "symbol to fetch")
	interval := flag.String("interval", "1m", "kline interval (e.g. 1m, 1h)")
	limit := flag.Int("limit", 500, "number of bars to fetch")
	outDir := flag.String("out", "data", "output directory")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Binance source
	source, err := binancesource.New(binancesource.Config{Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance source: %v", err)
	}

	address := fmt.Sprintf("binance://%s/%s?limit=%d", *symbol, *interval, *limit)
	fmt.Printf("Fetching %d bars for %s %s...\n", *limit, *symbol, *interval)

	chunks, err := source.FetchBars(context.Background(), address)
	if err != nil {
		appLogger.Error(context.Background(), err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}

	merged, err := app.MergeChunks(chunks)
	if err != nil {
		appLogger.Error(context.Background(), err, "Error merging chunks")
		log.Fatalf("Error merging chunks: %v", err)
	}
	appLogger.Info(context.Background(), "Fetched bars", map[string]interface{}{"count": len(merged.Bars)})

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	// Chunk file in the viewer's payload format.
	chunkFile := filepath.Join(*outDir, fmt.Sprintf("%s_%s_chunks.json", *symbol, *interval))
	payload, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding chunks: %v", err)
	}
	if err := os.WriteFile(chunkFile, payload, 0644); err != nil {
		appLogger.Error(context.Background(), err, "Error writing chunk file")
		log.Fatalf("Error writing chunk file: %v", err)
	}
	appLogger.Info(context.Background(), "Saved chunk file", map[string]interface{}{"filename": chunkFile})

	// CSV export of the normalized bars.
	csvFile := filepath.Join(*outDir, fmt.Sprintf("%s_%s.csv", *symbol, *interval))
	if err := utils.WriteBarsToCSV(domain.NewDataset(merged).Bars(), csvFile); err != nil {
		appLogger.Error(context.Background(), err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(context.Background(), "Saved CSV", map[string]interface{}{"filename": csvFile})
}
