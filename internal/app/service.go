package app

import (
	"context"
	"fmt"
	"strings"

	"fxchart/internal/chart"
	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

// binanceScheme routes an address to the structured bar source instead of the
// JSON payload path, e.g. "binance://ETHUSDT/1m?limit=500".
const binanceScheme = "binance://"

// Service implements the single inbound operation of the engine: load a chart
// dataset from an opaque source address. It routes the address to a source,
// validates and merges the payload, and consults the bar cache. The finished
// dataset is returned to the caller, never applied to the chart here: Load may
// run on a worker goroutine while all chart mutation must stay on the single
// event/render goroutine.
//
// Bars are trusted to arrive sorted ascending by absolute time; the service
// does not re-sort (documented precondition of domain.NewDataset).
type Service struct {
	logger     ports.Logger
	httpSource ports.PayloadSource
	fileSource ports.PayloadSource
	barSource  ports.BarSource
	cache      ports.BarCache
	chart      *chart.Chart
}

// Config holds the service dependencies. BarSource and Cache are optional;
// the corresponding address scheme and fallback are disabled when nil.
type Config struct {
	Logger     ports.Logger
	HTTPSource ports.PayloadSource
	FileSource ports.PayloadSource
	BarSource  ports.BarSource
	Cache      ports.BarCache
	Chart      *chart.Chart
}

// NewService creates the load service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Logger == nil || cfg.Chart == nil {
		return nil, fmt.Errorf("missing required dependencies for load service: %w", ports.ErrConfigurationError)
	}
	if cfg.HTTPSource == nil && cfg.FileSource == nil && cfg.BarSource == nil {
		return nil, fmt.Errorf("at least one data source is required: %w", ports.ErrConfigurationError)
	}

	return &Service{
		logger:     cfg.Logger,
		httpSource: cfg.HTTPSource,
		fileSource: cfg.FileSource,
		barSource:  cfg.BarSource,
		cache:      cfg.Cache,
		chart:      cfg.Chart,
	}, nil
}

// Load fetches, validates and merges the payload behind the address and
// builds the dataset. A failure is fatal to this load attempt only; the
// service keeps no bad state and a later Load is unaffected. When the source
// is unreachable but the cache holds bars for the address, those are served
// instead. The caller applies the returned dataset to the chart on the
// event/render goroutine.
func (s *Service) Load(ctx context.Context, address string) (*domain.Dataset, error) {
	if s.chart.Destroyed() {
		return nil, fmt.Errorf("cannot load %q: %w", address, ports.ErrChartDestroyed)
	}

	raw, err := s.fetchChunk(ctx, address)
	if err != nil {
		if ds := s.loadFromCache(ctx, address, err); ds != nil {
			return ds, nil
		}
		return nil, err
	}

	dataset := domain.NewDataset(raw)
	s.saveToCache(ctx, address, dataset)
	return dataset, nil
}

// fetchChunk routes the address to a source and returns the merged raw chunk.
func (s *Service) fetchChunk(ctx context.Context, address string) (*domain.RawDataset, error) {
	if strings.HasPrefix(address, binanceScheme) {
		if s.barSource == nil {
			return nil, fmt.Errorf("no bar source configured for %q: %w", address, ports.ErrUnknownScheme)
		}
		chunks, err := s.barSource.FetchBars(ctx, address)
		if err != nil {
			return nil, err
		}
		return MergeChunks(chunks)
	}

	var source ports.PayloadSource
	switch {
	case strings.HasPrefix(address, "http://"), strings.HasPrefix(address, "https://"):
		source = s.httpSource
	default:
		source = s.fileSource
	}
	if source == nil {
		return nil, fmt.Errorf("no source configured for %q: %w", address, ports.ErrUnknownScheme)
	}

	payload, err := source.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	return ParsePayload(payload)
}

// loadFromCache tries to serve a previously cached dataset after a fetch
// failure. Returns nil when the cache is absent or empty for the address.
func (s *Service) loadFromCache(ctx context.Context, address string, fetchErr error) *domain.Dataset {
	if s.cache == nil {
		return nil
	}
	bars, err := s.cache.LoadBars(ctx, address)
	if err != nil || len(bars) == 0 {
		return nil
	}
	s.logger.Info(ctx, "Source unavailable, serving cached bars",
		map[string]interface{}{"address": address, "bars": len(bars), "fetchError": fetchErr.Error()})
	return domain.NewDatasetFromBars(bars)
}

// saveToCache stores the freshly loaded bars, best effort.
func (s *Service) saveToCache(ctx context.Context, address string, dataset *domain.Dataset) {
	if s.cache == nil || dataset.BarCount() == 0 {
		return
	}
	if err := s.cache.SaveBars(ctx, address, dataset.Bars()); err != nil {
		s.logger.Warn(ctx, "Failed to cache bars", map[string]interface{}{"address": address, "error": err.Error()})
	}
}
