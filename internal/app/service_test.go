package app

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxchart/internal/chart"
	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (noopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type noopSurface struct{}

func (noopSurface) Size() (float64, float64)                                     { return 880, 530 }
func (noopSurface) FillRect(x, y, w, h float64, c color.RGBA)                    {}
func (noopSurface) StrokeLine(x1, y1, x2, y2, strokeWidth float64, c color.RGBA) {}
func (noopSurface) DrawText(s string, x, y float64, align ports.TextAlign, c color.RGBA) {
}

// stubPayloadSource records the address it was asked for and replies with a
// fixed payload or error.
type stubPayloadSource struct {
	payload json.RawMessage
	err     error
	gotAddr string
}

func (s *stubPayloadSource) Fetch(ctx context.Context, address string) (json.RawMessage, error) {
	s.gotAddr = address
	return s.payload, s.err
}

type stubBarSource struct {
	chunks []*domain.RawDataset
	err    error
}

func (s *stubBarSource) FetchBars(ctx context.Context, address string) ([]*domain.RawDataset, error) {
	return s.chunks, s.err
}

type stubCache struct {
	bars    []domain.NormalizedBar
	loadErr error
	saveErr error
	saved   []domain.NormalizedBar
}

func (s *stubCache) SaveBars(ctx context.Context, source string, bars []domain.NormalizedBar) error {
	s.saved = bars
	return s.saveErr
}

func (s *stubCache) LoadBars(ctx context.Context, source string) ([]domain.NormalizedBar, error) {
	return s.bars, s.loadErr
}

func (s *stubCache) Close() error { return nil }

func newTestChart(t *testing.T) *chart.Chart {
	t.Helper()
	c, err := chart.New(chart.Config{
		Surface: noopSurface{},
		Width:   880,
		Height:  530,
		Render:  chart.DefaultRenderConfig(),
		Logger:  noopLogger{},
	})
	require.NoError(t, err)
	return c
}

func validPayload() json.RawMessage {
	return json.RawMessage(`{"ChunkStart": 1700000000, "Bars": [
		{"Time": 0, "Open": 1.1, "High": 1.2, "Low": 1.0, "Close": 1.15, "TickVolume": 10}
	]}`)
}

func TestNewService_Validation(t *testing.T) {
	chrt := newTestChart(t)
	src := &stubPayloadSource{payload: validPayload()}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing logger", Config{FileSource: src, Chart: chrt}},
		{"missing chart", Config{Logger: noopLogger{}, FileSource: src}},
		{"no sources at all", Config{Logger: noopLogger{}, Chart: chrt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.cfg)
			assert.ErrorIs(t, err, ports.ErrConfigurationError)
		})
	}
}

func TestService_LoadRoutesByScheme(t *testing.T) {
	httpSrc := &stubPayloadSource{payload: validPayload()}
	fileSrc := &stubPayloadSource{payload: validPayload()}

	svc, err := NewService(Config{
		Logger:     noopLogger{},
		HTTPSource: httpSrc,
		FileSource: fileSrc,
		Chart:      newTestChart(t),
	})
	require.NoError(t, err)

	ds, err := svc.Load(context.Background(), "https://example.com/bars.json")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.BarCount())
	assert.Equal(t, "https://example.com/bars.json", httpSrc.gotAddr)
	assert.Empty(t, fileSrc.gotAddr)

	ds, err = svc.Load(context.Background(), "data/eurusd_chunks.json")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.BarCount())
	assert.Equal(t, "data/eurusd_chunks.json", fileSrc.gotAddr)
}

// Load runs on a worker goroutine in the shell, so it must only build and
// return the dataset; applying it to the chart is the event goroutine's job.
func TestService_LoadDoesNotTouchChart(t *testing.T) {
	chrt := newTestChart(t)
	svc, err := NewService(Config{
		Logger:     noopLogger{},
		FileSource: &stubPayloadSource{payload: validPayload()},
		Chart:      chrt,
	})
	require.NoError(t, err)

	ds, err := svc.Load(context.Background(), "data/bars.json")
	require.NoError(t, err)
	require.NotNil(t, ds)
	assert.False(t, chrt.HasData())

	chrt.LoadData(ds)
	assert.True(t, chrt.HasData())
}

func TestService_LoadBinanceScheme(t *testing.T) {
	t.Run("merges fetched chunks", func(t *testing.T) {
		svc, err := NewService(Config{
			Logger: noopLogger{},
			BarSource: &stubBarSource{chunks: []*domain.RawDataset{
				{ChunkStart: 100, Bars: []domain.RawBar{{Time: 0, Open: 1, High: 2, Low: 0.5, Close: 1.5}}},
				{ChunkStart: 100, Bars: []domain.RawBar{{Time: 60, Open: 1.5, High: 2.5, Low: 1, Close: 2}}},
			}},
			Chart: newTestChart(t),
		})
		require.NoError(t, err)

		ds, err := svc.Load(context.Background(), "binance://ETHUSDT/1m?limit=2")
		require.NoError(t, err)
		require.Equal(t, 2, ds.BarCount())
		assert.Equal(t, int64(160), ds.Bars()[1].Timestamp)
	})

	t.Run("scheme without a bar source", func(t *testing.T) {
		svc, err := NewService(Config{
			Logger:     noopLogger{},
			FileSource: &stubPayloadSource{payload: validPayload()},
			Chart:      newTestChart(t),
		})
		require.NoError(t, err)

		_, err = svc.Load(context.Background(), "binance://ETHUSDT/1m")
		assert.ErrorIs(t, err, ports.ErrUnknownScheme)
	})
}

func TestService_LoadSavesToCache(t *testing.T) {
	cache := &stubCache{}
	svc, err := NewService(Config{
		Logger:     noopLogger{},
		FileSource: &stubPayloadSource{payload: validPayload()},
		Cache:      cache,
		Chart:      newTestChart(t),
	})
	require.NoError(t, err)

	_, err = svc.Load(context.Background(), "data/bars.json")
	require.NoError(t, err)
	require.Len(t, cache.saved, 1)
	assert.Equal(t, int64(1700000000), cache.saved[0].Timestamp)
}

func TestService_LoadFallsBackToCache(t *testing.T) {
	fetchErr := errors.New("connection refused")

	t.Run("cache hit serves stale bars", func(t *testing.T) {
		svc, err := NewService(Config{
			Logger:     noopLogger{},
			FileSource: &stubPayloadSource{err: fetchErr},
			Cache:      &stubCache{bars: []domain.NormalizedBar{{Timestamp: 100, Open: 1, High: 2, Low: 1, Close: 2}}},
			Chart:      newTestChart(t),
		})
		require.NoError(t, err)

		ds, err := svc.Load(context.Background(), "data/bars.json")
		require.NoError(t, err)
		require.Equal(t, 1, ds.BarCount())
		assert.Equal(t, int64(100), ds.Bars()[0].Timestamp)
	})

	t.Run("cache miss propagates the fetch error", func(t *testing.T) {
		svc, err := NewService(Config{
			Logger:     noopLogger{},
			FileSource: &stubPayloadSource{err: fetchErr},
			Cache:      &stubCache{loadErr: ports.ErrCacheMiss},
			Chart:      newTestChart(t),
		})
		require.NoError(t, err)

		_, err = svc.Load(context.Background(), "data/bars.json")
		assert.ErrorIs(t, err, fetchErr)
	})

	t.Run("no cache configured propagates the fetch error", func(t *testing.T) {
		svc, err := NewService(Config{
			Logger:     noopLogger{},
			FileSource: &stubPayloadSource{err: fetchErr},
			Chart:      newTestChart(t),
		})
		require.NoError(t, err)

		_, err = svc.Load(context.Background(), "data/bars.json")
		assert.ErrorIs(t, err, fetchErr)
	})
}

func TestService_LoadInvalidPayload(t *testing.T) {
	svc, err := NewService(Config{
		Logger:     noopLogger{},
		FileSource: &stubPayloadSource{payload: json.RawMessage(`{"oops": true}`)},
		Chart:      newTestChart(t),
	})
	require.NoError(t, err)

	ds, err := svc.Load(context.Background(), "data/bars.json")
	assert.ErrorIs(t, err, ports.ErrInvalidFormat)
	assert.Nil(t, ds)

	// A later load with good data is unaffected by the earlier failure.
	svc2, err := NewService(Config{
		Logger:     noopLogger{},
		FileSource: &stubPayloadSource{payload: validPayload()},
		Chart:      newTestChart(t),
	})
	require.NoError(t, err)
	ds, err = svc2.Load(context.Background(), "data/bars.json")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.BarCount())
}

func TestService_LoadAfterChartDestroy(t *testing.T) {
	chrt := newTestChart(t)
	svc, err := NewService(Config{
		Logger:     noopLogger{},
		FileSource: &stubPayloadSource{payload: validPayload()},
		Chart:      chrt,
	})
	require.NoError(t, err)

	chrt.Destroy()
	_, err = svc.Load(context.Background(), "data/bars.json")
	assert.ErrorIs(t, err, ports.ErrChartDestroyed)
}

func TestService_LoadSaveFailureIsNotFatal(t *testing.T) {
	svc, err := NewService(Config{
		Logger:     noopLogger{},
		FileSource: &stubPayloadSource{payload: validPayload()},
		Cache:      &stubCache{saveErr: errors.New("disk full")},
		Chart:      newTestChart(t),
	})
	require.NoError(t, err)

	ds, err := svc.Load(context.Background(), "data/bars.json")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.BarCount())
}
