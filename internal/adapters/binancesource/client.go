package binancesource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"fxchart/internal/domain"
	"fxchart/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	defaultLimit = 500
	maxLimit     = 1500
)

// Client implements ports.BarSource against the Binance futures kline API,
// so a chart can be pointed straight at an exchange symbol instead of a
// pre-exported chunk file. Addresses look like
//
//	binance://ETHUSDT/1m?limit=500
//
// Only public endpoints are used; no API keys are required.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration for the Binance bar source.
type Config struct {
	Logger ports.Logger
}

// New creates a new Binance bar source.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance source: %w", ports.ErrConfigurationError)
	}
	return &Client{
		futuresClient: futures.NewClient("", ""),
		logger:        cfg.Logger,
	}, nil
}

// FetchBars retrieves klines for the addressed symbol/interval and returns
// them as a single raw chunk whose start offset is the first kline's open
// time, matching the wire format of exported chunk files.
func (c *Client) FetchBars(ctx context.Context, address string) ([]*domain.RawDataset, error) {
	symbol, interval, limit, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "Fetching klines", map[string]interface{}{"symbol": symbol, "interval": interval, "limit": limit})

	klines, err := c.futuresClient.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, "FetchBars")
	}
	if len(klines) == 0 {
		return nil, fmt.Errorf("no klines returned for %s %s: %w", symbol, interval, ports.ErrNoData)
	}

	chunk, err := translateKlines(klines)
	if err != nil {
		return nil, c.handleError(ctx, err, "FetchBars")
	}
	return []*domain.RawDataset{chunk}, nil
}

// translateKlines converts exchange klines to one raw chunk with
// chunk-relative time offsets in seconds.
func translateKlines(klines []*futures.Kline) (*domain.RawDataset, error) {
	if klines[0] == nil {
		return nil, errors.New("received nil kline")
	}
	chunkStart := klines[0].OpenTime / 1000
	chunk := &domain.RawDataset{
		ChunkStart: chunkStart,
		Bars:       make([]domain.RawBar, 0, len(klines)),
	}

	for _, bk := range klines {
		if bk == nil {
			return nil, errors.New("received nil kline")
		}
		open, err := strconv.ParseFloat(bk.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing open price '%s': %w", bk.Open, err)
		}
		high, err := strconv.ParseFloat(bk.High, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing high price '%s': %w", bk.High, err)
		}
		low, err := strconv.ParseFloat(bk.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing low price '%s': %w", bk.Low, err)
		}
		cls, err := strconv.ParseFloat(bk.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing close price '%s': %w", bk.Close, err)
		}

		chunk.Bars = append(chunk.Bars, domain.RawBar{
			Time:       bk.OpenTime/1000 - chunkStart,
			Open:       open,
			High:       high,
			Low:        low,
			Close:      cls,
			TickVolume: bk.TradeNum,
		})
	}
	return chunk, nil
}

// parseAddress splits "binance://SYMBOL/INTERVAL?limit=N".
func parseAddress(address string) (symbol, interval string, limit int, err error) {
	u, err := url.Parse(address)
	if err != nil || u.Scheme != "binance" {
		return "", "", 0, fmt.Errorf("bad binance address %q: %w", address, ports.ErrUnknownScheme)
	}

	symbol = strings.ToUpper(u.Host)
	interval = strings.Trim(u.Path, "/")
	if symbol == "" || interval == "" {
		return "", "", 0, fmt.Errorf("binance address %q needs symbol and interval: %w", address, ports.ErrUnknownScheme)
	}

	limit = defaultLimit
	if raw := u.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxLimit {
			return "", "", 0, fmt.Errorf("binance address %q has a bad limit %q: %w", address, raw, ports.ErrUnknownScheme)
		}
	}
	return symbol, interval, limit, nil
}

// handleError maps exchange API failures onto the standard error taxonomy
// and logs the original.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var mappedErr error
	var apiErr *common.APIError
	switch {
	case errors.Is(err, context.Canceled):
		mappedErr = ports.ErrContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		mappedErr = ports.ErrTimeout
	case errors.As(err, &apiErr):
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message
		if apiErr.Code == -1003 { // rate limited
			mappedErr = ports.ErrSourceUnavailable
		} else {
			mappedErr = ports.ErrFetchFailed
		}
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "connection reset by peer"),
		strings.Contains(err.Error(), "no such host"):
		mappedErr = ports.ErrFetchFailed
	default:
		// Adapter-internal failures, e.g. unparseable kline fields.
		mappedErr = ports.ErrUnknown
	}

	c.logger.Error(ctx, err, "Binance source operation failed", fields)
	return fmt.Errorf("%s: %v: %w", operation, err, mappedErr)
}
