package ports

import (
	"context"
	"encoding/json"

	"fxchart/internal/domain"
)

// PayloadSource fetches a raw chart payload from an opaque address and hands
// it back as decoded JSON. The source owns transport semantics (status codes,
// timeouts, retries); shape validation of the payload itself is the domain
// layer's job. A failure is fatal to the current load attempt only.
type PayloadSource interface {
	Fetch(ctx context.Context, address string) (json.RawMessage, error)
}

// BarSource fetches bar data that is already structured, bypassing the JSON
// payload format (e.g. an exchange API). Returned chunks follow the same
// merge rules as JSON payload chunks.
type BarSource interface {
	FetchBars(ctx context.Context, address string) ([]*domain.RawDataset, error)
}

// BarCache persists normalized bars keyed by the source address they were
// loaded from, so a previously seen dataset can be served when the source is
// unreachable. Lookup misses are reported as ErrCacheMiss.
type BarCache interface {
	// SaveBars replaces any cached bars for the address.
	SaveBars(ctx context.Context, address string, bars []domain.NormalizedBar) error
	// LoadBars returns the cached bars for the address in stored order.
	LoadBars(ctx context.Context, address string) ([]domain.NormalizedBar, error)
	// Close releases the underlying store.
	Close() error
}
