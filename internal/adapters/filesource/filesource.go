package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fxchart/internal/ports"
)

// Source implements ports.PayloadSource for local chunk files, e.g. the
// output of cmd/fetchbars. The address is a plain filesystem path.
type Source struct {
	logger ports.Logger
}

// New creates a file payload source.
func New(logger ports.Logger) (*Source, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for file source: %w", ports.ErrConfigurationError)
	}
	return &Source{logger: logger}, nil
}

// Fetch reads the file and verifies it holds well-formed JSON.
func (s *Source) Fetch(ctx context.Context, address string) (json.RawMessage, error) {
	data, err := os.ReadFile(address)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %v: %w", address, err, ports.ErrSourceUnavailable)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("file %q is not valid JSON: %w", address, ports.ErrInvalidFormat)
	}

	s.logger.Debug(ctx, "Payload read from file", map[string]interface{}{"address": address, "bytes": len(data)})
	return raw, nil
}
