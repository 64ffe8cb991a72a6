package app

import (
	"encoding/json"
	"fmt"

	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

// Wire shapes with pointer fields so a missing key is distinguishable from a
// zero value, and a wrong JSON type surfaces as an unmarshal error.
type rawBarWire struct {
	Time       *int64   `json:"Time"`
	Open       *float64 `json:"Open"`
	High       *float64 `json:"High"`
	Low        *float64 `json:"Low"`
	Close      *float64 `json:"Close"`
	TickVolume *int64   `json:"TickVolume"`
}

type rawDatasetWire struct {
	ChunkStart *int64        `json:"ChunkStart"`
	Bars       *[]rawBarWire `json:"Bars"`
}

// ParsePayload validates a decoded JSON payload and returns the single chunk
// it describes. An object payload must itself be a valid chunk; an array
// payload is treated as a list of chunks where invalid entries are discarded
// and the survivors merged (MergeChunks). Shape failures map to
// ports.ErrInvalidFormat, an empty or all-invalid chunk list to ports.ErrNoData.
func ParsePayload(raw json.RawMessage) (*domain.RawDataset, error) {
	if isJSONArray(raw) {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("payload is not a valid chunk array: %w", ports.ErrInvalidFormat)
		}
		if len(elems) == 0 {
			return nil, fmt.Errorf("payload contains an empty chunk array: %w", ports.ErrNoData)
		}
		var valid []*domain.RawDataset
		for _, elem := range elems {
			chunk, err := decodeChunk(elem)
			if err != nil {
				continue
			}
			valid = append(valid, chunk)
		}
		return MergeChunks(valid)
	}

	return decodeChunk(raw)
}

// MergeChunks concatenates the bars of all chunks in input order, using the
// first chunk's start offset as the canonical reference. It does not re-sort;
// time ordering across chunks is the caller's responsibility.
func MergeChunks(chunks []*domain.RawDataset) (*domain.RawDataset, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no valid data chunks: %w", ports.ErrNoData)
	}

	merged := &domain.RawDataset{ChunkStart: chunks[0].ChunkStart}
	for _, chunk := range chunks {
		merged.Bars = append(merged.Bars, chunk.Bars...)
	}
	return merged, nil
}

// decodeChunk validates one chunk: an object with a numeric ChunkStart and a
// Bars array whose every record carries all six numeric fields.
func decodeChunk(raw json.RawMessage) (*domain.RawDataset, error) {
	var wire rawDatasetWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("chunk is not a well-formed object: %w", ports.ErrInvalidFormat)
	}
	if wire.ChunkStart == nil {
		return nil, fmt.Errorf("chunk is missing a numeric ChunkStart: %w", ports.ErrInvalidFormat)
	}
	if wire.Bars == nil {
		return nil, fmt.Errorf("chunk is missing a Bars array: %w", ports.ErrInvalidFormat)
	}

	chunk := &domain.RawDataset{
		ChunkStart: *wire.ChunkStart,
		Bars:       make([]domain.RawBar, 0, len(*wire.Bars)),
	}
	for i, bar := range *wire.Bars {
		if bar.Time == nil || bar.Open == nil || bar.High == nil ||
			bar.Low == nil || bar.Close == nil || bar.TickVolume == nil {
			return nil, fmt.Errorf("malformed bar record at index %d: %w", i, ports.ErrInvalidFormat)
		}
		chunk.Bars = append(chunk.Bars, domain.RawBar{
			Time:       *bar.Time,
			Open:       *bar.Open,
			High:       *bar.High,
			Low:        *bar.Low,
			Close:      *bar.Close,
			TickVolume: *bar.TickVolume,
		})
	}
	return chunk, nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}
