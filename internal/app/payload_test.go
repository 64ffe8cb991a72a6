package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxchart/internal/domain"
	"fxchart/internal/ports"
)

func TestParsePayload_SingleChunk(t *testing.T) {
	payload := json.RawMessage(`{
		"ChunkStart": 1700000000,
		"Bars": [
			{"Time": 0, "Open": 1.1, "High": 1.2, "Low": 1.0, "Close": 1.15, "TickVolume": 10},
			{"Time": 60, "Open": 1.15, "High": 1.3, "Low": 1.1, "Close": 1.25, "TickVolume": 7}
		]
	}`)

	chunk, err := ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), chunk.ChunkStart)
	require.Len(t, chunk.Bars, 2)
	assert.Equal(t, int64(60), chunk.Bars[1].Time)
	assert.Equal(t, 1.25, chunk.Bars[1].Close)
}

func TestParsePayload_ChunkArrayMerges(t *testing.T) {
	payload := json.RawMessage(`[
		{"ChunkStart": 100, "Bars": [{"Time": 0, "Open": 1, "High": 1, "Low": 1, "Close": 1, "TickVolume": 1}]},
		{"ChunkStart": 100, "Bars": [{"Time": 60, "Open": 2, "High": 2, "Low": 2, "Close": 2, "TickVolume": 2}]}
	]`)

	chunk, err := ParsePayload(payload)
	require.NoError(t, err)

	// The first chunk's start is canonical, so normalized timestamps land at
	// 100 and 160.
	ds := domain.NewDataset(chunk)
	require.Equal(t, 2, ds.BarCount())
	assert.Equal(t, int64(100), ds.Bars()[0].Timestamp)
	assert.Equal(t, int64(160), ds.Bars()[1].Timestamp)
}

func TestParsePayload_ArrayDiscardsInvalidChunks(t *testing.T) {
	payload := json.RawMessage(`[
		{"ChunkStart": "not a number", "Bars": []},
		{"ChunkStart": 500, "Bars": [{"Time": 0, "Open": 1, "High": 2, "Low": 0.5, "Close": 1.5, "TickVolume": 3}]},
		{"Bars": []}
	]`)

	chunk, err := ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(500), chunk.ChunkStart)
	require.Len(t, chunk.Bars, 1)
	assert.Equal(t, 1.5, chunk.Bars[0].Close)
}

func TestParsePayload_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"empty array", `[]`, ports.ErrNoData},
		{"all chunks invalid", `[{"ChunkStart": "x", "Bars": []}, 42]`, ports.ErrNoData},
		{"non-object payload", `"just a string"`, ports.ErrInvalidFormat},
		{"chunk start wrong type", `{"ChunkStart": "not a number", "Bars": []}`, ports.ErrInvalidFormat},
		{"chunk start missing", `{"Bars": []}`, ports.ErrInvalidFormat},
		{"bars missing", `{"ChunkStart": 100}`, ports.ErrInvalidFormat},
		{"bar missing a field", `{"ChunkStart": 100, "Bars": [{"Time": 0, "Open": 1, "High": 1, "Low": 1, "Close": 1}]}`, ports.ErrInvalidFormat},
		{"bar field wrong type", `{"ChunkStart": 100, "Bars": [{"Time": "0", "Open": 1, "High": 1, "Low": 1, "Close": 1, "TickVolume": 1}]}`, ports.ErrInvalidFormat},
		{"truncated array", `[{"ChunkStart": 100`, ports.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(json.RawMessage(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParsePayload_EmptyBarsIsValid(t *testing.T) {
	// An empty but well-formed Bars array is a valid chunk; whether zero bars
	// is acceptable is decided downstream.
	chunk, err := ParsePayload(json.RawMessage(`{"ChunkStart": 100, "Bars": []}`))
	require.NoError(t, err)
	assert.Empty(t, chunk.Bars)
}

func TestMergeChunks(t *testing.T) {
	t.Run("no chunks", func(t *testing.T) {
		_, err := MergeChunks(nil)
		assert.ErrorIs(t, err, ports.ErrNoData)
	})

	t.Run("concatenates in input order", func(t *testing.T) {
		merged, err := MergeChunks([]*domain.RawDataset{
			{ChunkStart: 10, Bars: []domain.RawBar{{Time: 0}, {Time: 60}}},
			{ChunkStart: 9999, Bars: []domain.RawBar{{Time: 120}}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), merged.ChunkStart)
		require.Len(t, merged.Bars, 3)
		assert.Equal(t, int64(120), merged.Bars[2].Time)
	})
}
