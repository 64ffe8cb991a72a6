package domain

import "testing"

func TestNormalizeBar(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawBar
		chunkStart int64
		wantTS     int64
	}{
		{
			name:       "offset added to chunk start",
			raw:        RawBar{Time: 3600, Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15, TickVolume: 42},
			chunkStart: 1700000000,
			wantTS:     1700003600,
		},
		{
			name:       "zero offset is the chunk start itself",
			raw:        RawBar{Time: 0},
			chunkStart: 1700000000,
			wantTS:     1700000000,
		},
		{
			name:       "negative offset is passed through",
			raw:        RawBar{Time: -60},
			chunkStart: 1700000000,
			wantTS:     1699999940,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBar(tt.raw, tt.chunkStart)
			if got.Timestamp != tt.wantTS {
				t.Errorf("Timestamp = %d, want %d", got.Timestamp, tt.wantTS)
			}
			if got.Open != tt.raw.Open || got.High != tt.raw.High ||
				got.Low != tt.raw.Low || got.Close != tt.raw.Close {
				t.Errorf("prices not carried over: got %+v from %+v", got, tt.raw)
			}
			if got.Volume != tt.raw.TickVolume {
				t.Errorf("Volume = %d, want %d", got.Volume, tt.raw.TickVolume)
			}
		})
	}
}
