package domain

// RawBar is a single bar as it appears on the wire: a time offset relative to
// its chunk's start, prices, and tick volume.
type RawBar struct {
	Time       int64   `json:"Time"`
	Open       float64 `json:"Open"`
	High       float64 `json:"High"`
	Low        float64 `json:"Low"`
	Close      float64 `json:"Close"`
	TickVolume int64   `json:"TickVolume"`
}

// RawDataset is one fetched chunk of bars sharing a common start offset.
type RawDataset struct {
	ChunkStart int64    `json:"ChunkStart"`
	Bars       []RawBar `json:"Bars"`
}

// NormalizedBar is a bar with an absolute timestamp, ready for charting.
// For a well-formed bar Low <= min(Open, Close) <= max(Open, Close) <= High;
// this is not enforced here, malformed input is passed through.
type NormalizedBar struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// NormalizeBar converts a wire bar to its absolute-timestamp form using the
// chunk's start offset. Pure arithmetic, no failure mode.
func NormalizeBar(raw RawBar, chunkStart int64) NormalizedBar {
	return NormalizedBar{
		Timestamp: chunkStart + raw.Time,
		Open:      raw.Open,
		High:      raw.High,
		Low:       raw.Low,
		Close:     raw.Close,
		Volume:    raw.TickVolume,
	}
}
