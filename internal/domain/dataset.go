package domain

import "math"

// PriceRange is the [Min, Max] of low/high values used to scale the vertical
// axis. An empty dataset yields the {+Inf, -Inf} sentinel, which renderers
// must treat as "nothing to draw".
type PriceRange struct {
	Min float64
	Max float64
}

// TimeRange holds the first and last bar timestamps of a dataset.
type TimeRange struct {
	Start int64
	End   int64
}

// Dataset is an immutable, time-ascending sequence of normalized bars with
// precomputed global price extrema. Range queries are linear in the size of
// the requested slice.
//
// Precondition: bars must already be sorted ascending by absolute timestamp.
// The dataset does not re-sort.
type Dataset struct {
	bars     []NormalizedBar
	minPrice float64
	maxPrice float64
}

// NewDataset normalizes every bar of the raw chunk against its start offset
// and computes the global extrema once.
func NewDataset(raw *RawDataset) *Dataset {
	bars := make([]NormalizedBar, 0, len(raw.Bars))
	for _, b := range raw.Bars {
		bars = append(bars, NormalizeBar(b, raw.ChunkStart))
	}
	return NewDatasetFromBars(bars)
}

// NewDatasetFromBars builds a dataset from already-normalized bars, e.g. bars
// served back from the cache.
func NewDatasetFromBars(bars []NormalizedBar) *Dataset {
	ds := &Dataset{
		bars:     bars,
		minPrice: math.Inf(1),
		maxPrice: math.Inf(-1),
	}
	for _, b := range bars {
		ds.minPrice = math.Min(ds.minPrice, b.Low)
		ds.maxPrice = math.Max(ds.maxPrice, b.High)
	}
	return ds
}

// Bars returns the full bar sequence. Callers must not mutate it.
func (d *Dataset) Bars() []NormalizedBar {
	return d.bars
}

// VisibleBars returns the contiguous sub-sequence for
// [max(0, start), min(len, end)). Empty if the clamped range is empty.
func (d *Dataset) VisibleBars(start, end int) []NormalizedBar {
	if start < 0 {
		start = 0
	}
	if end > len(d.bars) {
		end = len(d.bars)
	}
	if start >= end {
		return nil
	}
	return d.bars[start:end]
}

// PriceRange returns the min low / max high over the visible slice. An empty
// slice falls back to the global extrema, so an empty dataset yields the
// {+Inf, -Inf} sentinel.
func (d *Dataset) PriceRange(start, end int) PriceRange {
	visible := d.VisibleBars(start, end)
	if len(visible) == 0 {
		return PriceRange{Min: d.minPrice, Max: d.maxPrice}
	}

	pr := PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, b := range visible {
		pr.Min = math.Min(pr.Min, b.Low)
		pr.Max = math.Max(pr.Max, b.High)
	}
	return pr
}

// BarCount returns the number of bars in the dataset.
func (d *Dataset) BarCount() int {
	return len(d.bars)
}

// TimeRange returns the first and last bar timestamps, or {0, 0} when empty.
func (d *Dataset) TimeRange() TimeRange {
	if len(d.bars) == 0 {
		return TimeRange{}
	}
	return TimeRange{
		Start: d.bars[0].Timestamp,
		End:   d.bars[len(d.bars)-1].Timestamp,
	}
}
