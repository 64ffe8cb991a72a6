package utils

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"fxchart/internal/domain"
)

// WriteBarsToCSV exports normalized bars for inspection in external tools.
func WriteBarsToCSV(bars []domain.NormalizedBar, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"timestamp", "time_utc", "open", "high", "low", "close", "volume"})

	for _, b := range bars {
		writer.Write([]string{
			strconv.FormatInt(b.Timestamp, 10),
			time.Unix(b.Timestamp, 0).UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	return writer.Error()
}
