package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Payload Errors
	ErrInvalidFormat = errors.New("invalid data format")
	ErrNoData        = errors.New("no data chunks found")

	// Source Specific Errors
	ErrSourceUnavailable = errors.New("data source is unavailable")
	ErrFetchFailed       = errors.New("failed to fetch data from source")
	ErrUnknownScheme     = errors.New("unrecognized source address scheme")

	// Chart Errors
	ErrSurfaceUnavailable = errors.New("drawing surface is unavailable")
	ErrChartDestroyed     = errors.New("chart instance has been destroyed")

	// Cache Specific Errors
	ErrCacheMiss    = errors.New("no cached bars for source")
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")
)
