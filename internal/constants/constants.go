package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	ImportTimeout   = 30 * time.Second
	ReportTimeout   = 30 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 500
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// header row must be within the first rows of an export
	HeaderScanRows = 10
	// and contain at least this many recognised columns
	HeaderMinMatches = 2
)

const (
	DefaultReportLimit = 50
)
