package constants

import "time"

const (
	LCUTimeout        = 5 * time.Second
	LCUUser           = "riot"
	LCUHost           = "127.0.0.1"
	FetchTimeout      = 30 * time.Second
	DefaultPollPeriod = 3 * time.Second
	ShutdownTimeout   = 5 * time.Second
)

const (
	DefaultHistorySize      = 20
	MaxHistorySize          = 100
	DefaultFetchConcurrency = 4
)

const (
	DBFileName          = "titles.db"
	DefaultAnalyzeModel = "claude-haiku-4-5-20251001"
)
