package collector

import "time"

// OutcomeEntry is reported once per order when it reaches a terminal state.
type OutcomeEntry struct {
	Order        string
	Merged       bool
	ResponseCode int
	Kind         string // failure class when no response code is available
	Duration     time.Duration
}

type GlobalStatistic struct {
	TotalRequest    int
	Merged          int
	Rejected        int
	TotalDuration   time.Duration
	AverageDuration time.Duration
	ReadSize        int64
	WriteSize       int64
}
