package collector

import (
	"sync"
	"time"
)

// OutcomeCollector is the single consumer of terminal outcomes for a batch.
type OutcomeCollector struct {
	GlobalStat     GlobalStatistic
	ResponseStatus map[string]int // status classes and failure kinds with their count
	StatChannel    chan *OutcomeEntry
}

func CreateOutcomeCollector() *OutcomeCollector {
	return &OutcomeCollector{
		StatChannel:    make(chan *OutcomeEntry),
		ResponseStatus: make(map[string]int),
	}
}

func (o *OutcomeCollector) GetGlobalStats() *GlobalStatistic {
	return &o.GlobalStat
}

// Consume drains StatChannel until Finished is called.
func (o *OutcomeCollector) Consume(wg *sync.WaitGroup) {
	defer wg.Done()
	start := time.Now()
	var total time.Duration
	for entry := range o.StatChannel {
		o.GlobalStat.TotalRequest++
		if entry.Merged {
			o.GlobalStat.Merged++
		} else {
			o.GlobalStat.Rejected++
		}
		o.ResponseStatus[statusClass(entry)]++
		total += entry.Duration
	}
	o.GlobalStat.TotalDuration = time.Since(start)
	if o.GlobalStat.TotalRequest > 0 {
		o.GlobalStat.AverageDuration = total / time.Duration(o.GlobalStat.TotalRequest)
	}
}

func (o *OutcomeCollector) Finished() {
	close(o.StatChannel)
}

func statusClass(entry *OutcomeEntry) string {
	code := entry.ResponseCode
	switch {
	case code == 0:
		if entry.Kind == "" {
			return "other"
		}
		return entry.Kind
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	case code < 600:
		return "5xx"
	default:
		return "other"
	}
}
