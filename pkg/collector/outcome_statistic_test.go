package collector

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeCollectorCounts(t *testing.T) {
	c := CreateOutcomeCollector()
	var wg sync.WaitGroup
	wg.Add(1)
	go c.Consume(&wg)

	c.StatChannel <- &OutcomeEntry{Order: "apples", Merged: true, ResponseCode: 200, Duration: 10 * time.Millisecond}
	c.StatChannel <- &OutcomeEntry{Order: "oranges", ResponseCode: 500, Duration: 30 * time.Millisecond}
	c.StatChannel <- &OutcomeEntry{Order: "bananas", Kind: "transport", Duration: 20 * time.Millisecond}
	c.StatChannel <- &OutcomeEntry{Order: "carrots", ResponseCode: 302}
	c.Finished()
	wg.Wait()

	stats := c.GetGlobalStats()
	assert.Equal(t, 4, stats.TotalRequest)
	assert.Equal(t, 1, stats.Merged)
	assert.Equal(t, 3, stats.Rejected)
	assert.Equal(t, 15*time.Millisecond, stats.AverageDuration)
	assert.Equal(t, map[string]int{"2xx": 1, "5xx": 1, "transport": 1, "3xx": 1}, c.ResponseStatus)
}

func TestOutcomeCollectorEmpty(t *testing.T) {
	c := CreateOutcomeCollector()
	var wg sync.WaitGroup
	wg.Add(1)
	go c.Consume(&wg)
	c.Finished()
	wg.Wait()

	assert.Zero(t, c.GetGlobalStats().TotalRequest)
	assert.Zero(t, c.GetGlobalStats().AverageDuration)
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		entry OutcomeEntry
		want  string
	}{
		{OutcomeEntry{ResponseCode: 101}, "1xx"},
		{OutcomeEntry{ResponseCode: 204}, "2xx"},
		{OutcomeEntry{ResponseCode: 404}, "4xx"},
		{OutcomeEntry{ResponseCode: 503}, "5xx"},
		{OutcomeEntry{ResponseCode: 700}, "other"},
		{OutcomeEntry{Kind: "scratch"}, "scratch"},
		{OutcomeEntry{}, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusClass(&tt.entry))
	}
}
