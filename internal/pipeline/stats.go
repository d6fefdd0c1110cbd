package pipeline

import (
	"sort"
	"sync"
	"time"
)

type parseSample struct {
	timestamp  time.Time
	durationUs int64
	articles   int
	rejected   bool
}

// StatsSnapshot aggregates recent legal.Parse calls.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Rejected int     `json:"rejected"`
	Articles int     `json:"articles"`
	MinUs    int64   `json:"min_us"`
	MaxUs    int64   `json:"max_us"`
	AvgUs    float64 `json:"avg_us"`
	P50Us    float64 `json:"p50_us"`
	P95Us    float64 `json:"p95_us"`
	P99Us    float64 `json:"p99_us"`
}

// ParseStats tracks parse latency and outcomes within a rolling window.
type ParseStats struct {
	mu      sync.Mutex
	samples []parseSample
	maxAge  time.Duration
}

func NewParseStats(maxAge time.Duration) *ParseStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ParseStats{
		samples: make([]parseSample, 0, 256),
		maxAge:  maxAge,
	}
}

func (s *ParseStats) Record(d time.Duration, articles int, rejected bool) {
	us := d.Microseconds()
	if us < 0 {
		us = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, parseSample{
		timestamp:  now,
		durationUs: us,
		articles:   articles,
		rejected:   rejected,
	})
}

func (s *ParseStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{Count: len(s.samples)}
	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationUs)
		sum += sm.durationUs
		snap.Articles += sm.articles
		if sm.rejected {
			snap.Rejected++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.MinUs = values[0]
	snap.MaxUs = values[len(values)-1]
	snap.AvgUs = float64(sum) / float64(len(values))
	snap.P50Us = percentile(values, 50)
	snap.P95Us = percentile(values, 95)
	snap.P99Us = percentile(values, 99)
	return snap
}

func (s *ParseStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := s.samples[:0]
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			keep = append(keep, sm)
		}
	}
	s.samples = keep
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
