package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// BucketSize names the grain chart data is aggregated at (spec §4.3.4).
type BucketSize string

const (
	BucketDay   BucketSize = "day"
	BucketWeek  BucketSize = "week"
	BucketMonth BucketSize = "month"
	BucketYear  BucketSize = "year"
)

// ChartBucket is one time-series point (spec §4.3.4). Buckets with no
// sessions are still emitted, zeroed.
type ChartBucket struct {
	BucketStart  time.Time
	WorkHours    float64
	CommuteHours float64
	LunchHours   float64
	TotalSpan    time.Duration
	Idle         time.Duration
}

// ChartData buckets closed sessions over [from, to] by size, local to the
// user's offset (spec §4.3.4).
func (e *Engine) ChartData(ctx context.Context, user *domain.User, size BucketSize, from, to time.Time) ([]ChartBucket, error) {
	windowStart := from.Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)
	windowEnd := to.AddDate(0, 0, 1).Add(-time.Duration(user.UTCOffsetMinutes) * time.Minute)

	sessions, err := e.db.Sessions().Range(ctx, user.ID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load sessions for chart data: %w", err)
	}

	starts := bucketStarts(dateOnly(from), dateOnly(to), size)
	bucketIndex := make(map[time.Time]int, len(starts))
	for i, s := range starts {
		bucketIndex[s] = i
	}
	buckets := make([]ChartBucket, len(starts))
	for i, s := range starts {
		buckets[i] = ChartBucket{BucketStart: s}
	}

	minStart := make([]*time.Time, len(starts))
	maxEnd := make([]*time.Time, len(starts))

	for _, s := range sessions {
		if s.EndedAt == nil {
			continue
		}
		local := s.LocalDate(user.UTCOffsetMinutes)
		key := bucketStartFor(local, size)
		idx, ok := bucketIndex[key]
		if !ok {
			continue
		}
		hours := s.Duration().Hours()
		switch s.State {
		case domain.StateWorking:
			buckets[idx].WorkHours += hours
		case domain.StateCommuting:
			buckets[idx].CommuteHours += hours
		case domain.StateLunch:
			buckets[idx].LunchHours += hours
		}
		if minStart[idx] == nil || s.StartedAt.Before(*minStart[idx]) {
			t := s.StartedAt
			minStart[idx] = &t
		}
		if maxEnd[idx] == nil || s.EndedAt.After(*maxEnd[idx]) {
			t := *s.EndedAt
			maxEnd[idx] = &t
		}
	}

	for i := range buckets {
		if minStart[i] == nil || maxEnd[i] == nil {
			continue
		}
		buckets[i].TotalSpan = maxEnd[i].Sub(*minStart[i])
		sum := time.Duration(buckets[i].WorkHours*float64(time.Hour)) +
			time.Duration(buckets[i].CommuteHours*float64(time.Hour)) +
			time.Duration(buckets[i].LunchHours*float64(time.Hour))
		idle := buckets[i].TotalSpan - sum
		if idle < 0 {
			idle = 0
		}
		buckets[i].Idle = idle
	}

	return buckets, nil
}

// bucketStarts enumerates every distinct bucket start covering [from, to].
func bucketStarts(from, to time.Time, size BucketSize) []time.Time {
	var out []time.Time
	seen := map[time.Time]bool{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := bucketStartFor(d, size)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// bucketStartFor returns the canonical start date of the bucket containing
// the given local date.
func bucketStartFor(d time.Time, size BucketSize) time.Time {
	switch size {
	case BucketWeek:
		// ISO week starts Monday.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case BucketMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case BucketYear:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // BucketDay
		return d
	}
}
