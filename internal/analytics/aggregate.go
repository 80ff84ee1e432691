package analytics

import (
	"context"
	"math"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// Stat is one activity's aggregate statistics over a window (spec §4.3.2).
type Stat struct {
	Avg    float64
	Min    float64
	Max    float64
	StdDev float64
	Total  float64
	Count  int
}

// AggregateStats is the per-activity Stat set produced by Aggregate.
type AggregateStats struct {
	Work           Stat
	CommuteToWork  Stat
	CommuteToHome  Stat
	Lunch          Stat
}

// Aggregate computes per-activity statistics over [from, to] (spec §4.3.2).
// Stats are taken over per-day totals, excluding days with a zero total for
// that activity from avg/min/max, but Total still sums every day.
func (e *Engine) Aggregate(ctx context.Context, user *domain.User, from, to time.Time) (*AggregateStats, error) {
	rows, err := e.DailyBreakdown(ctx, user, from, to)
	if err != nil {
		return nil, err
	}

	return &AggregateStats{
		Work:          statFrom(rows, func(r DailyRow) float64 { return r.WorkHours }),
		CommuteToWork: statFrom(rows, func(r DailyRow) float64 { return r.CommuteToWorkHours }),
		CommuteToHome: statFrom(rows, func(r DailyRow) float64 { return r.CommuteToHomeHours }),
		Lunch:         statFrom(rows, func(r DailyRow) float64 { return r.LunchHours }),
	}, nil
}

func statFrom(rows []DailyRow, pick func(DailyRow) float64) Stat {
	var s Stat
	var nonZero []float64
	for _, r := range rows {
		v := pick(r)
		s.Total += v
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	s.Count = len(nonZero)
	if s.Count == 0 {
		return s
	}

	s.Min, s.Max = nonZero[0], nonZero[0]
	var sum float64
	for _, v := range nonZero {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = sum / float64(s.Count)

	var sqDiff float64
	for _, v := range nonZero {
		d := v - s.Avg
		sqDiff += d * d
	}
	s.StdDev = math.Sqrt(sqDiff / float64(s.Count))

	return s
}
