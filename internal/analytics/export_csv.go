package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// ExportDailyCSV writes the daily breakdown for [from, to] as CSV, one row
// per date. A supplemental export surface beyond the core analytics
// operations, for taking a window's numbers outside the system.
func (e *Engine) ExportDailyCSV(ctx context.Context, w io.Writer, user *domain.User, from, to time.Time) error {
	rows, err := e.DailyBreakdown(ctx, user, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"date", "work_hours", "commute_to_work_hours", "commute_to_home_hours", "lunch_hours", "office_span_hours", "idle_hours", "has_activity"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", roundHours(r.WorkHours)),
			fmt.Sprintf("%.2f", roundHours(r.CommuteToWorkHours)),
			fmt.Sprintf("%.2f", roundHours(r.CommuteToHomeHours)),
			fmt.Sprintf("%.2f", roundHours(r.LunchHours)),
			optionalHours(r.OfficeSpanHours),
			optionalHours(r.IdleHours),
			fmt.Sprintf("%t", r.HasActivity),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalHours(h *float64) string {
	if h == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", roundHours(*h))
}
