package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/catalinplesu/timesheet/internal/analytics"
	"github.com/catalinplesu/timesheet/internal/domain"
	"github.com/catalinplesu/timesheet/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run read-only analytics reports against the store",
}

var (
	reportExternalID int64
	reportFrom       string
	reportTo         string
	dailyCSV         bool
)

func init() {
	for _, c := range []*cobra.Command{dailyCmd, statsCmd, complianceCmd, sessionsCmd} {
		c.Flags().Int64Var(&reportExternalID, "user", 0, "the user's external id")
		c.Flags().StringVar(&reportFrom, "from", "", "window start, YYYY-MM-DD (default: 6 days before --to, a 7-day window)")
		c.Flags().StringVar(&reportTo, "to", "", "window end, YYYY-MM-DD (default: today)")
		c.MarkFlagRequired("user")
	}
	dailyCmd.Flags().BoolVar(&dailyCSV, "csv", false, "write the daily breakdown as CSV to stdout instead of a table")
	reportCmd.AddCommand(dailyCmd, statsCmd, complianceCmd, sessionsCmd)
}

// resolveUserAndWindow loads the user by external id and parses the
// command's --from/--to flags, defaulting to the trailing 7 days.
func resolveUserAndWindow(cmd *cobra.Command) (*domain.User, time.Time, time.Time, error) {
	u, err := lookupUser(cmd)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	to := time.Now().UTC()
	if reportTo != "" {
		to, err = time.Parse("2006-01-02", reportTo)
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
	}
	from := to.AddDate(0, 0, -6)
	if reportFrom != "" {
		from, err = time.Parse("2006-01-02", reportFrom)
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	return u, from, to, nil
}

func lookupUser(cmd *cobra.Command) (*domain.User, error) {
	u, err := current.db.Users().GetByExternalID(cmd.Context(), reportExternalID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("no user registered with external id %d", reportExternalID)
	}
	return u, nil
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Per-day work, commute and lunch breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, from, to, err := resolveUserAndWindow(cmd)
		if err != nil {
			return err
		}

		if dailyCSV {
			if err := current.analytics.ExportDailyCSV(cmd.Context(), os.Stdout, user, from, to); err != nil {
				return fmt.Errorf("export daily csv: %w", err)
			}
			return nil
		}

		rows, err := current.analytics.DailyBreakdown(cmd.Context(), user, from, to)
		if err != nil {
			return fmt.Errorf("daily breakdown: %w", err)
		}

		headerColor.Printf("DAILY BREAKDOWN  %s .. %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Date", "Work", "Commute→Work", "Commute→Home", "Lunch", "Office Span", "Idle"})
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
		)
		table.SetBorder(false)
		for _, r := range rows {
			table.Append([]string{
				r.Date.Format("Mon 2006-01-02"),
				fmt.Sprintf("%.2fh", r.WorkHours),
				fmt.Sprintf("%.2fh", r.CommuteToWorkHours),
				fmt.Sprintf("%.2fh", r.CommuteToHomeHours),
				fmt.Sprintf("%.2fh", r.LunchHours),
				formatOptionalHours(r.OfficeSpanHours),
				formatOptionalHours(r.IdleHours),
			})
		}
		table.Render()
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate statistics over a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, from, to, err := resolveUserAndWindow(cmd)
		if err != nil {
			return err
		}
		stats, err := current.analytics.Aggregate(cmd.Context(), user, from, to)
		if err != nil {
			return fmt.Errorf("aggregate stats: %w", err)
		}

		headerColor.Printf("AGGREGATE STATS  %s .. %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Activity", "Total", "Avg", "Min", "Max", "StdDev", "Days"})
		table.SetBorder(false)
		appendStatRow(table, "Work", stats.Work)
		appendStatRow(table, "Commute→Work", stats.CommuteToWork)
		appendStatRow(table, "Commute→Home", stats.CommuteToHome)
		appendStatRow(table, "Lunch", stats.Lunch)
		table.Render()
		return nil
	},
}

func appendStatRow(table *tablewriter.Table, label string, s analytics.Stat) {
	table.Append([]string{
		label,
		fmt.Sprintf("%.2fh", s.Total),
		fmt.Sprintf("%.2fh", s.Avg),
		fmt.Sprintf("%.2fh", s.Min),
		fmt.Sprintf("%.2fh", s.Max),
		fmt.Sprintf("%.2fh", s.StdDev),
		strconv.Itoa(s.Count),
	})
}

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Evaluate enabled compliance rules over a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, from, to, err := resolveUserAndWindow(cmd)
		if err != nil {
			return err
		}
		report, err := current.analytics.EvaluateCompliance(cmd.Context(), user, from, to)
		if err != nil {
			return fmt.Errorf("evaluate compliance: %w", err)
		}

		headerColor.Printf("COMPLIANCE  %s .. %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		infoColor.Printf("%d day(s) evaluated, %d violation(s)\n", report.TotalDays, report.ViolationCount)
		if len(report.Violations) == 0 {
			successColor.Println("no violations")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Date", "Rule", "Actual", "Threshold", "Description"})
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.FgRedColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgRedColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgRedColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgRedColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgRedColor, tablewriter.Bold},
		)
		table.SetBorder(false)
		for _, v := range report.Violations {
			table.Append([]string{
				v.Date,
				string(v.RuleType),
				fmt.Sprintf("%.2fh", v.ActualHours),
				fmt.Sprintf("%.2fh", v.ThresholdHours),
				v.Description,
			})
		}
		table.Render()
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List raw sessions in a window, flagged for holiday membership",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, from, to, err := resolveUserAndWindow(cmd)
		if err != nil {
			return err
		}

		offset := time.Duration(user.UTCOffsetMinutes) * time.Minute
		windowStart := from.Add(-offset)
		windowEnd := to.AddDate(0, 0, 1).Add(-offset)

		rows, err := store.RangeWithHolidayFlag(cmd.Context(), current.db, user.ID, windowStart, windowEnd, user.UTCOffsetMinutes)
		if err != nil {
			return fmt.Errorf("range sessions: %w", err)
		}

		headerColor.Printf("SESSIONS  %s .. %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Date", "State", "Direction", "Start", "End", "Holiday"})
		table.SetBorder(false)
		for _, r := range rows {
			direction := "-"
			if r.CommuteDirection != nil {
				direction = string(*r.CommuteDirection)
			}
			end := "active"
			if r.EndedAt != nil {
				end = r.EndedAt.Format("15:04")
			}
			holiday := "-"
			if r.OnHoliday {
				holiday = "yes"
			}
			table.Append([]string{
				r.LocalDate(user.UTCOffsetMinutes).Format("2006-01-02"),
				string(r.State),
				direction,
				r.StartedAt.Format("15:04"),
				end,
				holiday,
			})
		}
		table.Render()
		return nil
	},
}

func formatOptionalHours(h *float64) string {
	if h == nil {
		return "-"
	}
	return fmt.Sprintf("%.2fh", *h)
}
