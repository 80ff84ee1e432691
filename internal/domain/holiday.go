package domain

import "time"

// HolidayType tags the reason a holiday is excluded from compliance.
type HolidayType string

const (
	HolidayVacation HolidayType = "vacation"
	HolidaySick     HolidayType = "sick"
	HolidayPublic   HolidayType = "public"
)

// Holiday is a half-open local-date interval [StartDate, EndDate) excluded
// from compliance evaluation (spec §3).
type Holiday struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	Type        HolidayType `json:"type"`
	Description *string     `json:"description,omitempty"`
}

// Covers reports whether the half-open interval [StartDate, EndDate)
// contains the given local date.
func (h *Holiday) Covers(localDate time.Time) bool {
	return !localDate.Before(h.StartDate) && localDate.Before(h.EndDate)
}
