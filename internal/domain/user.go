package domain

import "github.com/google/uuid"

// User is the single stable identity TimeSheet tracks. Settings are a flat,
// nullable record on the entity rather than a plugin registry, so new
// optional settings stay backward compatible (spec §9).
type User struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"externalId"`
	IsAdmin    bool   `json:"isAdmin"`

	// UTCOffsetMinutes converts a UTC instant to the user's local time.
	// Range: -720..840 (spec §3).
	UTCOffsetMinutes int `json:"utcOffsetMinutes"`

	MaxWorkHours    *float64 `json:"maxWorkHours,omitempty"`
	MaxCommuteHours *float64 `json:"maxCommuteHours,omitempty"`
	MaxLunchHours   *float64 `json:"maxLunchHours,omitempty"`

	LunchReminderHour   *int `json:"lunchReminderHour,omitempty"`
	LunchReminderMinute *int `json:"lunchReminderMinute,omitempty"`

	TargetWorkHours   *float64 `json:"targetWorkHours,omitempty"`
	TargetOfficeHours *float64 `json:"targetOfficeHours,omitempty"`

	// ForgotShutdownThresholdPercent, when set, must exceed 100.
	ForgotShutdownThresholdPercent *float64 `json:"forgotShutdownThresholdPercent,omitempty"`
}

// NewUser creates a User for first-time registration.
func NewUser(externalID int64, utcOffsetMinutes int) *User {
	return &User{
		ID:               uuid.New().String(),
		ExternalID:       externalID,
		UTCOffsetMinutes: utcOffsetMinutes,
	}
}

// CapFor returns the configured absolute-hours cap for the given state, if
// any, used by the auto-shutdown worker (spec §4.4.1).
func (u *User) CapFor(state ActivityState) *float64 {
	switch state {
	case StateCommuting:
		return u.MaxCommuteHours
	case StateWorking:
		return u.MaxWorkHours
	case StateLunch:
		return u.MaxLunchHours
	default:
		return nil
	}
}

// HasLunchReminder reports whether the user configured a reminder time.
func (u *User) HasLunchReminder() bool {
	return u.LunchReminderHour != nil && u.LunchReminderMinute != nil
}

// SettingsPatch carries a partial update to a User's settings. Nil fields
// are left unchanged; validation runs over only the fields that are set.
type SettingsPatch struct {
	UTCOffsetMinutes *int `validate:"omitempty,min=-720,max=840"`

	MaxWorkHours    *float64 `validate:"omitempty,gt=0"`
	MaxCommuteHours *float64 `validate:"omitempty,gt=0"`
	MaxLunchHours   *float64 `validate:"omitempty,gt=0"`

	LunchReminderHour   *int `validate:"omitempty,min=0,max=23"`
	LunchReminderMinute *int `validate:"omitempty,min=0,max=59"`
	// LunchReminderOff, when true, clears both reminder fields.
	LunchReminderOff bool

	TargetWorkHours   *float64 `validate:"omitempty,gt=0"`
	TargetOfficeHours *float64 `validate:"omitempty,gt=0"`

	ForgotShutdownThresholdPercent *float64 `validate:"omitempty,gt=100"`
}

// Apply mutates u in place with the fields set on the patch.
func (p *SettingsPatch) Apply(u *User) {
	if p.UTCOffsetMinutes != nil {
		u.UTCOffsetMinutes = *p.UTCOffsetMinutes
	}
	if p.MaxWorkHours != nil {
		u.MaxWorkHours = p.MaxWorkHours
	}
	if p.MaxCommuteHours != nil {
		u.MaxCommuteHours = p.MaxCommuteHours
	}
	if p.MaxLunchHours != nil {
		u.MaxLunchHours = p.MaxLunchHours
	}
	if p.LunchReminderOff {
		u.LunchReminderHour = nil
		u.LunchReminderMinute = nil
	} else {
		if p.LunchReminderHour != nil {
			u.LunchReminderHour = p.LunchReminderHour
		}
		if p.LunchReminderMinute != nil {
			u.LunchReminderMinute = p.LunchReminderMinute
		}
	}
	if p.TargetWorkHours != nil {
		u.TargetWorkHours = p.TargetWorkHours
	}
	if p.TargetOfficeHours != nil {
		u.TargetOfficeHours = p.TargetOfficeHours
	}
	if p.ForgotShutdownThresholdPercent != nil {
		u.ForgotShutdownThresholdPercent = p.ForgotShutdownThresholdPercent
	}
}
