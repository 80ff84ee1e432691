package domain

// ComplianceRuleType distinguishes which employer policy a rule evaluates.
type ComplianceRuleType string

const (
	RuleMinimumOfficeHours ComplianceRuleType = "minimum_office_hours"
	RuleMinimumWorkHours   ComplianceRuleType = "minimum_work_hours"
	RuleCoreHoursPresence  ComplianceRuleType = "core_hours_presence"
)

// AnchorKind defines how a rule computes its clock-in/clock-out anchors.
type AnchorKind string

const (
	AnchorFirstSessionStart AnchorKind = "first_session_start"
	AnchorLastSessionEnd    AnchorKind = "last_session_end"
	AnchorFixedTime         AnchorKind = "fixed_time"
)

// ComplianceRule is a per-user, per-rule-type policy (spec §3).
type ComplianceRule struct {
	ID             string             `json:"id"`
	UserID         string             `json:"userId"`
	RuleType       ComplianceRuleType `json:"ruleType"`
	IsEnabled      bool               `json:"isEnabled"`
	ThresholdHours float64            `json:"thresholdHours"`

	ClockInAnchor  AnchorKind `json:"clockInAnchor"`
	ClockOutAnchor AnchorKind `json:"clockOutAnchor"`

	// FixedClockInHour/Minute and FixedClockOutHour/Minute apply only
	// when the corresponding anchor kind is AnchorFixedTime.
	FixedClockInHour    *int `json:"fixedClockInHour,omitempty"`
	FixedClockInMinute  *int `json:"fixedClockInMinute,omitempty"`
	FixedClockOutHour   *int `json:"fixedClockOutHour,omitempty"`
	FixedClockOutMinute *int `json:"fixedClockOutMinute,omitempty"`
}

// ComplianceViolation is one emitted record from evaluation (spec §4.3.5).
type ComplianceViolation struct {
	Date          string             `json:"date"` // YYYY-MM-DD local
	RuleType      ComplianceRuleType `json:"ruleType"`
	ActualHours   float64            `json:"actualHours"`
	ThresholdHours float64           `json:"thresholdHours"`
	Description   string             `json:"description"`
}

// ComplianceReport is the output of evaluating one window of rules.
type ComplianceReport struct {
	Violations      []ComplianceViolation `json:"violations"`
	TotalDays       int                   `json:"totalDays"`
	ViolationCount  int                   `json:"violationCount"`
}
