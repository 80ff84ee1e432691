package tracking

import (
	"time"

	"github.com/catalinplesu/timesheet/internal/domain"
)

// TimeQualifier is the parsed shape of a toggle command's optional time
// argument (spec §6's "-m N / +m N / HH:MM"; parsing the raw text is the
// Dispatch adapter's job, out of scope here - this is the already-parsed
// contract the core accepts).
type TimeQualifier struct {
	// MinuteOffset, when non-nil, is a signed minute delta from now
	// ("-m N" => negative, "+m N" => positive).
	MinuteOffset *int
	// AbsoluteLocalHHMM, when non-nil, is 24-hour local time applied to
	// today's local date.
	AbsoluteLocalHHMM *string
}

// ResolveTimestamp turns a TimeQualifier (or none) into an effective UTC
// timestamp, per spec §4.1. now is the caller's wall-clock UTC time;
// utcOffsetMinutes is the user's configured offset; bound is the maximum
// allowed absolute distance from now (default 12h, spec §4.1).
func ResolveTimestamp(q *TimeQualifier, now time.Time, utcOffsetMinutes int, bound time.Duration) (time.Time, error) {
	t := now

	switch {
	case q == nil:
		// no qualifier: t stays now
	case q.MinuteOffset != nil && q.AbsoluteLocalHHMM != nil:
		return time.Time{}, domain.NewError(domain.KindInvalidRequest, "exactly one time qualifier may appear")
	case q.MinuteOffset != nil:
		t = now.Add(time.Duration(*q.MinuteOffset) * time.Minute)
	case q.AbsoluteLocalHHMM != nil:
		resolved, err := resolveAbsoluteLocal(*q.AbsoluteLocalHHMM, now, utcOffsetMinutes)
		if err != nil {
			return time.Time{}, err
		}
		t = resolved
	}

	dist := t.Sub(now)
	if dist < 0 {
		dist = -dist
	}
	if dist > bound {
		return time.Time{}, domain.NewError(domain.KindInvalidRequest, "offset exceeds allowed bound")
	}

	return t, nil
}

// resolveAbsoluteLocal converts "HH:MM" local time on today's local date to
// UTC. If the resulting UTC instant is in the future relative to now, it
// wraps back one local day (spec §9's Open Question, resolved: wrap back).
func resolveAbsoluteLocal(hhmm string, now time.Time, utcOffsetMinutes int) (time.Time, error) {
	var hour, minute int
	if _, err := parseHHMM(hhmm, &hour, &minute); err != nil {
		return time.Time{}, domain.NewError(domain.KindInvalidRequest, "malformed HH:MM time")
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, domain.NewError(domain.KindInvalidRequest, "HH:MM out of range")
	}

	offset := time.Duration(utcOffsetMinutes) * time.Minute
	localNow := now.Add(offset)
	localCandidate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), hour, minute, 0, 0, time.UTC)
	utcCandidate := localCandidate.Add(-offset)

	if utcCandidate.After(now) {
		utcCandidate = utcCandidate.Add(-24 * time.Hour)
	}

	return utcCandidate, nil
}

// parseHHMM parses "HH:MM" without pulling in a time-layout dependency for
// a two-field split; this keeps malformed input (extra characters, missing
// colon) rejected explicitly rather than accepted loosely by time.Parse's
// layout inference.
func parseHHMM(s string, hour, minute *int) (bool, error) {
	colon := -1
	for i, c := range s {
		if c == ':' {
			colon = i
			break
		}
	}
	if colon < 0 || colon == 0 || colon == len(s)-1 {
		return false, domain.NewError(domain.KindInvalidRequest, "malformed HH:MM time")
	}
	h, err := atoiStrict(s[:colon])
	if err != nil {
		return false, err
	}
	m, err := atoiStrict(s[colon+1:])
	if err != nil {
		return false, err
	}
	*hour, *minute = h, m
	return true, nil
}

func atoiStrict(s string) (int, error) {
	if s == "" {
		return 0, domain.NewError(domain.KindInvalidRequest, "malformed numeric component")
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, domain.NewError(domain.KindInvalidRequest, "malformed numeric component")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
