package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/catalinplesu/timesheet/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		active        *domain.TrackingSession
		requested     domain.ActivityState
		wantKind      OutcomeKind
		wantClose     bool
	}{
		{
			name:      "idle user starting any activity opens a new session",
			active:    nil,
			requested: domain.StateWorking,
			wantKind:  OutcomeStartNew,
		},
		{
			name:      "toggling the same state as the active session ends it",
			active:    domain.NewTrackingSession("s1", "u1", domain.StateWorking, time.Now(), nil),
			requested: domain.StateWorking,
			wantKind:  OutcomeEndActive,
		},
		{
			name:      "switching to a different state closes the active session and opens a new one",
			active:    domain.NewTrackingSession("s1", "u1", domain.StateWorking, time.Now(), nil),
			requested: domain.StateLunch,
			wantKind:  OutcomeStartNew,
			wantClose: true,
		},
		{
			name:      "invalid requested activity is a no-op",
			active:    nil,
			requested: domain.ActivityState("sleeping"),
			wantKind:  OutcomeNoChange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.active, tt.requested)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantClose, got.CloseExisting)
			if tt.wantKind == OutcomeStartNew {
				assert.Equal(t, tt.requested, got.NewState)
			}
		})
	}
}

func TestInferDirection(t *testing.T) {
	tests := []struct {
		name          string
		sameDayStates []domain.ActivityState
		want          domain.CommuteDirection
	}{
		{
			name:          "no prior activity today is the first commute, to work",
			sameDayStates: nil,
			want:          domain.DirectionToWork,
		},
		{
			name:          "prior commute with no working session is still to work",
			sameDayStates: []domain.ActivityState{domain.StateCommuting},
			want:          domain.DirectionToWork,
		},
		{
			name:          "a working session earlier today makes the next commute to home",
			sameDayStates: []domain.ActivityState{domain.StateCommuting, domain.StateWorking},
			want:          domain.DirectionToHome,
		},
		{
			name:          "lunch without a working session does not flip direction",
			sameDayStates: []domain.ActivityState{domain.StateCommuting, domain.StateLunch},
			want:          domain.DirectionToWork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferDirection(tt.sameDayStates))
		})
	}
}

func TestResolveOutcomeFillsDirectionOnlyForCommuting(t *testing.T) {
	o := Outcome{Kind: OutcomeStartNew, NewState: domain.StateCommuting}
	resolved := ResolveOutcome(o, []domain.ActivityState{domain.StateWorking})
	if assert.NotNil(t, resolved.NewDirection) {
		assert.Equal(t, domain.DirectionToHome, *resolved.NewDirection)
	}

	notCommuting := Outcome{Kind: OutcomeStartNew, NewState: domain.StateWorking}
	resolved = ResolveOutcome(notCommuting, []domain.ActivityState{domain.StateWorking})
	assert.Nil(t, resolved.NewDirection)
}
