package game

import (
	"testing"

	"flappy-game/internal/models"
)

func ev(ts int64, typ string) models.GameEvent {
	return models.GameEvent{Timestamp: ts, Type: typ}
}

func TestVerifyGameplay(t *testing.T) {
	tests := []struct {
		name       string
		events     []models.GameEvent
		claimed    int
		wantValid  bool
		wantReason string
	}{
		{
			name:      "normal run",
			events:    []models.GameEvent{ev(0, EventPassPipe), ev(3000, EventPassPipe), ev(8000, "GAME_END")},
			claimed:   2,
			wantValid: true,
		},
		{
			name:       "no events",
			events:     nil,
			claimed:    0,
			wantValid:  false,
			wantReason: "No game events recorded",
		},
		{
			name:       "too short regardless of score",
			events:     []models.GameEvent{ev(0, EventPassPipe), ev(2000, EventPassPipe)},
			claimed:    5,
			wantValid:  false,
			wantReason: "Game duration too short",
		},
		{
			name:       "out of order",
			events:     []models.GameEvent{ev(0, EventPassPipe), ev(6000, EventPassPipe), ev(5000, EventPassPipe), ev(9000, "GAME_END")},
			claimed:    3,
			wantValid:  false,
			wantReason: "Invalid event sequence",
		},
		{
			name:       "suspicious gap",
			events:     []models.GameEvent{ev(0, EventPassPipe), ev(15000, EventPassPipe)},
			claimed:    2,
			wantValid:  false,
			wantReason: "Suspicious time gap between events",
		},
		{
			name:       "claimed score far above events",
			events:     []models.GameEvent{ev(0, EventPassPipe), ev(3000, EventPassPipe), ev(8000, "GAME_END")},
			claimed:    10,
			wantValid:  false,
			wantReason: "Score mismatch with events",
		},
		{
			name:      "score within tolerance",
			events:    []models.GameEvent{ev(0, EventPassPipe), ev(3000, EventPassPipe), ev(8000, "GAME_END")},
			claimed:   3,
			wantValid: true,
		},
		{
			name:      "non-scoring events ignored",
			events:    []models.GameEvent{ev(0, "FLAP"), ev(2000, "FLAP"), ev(4000, EventPassPipe), ev(7000, "FLAP"), ev(8000, "GAME_END")},
			claimed:   1,
			wantValid: true,
		},
		{
			name:      "duplicate timestamps allowed",
			events:    []models.GameEvent{ev(0, EventPassPipe), ev(3000, EventPassPipe), ev(3000, "FLAP"), ev(8000, "GAME_END")},
			claimed:   2,
			wantValid: true,
		},
	}

	policy := DefaultPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Verify(tt.events, tt.claimed)
			if got.Valid != tt.wantValid {
				t.Errorf("Verify() valid = %v, want %v (reason %q)", got.Valid, tt.wantValid, got.Reason)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Verify() reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestVerifyIsDeterministic(t *testing.T) {
	events := []models.GameEvent{ev(0, EventPassPipe), ev(3000, EventPassPipe), ev(8000, "GAME_END")}
	policy := DefaultPolicy()

	first := policy.Verify(events, 2)
	for i := 0; i < 100; i++ {
		if got := policy.Verify(events, 2); got != first {
			t.Fatalf("verdict changed between runs: %+v vs %+v", got, first)
		}
	}
}

func TestVerifyCustomPolicy(t *testing.T) {
	policy := Policy{
		MinDuration:    0,
		MaxEventGap:    DefaultPolicy().MaxEventGap,
		ScoreTolerance: 0,
		ScoringEvents:  map[string]struct{}{"COIN": {}},
	}

	events := []models.GameEvent{ev(0, "COIN"), ev(1000, "COIN")}
	if got := policy.Verify(events, 2); !got.Valid {
		t.Errorf("expected valid for exact match, got reason %q", got.Reason)
	}
	if got := policy.Verify(events, 3); got.Valid {
		t.Error("expected invalid with zero tolerance")
	}
}
