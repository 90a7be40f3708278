package game

import (
	"time"

	"flappy-game/internal/models"
)

// EventPassPipe is the scoring event of the stock game client.
const EventPassPipe = "PASS_PIPE"

// Policy holds the tunable thresholds of the gameplay verifier. The scoring
// event set and the tolerance are client-mechanics specific, so they are
// configuration rather than constants.
type Policy struct {
	MinDuration    time.Duration
	MaxEventGap    time.Duration
	ScoreTolerance int
	ScoringEvents  map[string]struct{}
}

// DefaultPolicy matches the stock Flappy Bird client: at least 5 seconds of
// play, no silent gaps above 10 seconds, one point per passed pipe, and a
// one-point tolerance for the boundary race at submission time.
func DefaultPolicy() Policy {
	return Policy{
		MinDuration:    5 * time.Second,
		MaxEventGap:    10 * time.Second,
		ScoreTolerance: 1,
		ScoringEvents:  map[string]struct{}{EventPassPipe: {}},
	}
}

// Result is the verifier's verdict. Reason is set only when Valid is false.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func invalid(reason string) Result { return Result{Valid: false, Reason: reason} }

// Verify judges whether an event log plausibly produces the claimed score.
// Rules run in order and the first failure short-circuits:
//
//  1. the log must be non-empty,
//  2. the session must span at least MinDuration,
//  3. timestamps must be non-decreasing with no gap above MaxEventGap,
//  4. the score accumulated from scoring events must match the claim
//     within ScoreTolerance.
//
// This is a cheap heuristic filter for impossible submissions, not a
// cryptographic proof; it deliberately avoids simulating game physics.
func (p Policy) Verify(events []models.GameEvent, claimedScore int) Result {
	if len(events) == 0 {
		return invalid("No game events recorded")
	}

	duration := time.Duration(events[len(events)-1].Timestamp-events[0].Timestamp) * time.Millisecond
	if duration < p.MinDuration {
		return invalid("Game duration too short")
	}

	calculatedScore := 0
	lastEventTime := events[0].Timestamp

	for _, e := range events {
		if e.Timestamp < lastEventTime {
			return invalid("Invalid event sequence")
		}
		if gap := time.Duration(e.Timestamp-lastEventTime) * time.Millisecond; gap > p.MaxEventGap {
			return invalid("Suspicious time gap between events")
		}
		if _, scoring := p.ScoringEvents[e.Type]; scoring {
			calculatedScore++
		}
		lastEventTime = e.Timestamp
	}

	diff := calculatedScore - claimedScore
	if diff < 0 {
		diff = -diff
	}
	if diff > p.ScoreTolerance {
		return invalid("Score mismatch with events")
	}

	return Result{Valid: true}
}
