package game

import (
	"encoding/json"
	"testing"

	"flappy-game/internal/models"
)

func TestEventsChecksumDeterministic(t *testing.T) {
	events := []models.GameEvent{
		{Timestamp: 1000, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":1}`)},
		{Timestamp: 2500, Type: "FLAP", Data: json.RawMessage(`{"y":120}`)},
		{Timestamp: 4000, Type: "GAME_END", Data: json.RawMessage(`null`)},
	}

	first := EventsChecksum(events)
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
	for i := 0; i < 10; i++ {
		if got := EventsChecksum(events); got != first {
			t.Fatalf("checksum changed between runs: %s vs %s", got, first)
		}
	}
}

func TestEventsChecksumDetectsMutation(t *testing.T) {
	base := []models.GameEvent{
		{Timestamp: 1000, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":1}`)},
		{Timestamp: 2500, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":2}`)},
	}
	want := EventsChecksum(base)

	mutations := map[string][]models.GameEvent{
		"timestamp": {
			{Timestamp: 1001, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":1}`)},
			base[1],
		},
		"type": {
			{Timestamp: 1000, Type: "FLAP", Data: json.RawMessage(`{"pipe":1}`)},
			base[1],
		},
		"payload": {
			{Timestamp: 1000, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":9}`)},
			base[1],
		},
		"order":   {base[1], base[0]},
		"dropped": {base[0]},
		"added": {
			base[0], base[1],
			{Timestamp: 3000, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":3}`)},
		},
	}

	for name, events := range mutations {
		if got := EventsChecksum(events); got == want {
			t.Errorf("mutation %q did not change the checksum", name)
		}
	}
}

func TestEventsChecksumWhitespaceInsensitive(t *testing.T) {
	compact := []models.GameEvent{{Timestamp: 1000, Type: EventPassPipe, Data: json.RawMessage(`{"pipe":1}`)}}
	spaced := []models.GameEvent{{Timestamp: 1000, Type: EventPassPipe, Data: json.RawMessage(`{ "pipe": 1 }`)}}

	if EventsChecksum(compact) != EventsChecksum(spaced) {
		t.Error("re-encoded whitespace should not change the checksum")
	}
}

func TestEventsChecksumMissingPayload(t *testing.T) {
	withNull := []models.GameEvent{{Timestamp: 1000, Type: "GAME_END", Data: json.RawMessage(`null`)}}
	withNone := []models.GameEvent{{Timestamp: 1000, Type: "GAME_END"}}

	if EventsChecksum(withNull) != EventsChecksum(withNone) {
		t.Error("absent payload should canonicalize to null")
	}
}
