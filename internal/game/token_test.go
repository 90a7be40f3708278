package game

import "testing"

func TestGenerateSessionTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, ts, err := GenerateSessionToken("user-1")
		if err != nil {
			t.Fatalf("GenerateSessionToken: %v", err)
		}
		if len(id) != 64 {
			t.Fatalf("expected 64 hex chars, got %d", len(id))
		}
		if ts <= 0 {
			t.Fatalf("expected positive timestamp, got %d", ts)
		}
		if seen[id] {
			t.Fatalf("duplicate session id after %d iterations", i)
		}
		seen[id] = true
	}
}

func TestGenerateSessionTokenDiffersAcrossUsers(t *testing.T) {
	a, _, err := GenerateSessionToken("user-a")
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := GenerateSessionToken("user-b")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("session ids for different users collided")
	}
}

func TestVerifyClientIntegrity(t *testing.T) {
	if !VerifyClientIntegrity("1.2.0", "1.2.0") {
		t.Error("matching versions rejected")
	}
	if VerifyClientIntegrity("1.1.9", "1.2.0") {
		t.Error("stale version accepted")
	}
	if VerifyClientIntegrity("", "1.2.0") {
		t.Error("empty version accepted")
	}
}
