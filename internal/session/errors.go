package session

import "errors"

var (
	// ErrClientVersion rejects session starts from outdated or patched clients.
	ErrClientVersion = errors.New("client version mismatch")
	// ErrSessionNotFound covers both unknown ids and sessions that are no
	// longer active; a finalized session is not discoverable, so a second
	// finalize attempt surfaces as not-found.
	ErrSessionNotFound = errors.New("active session not found")
	// ErrChecksumMismatch means the event log does not hash to the supplied
	// checksum: the data was corrupted or tampered with in transit.
	ErrChecksumMismatch = errors.New("game data has been tampered with")
)

// PlausibilityError is the verifier's rejection with its specific reason.
// It is deliberately a distinct type from ErrChecksumMismatch so clients can
// tell "corrupted data" apart from "impossible gameplay".
type PlausibilityError struct {
	Reason string
}

func (e *PlausibilityError) Error() string {
	return "invalid gameplay: " + e.Reason
}
