package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"flappy-game/internal/models"
)

// EventsChecksum computes the integrity digest over an ordered event log.
// Each event is canonicalized as "<timestamp>-<type>-<json(data)>", the
// canonical strings are joined with "|" and the result is sha256-hashed.
// Any change to an event's timestamp, type, payload, or to the order or
// number of events produces a different digest. This detects tampering in
// transit only; plausibility is the verifier's job.
func EventsChecksum(events []models.GameEvent) string {
	var buf bytes.Buffer
	for i, e := range events {
		if i > 0 {
			buf.WriteByte('|')
		}
		buf.WriteString(strconv.FormatInt(e.Timestamp, 10))
		buf.WriteByte('-')
		buf.WriteString(e.Type)
		buf.WriteByte('-')
		buf.Write(canonicalData(e.Data))
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// canonicalData compacts the raw payload JSON so that insignificant
// whitespace introduced by transport re-encoding does not change the digest.
// Field order is preserved as serialized by the client.
func canonicalData(data []byte) []byte {
	if len(data) == 0 {
		return []byte("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}
