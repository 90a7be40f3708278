package game

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"flappy-game/pkg/crypto"
)

// GenerateSessionToken derives an unforgeable session id for one play
// attempt. The id is a sha256 digest over the user id, the current unix-ms
// timestamp and a 16-byte random nonce, so it is unique with overwhelming
// probability and cannot be predicted by the client.
func GenerateSessionToken(userID string) (sessionID string, timestamp int64, err error) {
	timestamp = time.Now().UnixMilli()

	nonce, err := crypto.RandomHex(16)
	if err != nil {
		return "", 0, err
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d-%s", userID, timestamp, nonce)))
	return hex.EncodeToString(sum[:]), timestamp, nil
}
