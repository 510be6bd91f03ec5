package capture

import (
	"crypto/rand"
	"fmt"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newID builds a capture id: epoch millis plus a 9-character random suffix.
// Roughly time-ordered; the suffix carries the collision resistance.
func newID(now time.Time) string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), buf)
}
