package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewReference returns a human-facing proof-of-payment code like TRX-9F3A01BC:
// a stable prefix plus 32 bits of randomness, shown as uppercase hex.
func NewReference() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "TRX-" + strings.ToUpper(hex.EncodeToString(b))
}
