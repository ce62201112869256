package ledger

import (
	"regexp"
	"testing"
)

var referencePattern = regexp.MustCompile(`^TRX-[0-9A-F]{8}$`)

func TestNewReferenceFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := NewReference()
		if !referencePattern.MatchString(ref) {
			t.Fatalf("reference %q does not match %s", ref, referencePattern)
		}
	}
}

func TestNewReferenceDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := NewReference()
		if seen[ref] {
			t.Fatalf("duplicate reference %q after %d draws", ref, i)
		}
		seen[ref] = true
	}
}
