package ledger

import "math"

// ScoreFromCounts computes the 0-100 reliability score from a user's full
// payment history: the paid ratio as a rounded percentage, minus 5 points per
// late payment, clamped. Pending payments dilute the ratio but carry no extra
// penalty. A user with no payments starts at 100.
func ScoreFromCounts(total, paid, late int) int {
	if total == 0 {
		return 100
	}
	raw := int(math.Round(float64(paid)/float64(total)*100)) - late*5
	if raw < 0 {
		return 0
	}
	if raw > 100 {
		return 100
	}
	return raw
}
