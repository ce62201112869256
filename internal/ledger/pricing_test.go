package ledger

import (
	"errors"
	"testing"
)

func TestPriceLot(t *testing.T) {
	cases := []struct {
		name     string
		price    int
		duration int
		deposit  int
		monthly  int
	}{
		{"standard lot over 24 months", 500000, 24, 50000, 18750},
		{"uneven split rounds up", 100001, 12, 10001, 7500},
		{"premium lot over 36 months", 1000000, 36, 100000, 25000},
		{"deposit rounds up", 15, 12, 2, 2},
		{"degenerate tiny price", 1, 12, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := PriceLot(tc.price, tc.duration)
			if err != nil {
				t.Fatalf("PriceLot(%d, %d): %v", tc.price, tc.duration, err)
			}
			if q.DepositAmount != tc.deposit || q.MonthlyAmount != tc.monthly {
				t.Fatalf("got deposit=%d monthly=%d, want deposit=%d monthly=%d",
					q.DepositAmount, q.MonthlyAmount, tc.deposit, tc.monthly)
			}
		})
	}
}

func TestPriceLotCollectsFullBalance(t *testing.T) {
	// The per-installment round-up must guarantee the balance is reached at
	// or before the final month.
	for _, price := range []int{11, 999, 250000, 500000, 731557, 1000000} {
		for _, d := range AllowedDurations {
			q, err := PriceLot(price, d)
			if err != nil {
				t.Fatalf("PriceLot(%d, %d): %v", price, d, err)
			}
			if q.DepositAmount+q.MonthlyAmount*d < price {
				t.Fatalf("price=%d duration=%d: plan collects %d, short of price",
					price, d, q.DepositAmount+q.MonthlyAmount*d)
			}
		}
	}
}

func TestPriceLotRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		price    int
		duration int
		field    string
	}{
		{"zero price", 0, 24, "lot_price"},
		{"negative price", -500, 24, "lot_price"},
		{"duration outside set", 500000, 18, "duration_months"},
		{"zero duration", 500000, 0, "duration_months"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PriceLot(tc.price, tc.duration)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}
