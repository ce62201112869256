package ledger

// Quote is the derived payment plan for a lot reservation.
type Quote struct {
	DepositAmount int
	MonthlyAmount int
}

// PriceLot derives the deposit and monthly installment for a lot price and
// duration. The deposit is a fixed 10%, rounded up; the remaining balance is
// split into equal installments, each rounded up, so the full balance is
// collected at or before the final month (the last installment may come in a
// few francs short of a full one).
//
// Prices below 10 FCFA degenerate: the deposit rounds up to the whole price
// and the monthly installment is zero. Kept as-is; such reservations do not
// occur in practice.
func PriceLot(lotPrice, durationMonths int) (Quote, error) {
	if lotPrice <= 0 {
		return Quote{}, invalid("lot_price", "must be a positive integer")
	}
	if !AllowedDuration(durationMonths) {
		return Quote{}, invalid("duration_months", "must be one of 12, 24, 36")
	}
	deposit := ceilDiv(lotPrice, 10)
	monthly := ceilDiv(lotPrice-deposit, durationMonths)
	return Quote{DepositAmount: deposit, MonthlyAmount: monthly}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
