package ledger

type Role string

const (
	RoleClient Role = "client"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

func ValidRole(r Role) bool {
	return r == RoleClient || r == RoleOwner || r == RoleAdmin
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentLate    PaymentStatus = "late"
	PaymentPending PaymentStatus = "pending"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentPaid || s == PaymentLate || s == PaymentPending
}

type ReservationStatus string

const (
	ReservationPending ReservationStatus = "pending"
	ReservationLead    ReservationStatus = "lead"
)

// AllowedDurations is the fixed set of installment plans offered.
var AllowedDurations = []int{12, 24, 36}

func AllowedDuration(months int) bool {
	for _, d := range AllowedDurations {
		if months == d {
			return true
		}
	}
	return false
}
