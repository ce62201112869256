package ledger

import "time"

// Amounts are whole FCFA; the currency has no minor unit.

type User struct {
	ID               string
	Role             Role
	FullName         string
	Email            string
	Phone            string
	City             string
	ReliabilityScore int
	CreatedAt        time.Time
}

type Reservation struct {
	ID             string
	UserID         string // empty for anonymous leads from public intake
	LotType        string
	LotPrice       int
	DurationMonths int
	DepositAmount  int
	MonthlyAmount  int
	Source         string
	Status         ReservationStatus
	CreatedAt      time.Time
}

type Payment struct {
	ID              string
	UserID          string
	ReservationID   string // at most one of ReservationID / OwnerPropertyID is set
	OwnerPropertyID string
	Amount          int
	Method          string
	DueDate         *time.Time
	PaidAt          time.Time
	Status          PaymentStatus
	Reference       string
}

type OwnerProperty struct {
	ID                   string
	OwnerID              string
	PropertyTitle        string
	Location             string
	SizeM2               int
	ExpectedPrice        int
	PreferredPaymentMode string
	PaymentCalendar      string
	Status               string
	CreatedAt            time.Time
}

type AvailableLot struct {
	ID             string
	Title          string
	Location       string
	SizeM2         int
	Price          int
	MonthlyAmount  int
	DurationMonths int
	Features       string // JSON array of strings, stored verbatim
	Status         string
	DisplayOrder   int
	CreatedAt      time.Time
}
