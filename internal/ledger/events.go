package ledger

import (
	"encoding/json"
	"time"
)

const (
	EventPaymentRecorded    = "PaymentRecorded"
	EventReservationCreated = "ReservationCreated"
	EventLeadCaptured       = "LeadCaptured"
	EventPropertySubmitted  = "PropertySubmitted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "ledger-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually user_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- per-event payloads ----

type PaymentRecordedPayload struct {
	PaymentID        string `json:"payment_id"`
	UserID           string `json:"user_id"`
	ReservationID    string `json:"reservation_id,omitempty"`
	OwnerPropertyID  string `json:"owner_property_id,omitempty"`
	Amount           int    `json:"amount"`
	Method           string `json:"method"`
	Status           string `json:"status"`
	Reference        string `json:"reference"`
	ReliabilityScore int    `json:"reliability_score"`
}

type ReservationCreatedPayload struct {
	ReservationID  string `json:"reservation_id"`
	UserID         string `json:"user_id"`
	LotType        string `json:"lot_type"`
	LotPrice       int    `json:"lot_price"`
	DurationMonths int    `json:"duration_months"`
	DepositAmount  int    `json:"deposit_amount"`
	MonthlyAmount  int    `json:"monthly_amount"`
}

type LeadCapturedPayload struct {
	ReservationID string `json:"reservation_id"`
	LotType       string `json:"lot_type"`
	LotPrice      int    `json:"lot_price"`
	Source        string `json:"source,omitempty"`
}

type PropertySubmittedPayload struct {
	PropertyID string `json:"property_id"`
	OwnerID    string `json:"owner_id"`
	Location   string `json:"location"`
}
