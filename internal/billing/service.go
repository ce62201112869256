package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/terrasocial/terra-ledger/internal/kafka"
	"github.com/terrasocial/terra-ledger/internal/ledger"
	"github.com/terrasocial/terra-ledger/internal/redisx"
)

// LedgerStore is the persistence boundary for users, reservations, owner
// properties and the lot catalog.
type LedgerStore interface {
	GetUser(ctx context.Context, id string) (ledger.User, error)
	CreateReservation(ctx context.Context, res ledger.Reservation) (string, error)
	ListReservationsByUser(ctx context.Context, userID string) ([]ledger.Reservation, error)
	CreateOwnerProperty(ctx context.Context, p ledger.OwnerProperty) (string, error)
	ListOwnerProperties(ctx context.Context, ownerID string) ([]ledger.OwnerProperty, error)
	ListAvailableLots(ctx context.Context) ([]ledger.AvailableLot, error)
}

// PaymentStore is the persistence boundary for the payment ledger and the
// reliability score it drives.
type PaymentStore interface {
	RecordAndRescore(ctx context.Context, p ledger.Payment) (id string, score int, err error)
	Rescore(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]ledger.Payment, error)
	ListByProperties(ctx context.Context, propertyIDs []string) ([]ledger.Payment, error)
}

// Publisher is the outbound event channel. Implementations must not block.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store    LedgerStore
	Payments PaymentStore
	Redis    *redis.Client

	PaymentEvents     Publisher
	ReservationEvents Publisher
	LeadEvents        Publisher
	PropertyEvents    Publisher

	ServiceName string
}

type PaymentInput struct {
	UserID          string
	ReservationID   string
	OwnerPropertyID string
	Amount          int
	Method          string
	DueDate         *time.Time
	Status          string // defaults to "paid"
}

// Receipt is everything a caller needs after recording a payment; no second
// query required.
type Receipt struct {
	PaymentID        string
	Reference        string
	ReliabilityScore int
}

// RecordPayment validates the input, appends the payment and recomputes the
// payer's reliability score in one transaction, then publishes the event and
// refreshes the score cache best-effort.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (Receipt, error) {
	p, err := buildPayment(in)
	if err != nil {
		return Receipt{}, err
	}

	id, score, err := s.Payments.RecordAndRescore(ctx, p)
	if err != nil {
		return Receipt{}, err
	}

	s.cacheScore(ctx, in.UserID, score)
	s.publish(ctx, s.PaymentEvents, ledger.EventPaymentRecorded, in.UserID, ledger.PaymentRecordedPayload{
		PaymentID:        id,
		UserID:           in.UserID,
		ReservationID:    in.ReservationID,
		OwnerPropertyID:  in.OwnerPropertyID,
		Amount:           p.Amount,
		Method:           p.Method,
		Status:           string(p.Status),
		Reference:        p.Reference,
		ReliabilityScore: score,
	})
	return Receipt{PaymentID: id, Reference: p.Reference, ReliabilityScore: score}, nil
}

func buildPayment(in PaymentInput) (ledger.Payment, error) {
	if in.Amount <= 0 {
		return ledger.Payment{}, &ledger.ValidationError{Field: "amount", Reason: "must be a positive integer"}
	}
	if in.Method == "" {
		return ledger.Payment{}, &ledger.ValidationError{Field: "method", Reason: "must not be empty"}
	}
	status := ledger.PaymentStatus(in.Status)
	if status == "" {
		status = ledger.PaymentPaid
	}
	if !ledger.ValidPaymentStatus(status) {
		return ledger.Payment{}, &ledger.ValidationError{Field: "status", Reason: "must be paid, late or pending"}
	}
	if in.ReservationID != "" && in.OwnerPropertyID != "" {
		return ledger.Payment{}, &ledger.ValidationError{Field: "reservation_id", Reason: "a payment belongs to at most one of reservation or owner property"}
	}
	return ledger.Payment{
		UserID:          in.UserID,
		ReservationID:   in.ReservationID,
		OwnerPropertyID: in.OwnerPropertyID,
		Amount:          in.Amount,
		Method:          in.Method,
		DueDate:         in.DueDate,
		Status:          status,
		Reference:       ledger.NewReference(),
	}, nil
}

// ReliabilityScore reads a user's persisted score, cache-aside through redis.
func (s *Service) ReliabilityScore(ctx context.Context, userID string) (int, error) {
	key := fmt.Sprintf(redisx.KeyUserScore, userID)
	if s.Redis != nil {
		if v, err := s.Redis.Get(ctx, key).Int(); err == nil {
			return v, nil
		}
	}
	u, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cacheScore(ctx, userID, u.ReliabilityScore)
	return u.ReliabilityScore, nil
}

// RecomputeReliability rescans the user's full payment history and persists
// the resulting score. Idempotent for a stable history; back-office flows use
// it to heal a score after out-of-band corrections.
func (s *Service) RecomputeReliability(ctx context.Context, userID string) (int, error) {
	score, err := s.Payments.Rescore(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cacheScore(ctx, userID, score)
	return score, nil
}

func (s *Service) ListPayments(ctx context.Context, userID string) ([]ledger.Payment, error) {
	return s.Payments.ListByUser(ctx, userID)
}

func (s *Service) cacheScore(ctx context.Context, userID string, score int) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyUserScore, userID)
	_ = s.Redis.Set(ctx, key, score, redisx.TTLScoreCache).Err()
}

func (s *Service) publish(ctx context.Context, pub Publisher, eventType, correlationID string, payload any) {
	if pub == nil {
		return
	}
	ev := ledger.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	pub.Publish(ledger.PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
