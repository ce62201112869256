package billing

import (
	"context"
	"regexp"

	"github.com/terrasocial/terra-ledger/internal/ledger"
)

type ReservationInput struct {
	LotType        string
	LotPrice       int
	DurationMonths int
	Source         string
}

// CreateReservation prices and persists a commitment for an authenticated
// client. Amounts are derived, never taken from the caller.
func (s *Service) CreateReservation(ctx context.Context, userID string, in ReservationInput) (ledger.Reservation, error) {
	if in.LotType == "" {
		return ledger.Reservation{}, &ledger.ValidationError{Field: "lot_type", Reason: "must not be empty"}
	}
	quote, err := ledger.PriceLot(in.LotPrice, in.DurationMonths)
	if err != nil {
		return ledger.Reservation{}, err
	}
	if _, err := s.Store.GetUser(ctx, userID); err != nil {
		return ledger.Reservation{}, err
	}

	res := ledger.Reservation{
		UserID:         userID,
		LotType:        in.LotType,
		LotPrice:       in.LotPrice,
		DurationMonths: in.DurationMonths,
		DepositAmount:  quote.DepositAmount,
		MonthlyAmount:  quote.MonthlyAmount,
		Source:         in.Source,
		Status:         ledger.ReservationPending,
	}
	id, err := s.Store.CreateReservation(ctx, res)
	if err != nil {
		return ledger.Reservation{}, err
	}
	res.ID = id

	s.publish(ctx, s.ReservationEvents, ledger.EventReservationCreated, userID, ledger.ReservationCreatedPayload{
		ReservationID:  id,
		UserID:         userID,
		LotType:        res.LotType,
		LotPrice:       res.LotPrice,
		DurationMonths: res.DurationMonths,
		DepositAmount:  res.DepositAmount,
		MonthlyAmount:  res.MonthlyAmount,
	})
	return res, nil
}

func (s *Service) ListReservations(ctx context.Context, userID string) ([]ledger.Reservation, error) {
	return s.Store.ListReservationsByUser(ctx, userID)
}

type LeadInput struct {
	FullName string
	Phone    string
	Email    string
	City     string
	ReservationInput
}

var phonePattern = regexp.MustCompile(`^[+0-9\s()-]{8,20}$`)

// CreateLead records an anonymous reservation from the public intake form.
// The contact details are validated and echoed back for the follow-up call
// but no user account is created.
func (s *Service) CreateLead(ctx context.Context, in LeadInput) (ledger.Reservation, error) {
	if in.FullName == "" {
		return ledger.Reservation{}, &ledger.ValidationError{Field: "full_name", Reason: "must not be empty"}
	}
	if !phonePattern.MatchString(in.Phone) {
		return ledger.Reservation{}, &ledger.ValidationError{Field: "phone", Reason: "must be a valid phone number"}
	}
	if in.LotType == "" {
		return ledger.Reservation{}, &ledger.ValidationError{Field: "lot_type", Reason: "must not be empty"}
	}
	quote, err := ledger.PriceLot(in.LotPrice, in.DurationMonths)
	if err != nil {
		return ledger.Reservation{}, err
	}

	source := in.Source
	if source == "" {
		source = "site"
	}
	res := ledger.Reservation{
		LotType:        in.LotType,
		LotPrice:       in.LotPrice,
		DurationMonths: in.DurationMonths,
		DepositAmount:  quote.DepositAmount,
		MonthlyAmount:  quote.MonthlyAmount,
		Source:         source,
		Status:         ledger.ReservationLead,
	}
	id, err := s.Store.CreateReservation(ctx, res)
	if err != nil {
		return ledger.Reservation{}, err
	}
	res.ID = id

	// Leads have no user; partition on the reservation instead.
	s.publish(ctx, s.LeadEvents, ledger.EventLeadCaptured, id, ledger.LeadCapturedPayload{
		ReservationID: id,
		LotType:       res.LotType,
		LotPrice:      res.LotPrice,
		Source:        source,
	})
	return res, nil
}

func (s *Service) ListLots(ctx context.Context) ([]ledger.AvailableLot, error) {
	return s.Store.ListAvailableLots(ctx)
}

type PropertyInput struct {
	PropertyTitle        string
	Location             string
	SizeM2               int
	ExpectedPrice        int
	PreferredPaymentMode string
	PaymentCalendar      string
}

// SubmitProperty records a parcel an owner puts up for sale.
func (s *Service) SubmitProperty(ctx context.Context, ownerID string, in PropertyInput) (string, error) {
	if in.PropertyTitle == "" {
		return "", &ledger.ValidationError{Field: "property_title", Reason: "must not be empty"}
	}
	if in.Location == "" {
		return "", &ledger.ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if in.SizeM2 < 0 {
		return "", &ledger.ValidationError{Field: "size_m2", Reason: "must be a positive integer"}
	}
	if in.ExpectedPrice < 0 {
		return "", &ledger.ValidationError{Field: "expected_price", Reason: "must be a positive integer"}
	}
	if _, err := s.Store.GetUser(ctx, ownerID); err != nil {
		return "", err
	}

	id, err := s.Store.CreateOwnerProperty(ctx, ledger.OwnerProperty{
		OwnerID:              ownerID,
		PropertyTitle:        in.PropertyTitle,
		Location:             in.Location,
		SizeM2:               in.SizeM2,
		ExpectedPrice:        in.ExpectedPrice,
		PreferredPaymentMode: in.PreferredPaymentMode,
		PaymentCalendar:      in.PaymentCalendar,
	})
	if err != nil {
		return "", err
	}

	s.publish(ctx, s.PropertyEvents, ledger.EventPropertySubmitted, ownerID, ledger.PropertySubmittedPayload{
		PropertyID: id,
		OwnerID:    ownerID,
		Location:   in.Location,
	})
	return id, nil
}

// Portfolio is an owner's submitted properties plus the payments recorded
// against them.
type Portfolio struct {
	Properties []ledger.OwnerProperty
	Payments   []ledger.Payment
}

func (s *Service) OwnerPortfolio(ctx context.Context, ownerID string) (Portfolio, error) {
	props, err := s.Store.ListOwnerProperties(ctx, ownerID)
	if err != nil {
		return Portfolio{}, err
	}
	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	pays, err := s.Payments.ListByProperties(ctx, ids)
	if err != nil {
		return Portfolio{}, err
	}
	return Portfolio{Properties: props, Payments: pays}, nil
}
