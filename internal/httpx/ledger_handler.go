package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/terrasocial/terra-ledger/internal/billing"
	"github.com/terrasocial/terra-ledger/internal/ledger"
)

// Billing is the slice of the billing service the HTTP layer consumes.
type Billing interface {
	RecordPayment(ctx context.Context, in billing.PaymentInput) (billing.Receipt, error)
	ListPayments(ctx context.Context, userID string) ([]ledger.Payment, error)
	ReliabilityScore(ctx context.Context, userID string) (int, error)
	CreateReservation(ctx context.Context, userID string, in billing.ReservationInput) (ledger.Reservation, error)
	ListReservations(ctx context.Context, userID string) ([]ledger.Reservation, error)
	CreateLead(ctx context.Context, in billing.LeadInput) (ledger.Reservation, error)
	ListLots(ctx context.Context) ([]ledger.AvailableLot, error)
	SubmitProperty(ctx context.Context, ownerID string, in billing.PropertyInput) (string, error)
	OwnerPortfolio(ctx context.Context, ownerID string) (billing.Portfolio, error)
}

type LedgerHandler struct {
	Billing  Billing
	validate *validator.Validate
}

func NewLedgerHandler(b Billing) *LedgerHandler {
	return &LedgerHandler{Billing: b, validate: validator.New()}
}

func (h *LedgerHandler) Register(r *chi.Mux) {
	r.Post("/public/reservations", h.createLead)
	r.Get("/public/lots", h.listLots)

	r.Group(func(r chi.Router) {
		r.Use(WithPrincipal)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(ledger.RoleClient, ledger.RoleOwner, ledger.RoleAdmin))
			r.Post("/payments", h.recordPayment)
			r.Get("/payments", h.listPayments)
			r.Get("/reliability", h.reliability)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(ledger.RoleClient, ledger.RoleAdmin))
			r.Post("/reservations", h.createReservation)
			r.Get("/reservations", h.listReservations)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(ledger.RoleOwner, ledger.RoleAdmin))
			r.Post("/owner/properties", h.submitProperty)
			r.Get("/owner/properties", h.ownerPortfolio)
		})
	})
}

// ---- payments ----

type recordPaymentReq struct {
	ReservationID   string `json:"reservation_id"`
	OwnerPropertyID string `json:"owner_property_id"`
	Amount          int    `json:"amount" validate:"required,gt=0"`
	Method          string `json:"method" validate:"required,max=40"`
	DueDate         string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status          string `json:"status" validate:"omitempty,oneof=paid late pending"`
}

type recordPaymentResp struct {
	PaymentID        string `json:"payment_id"`
	Reference        string `json:"reference"`
	ReliabilityScore int    `json:"reliability_score"`
}

func (h *LedgerHandler) recordPayment(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req recordPaymentReq
	if !h.decode(w, r, &req) {
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		d, _ := time.Parse("2006-01-02", req.DueDate)
		due = &d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	receipt, err := h.Billing.RecordPayment(ctx, billing.PaymentInput{
		UserID:          p.UserID,
		ReservationID:   req.ReservationID,
		OwnerPropertyID: req.OwnerPropertyID,
		Amount:          req.Amount,
		Method:          req.Method,
		DueDate:         due,
		Status:          req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordPaymentResp{
		PaymentID:        receipt.PaymentID,
		Reference:        receipt.Reference,
		ReliabilityScore: receipt.ReliabilityScore,
	})
}

type paymentJSON struct {
	ID              string     `json:"id"`
	ReservationID   string     `json:"reservation_id,omitempty"`
	OwnerPropertyID string     `json:"owner_property_id,omitempty"`
	Amount          int        `json:"amount"`
	Method          string     `json:"method"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	PaidAt          time.Time  `json:"paid_at"`
	Status          string     `json:"status"`
	Reference       string     `json:"reference"`
}

func (h *LedgerHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	pays, err := h.Billing.ListPayments(ctx, p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]paymentJSON, 0, len(pays))
	for _, pay := range pays {
		out = append(out, toPaymentJSON(pay))
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": out})
}

func toPaymentJSON(p ledger.Payment) paymentJSON {
	return paymentJSON{
		ID:              p.ID,
		ReservationID:   p.ReservationID,
		OwnerPropertyID: p.OwnerPropertyID,
		Amount:          p.Amount,
		Method:          p.Method,
		DueDate:         p.DueDate,
		PaidAt:          p.PaidAt,
		Status:          string(p.Status),
		Reference:       p.Reference,
	}
}

func (h *LedgerHandler) reliability(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	score, err := h.Billing.ReliabilityScore(ctx, p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": p.UserID, "reliability_score": score})
}

// ---- reservations ----

type createReservationReq struct {
	LotType        string `json:"lot_type" validate:"required,max=50"`
	LotPrice       int    `json:"lot_price" validate:"required,gt=0"`
	DurationMonths int    `json:"duration_months" validate:"required"`
	Source         string `json:"source" validate:"omitempty,max=80"`
}

type reservationJSON struct {
	ID             string    `json:"id"`
	LotType        string    `json:"lot_type"`
	LotPrice       int       `json:"lot_price"`
	DurationMonths int       `json:"duration_months"`
	DepositAmount  int       `json:"deposit_amount"`
	MonthlyAmount  int       `json:"monthly_amount"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toReservationJSON(res ledger.Reservation) reservationJSON {
	return reservationJSON{
		ID:             res.ID,
		LotType:        res.LotType,
		LotPrice:       res.LotPrice,
		DurationMonths: res.DurationMonths,
		DepositAmount:  res.DepositAmount,
		MonthlyAmount:  res.MonthlyAmount,
		Status:         string(res.Status),
		CreatedAt:      res.CreatedAt,
	}
}

func (h *LedgerHandler) createReservation(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req createReservationReq
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Billing.CreateReservation(ctx, p.UserID, billing.ReservationInput{
		LotType:        req.LotType,
		LotPrice:       req.LotPrice,
		DurationMonths: req.DurationMonths,
		Source:         req.Source,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationJSON(res))
}

func (h *LedgerHandler) listReservations(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rs, err := h.Billing.ListReservations(ctx, p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]reservationJSON, 0, len(rs))
	for _, res := range rs {
		out = append(out, toReservationJSON(res))
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": out})
}

// ---- public intake ----

type createLeadReq struct {
	FullName       string `json:"full_name" validate:"required,max=120"`
	Phone          string `json:"phone" validate:"required,max=30"`
	Email          string `json:"email" validate:"omitempty,email"`
	City           string `json:"city" validate:"omitempty,max=80"`
	LotType        string `json:"lot_type" validate:"required,max=50"`
	LotPrice       int    `json:"lot_price" validate:"required,gt=0"`
	DurationMonths int    `json:"duration_months" validate:"required"`
	Source         string `json:"source" validate:"omitempty,max=80"`
}

func (h *LedgerHandler) createLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadReq
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Billing.CreateLead(ctx, billing.LeadInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		City:     req.City,
		ReservationInput: billing.ReservationInput{
			LotType:        req.LotType,
			LotPrice:       req.LotPrice,
			DurationMonths: req.DurationMonths,
			Source:         req.Source,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"reservation_id": res.ID,
		"message":        "Demande recue. Un conseiller vous contactera rapidement.",
		"contact": map[string]string{
			"full_name": req.FullName,
			"phone":     req.Phone,
		},
	})
}

type lotJSON struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Location       string          `json:"location"`
	SizeM2         int             `json:"size_m2"`
	Price          int             `json:"price"`
	MonthlyAmount  int             `json:"monthly_amount,omitempty"`
	DurationMonths int             `json:"duration_months,omitempty"`
	Features       json.RawMessage `json:"features"`
	Status         string          `json:"status"`
}

func (h *LedgerHandler) listLots(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lots, err := h.Billing.ListLots(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]lotJSON, 0, len(lots))
	for _, l := range lots {
		out = append(out, lotJSON{
			ID:             l.ID,
			Title:          l.Title,
			Location:       l.Location,
			SizeM2:         l.SizeM2,
			Price:          l.Price,
			MonthlyAmount:  l.MonthlyAmount,
			DurationMonths: l.DurationMonths,
			Features:       json.RawMessage(l.Features),
			Status:         l.Status,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"lots": out})
}

// ---- owner properties ----

type submitPropertyReq struct {
	PropertyTitle        string `json:"property_title" validate:"required,max=120"`
	Location             string `json:"location" validate:"required,max=120"`
	SizeM2               int    `json:"size_m2" validate:"omitempty,gt=0"`
	ExpectedPrice        int    `json:"expected_price" validate:"omitempty,gt=0"`
	PreferredPaymentMode string `json:"preferred_payment_mode" validate:"omitempty,max=40"`
	PaymentCalendar      string `json:"payment_calendar" validate:"omitempty,max=40"`
}

func (h *LedgerHandler) submitProperty(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	var req submitPropertyReq
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Billing.SubmitProperty(ctx, p.UserID, billing.PropertyInput{
		PropertyTitle:        req.PropertyTitle,
		Location:             req.Location,
		SizeM2:               req.SizeM2,
		ExpectedPrice:        req.ExpectedPrice,
		PreferredPaymentMode: req.PreferredPaymentMode,
		PaymentCalendar:      req.PaymentCalendar,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"property_id": id})
}

type propertyJSON struct {
	ID                   string    `json:"id"`
	PropertyTitle        string    `json:"property_title"`
	Location             string    `json:"location"`
	SizeM2               int       `json:"size_m2,omitempty"`
	ExpectedPrice        int       `json:"expected_price,omitempty"`
	PreferredPaymentMode string    `json:"preferred_payment_mode,omitempty"`
	PaymentCalendar      string    `json:"payment_calendar,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

func (h *LedgerHandler) ownerPortfolio(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	pf, err := h.Billing.OwnerPortfolio(ctx, p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	props := make([]propertyJSON, 0, len(pf.Properties))
	for _, pr := range pf.Properties {
		props = append(props, propertyJSON{
			ID:                   pr.ID,
			PropertyTitle:        pr.PropertyTitle,
			Location:             pr.Location,
			SizeM2:               pr.SizeM2,
			ExpectedPrice:        pr.ExpectedPrice,
			PreferredPaymentMode: pr.PreferredPaymentMode,
			PaymentCalendar:      pr.PaymentCalendar,
			Status:               pr.Status,
			CreatedAt:            pr.CreatedAt,
		})
	}
	pays := make([]paymentJSON, 0, len(pf.Payments))
	for _, pay := range pf.Payments {
		pays = append(pays, toPaymentJSON(pay))
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": props, "payments": pays})
}

// ---- helpers ----

// decode parses and validates a JSON body; on failure it writes the 400 and
// returns false.
func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
