package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, role, full_name, email, COALESCE(phone,''), COALESCE(city,''), reliability_score, created_at
		FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Role, &u.FullName, &u.Email, &u.Phone, &u.City, &u.ReliabilityScore, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// CreateReservation persists an already-priced reservation and returns its id.
// UserID may be empty for anonymous leads from the public intake.
func (r *Repo) CreateReservation(ctx context.Context, res Reservation) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO reservations(id, user_id, lot_type, lot_price, duration_months, deposit_amount, monthly_amount, source, status)
		VALUES ($1, NULLIF($2,''), $3, $4, $5, $6, $7, NULLIF($8,''), $9)`,
		id, res.UserID, res.LotType, res.LotPrice, res.DurationMonths,
		res.DepositAmount, res.MonthlyAmount, res.Source, string(res.Status),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) ListReservationsByUser(ctx context.Context, userID string) ([]Reservation, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, COALESCE(user_id,''), lot_type, lot_price, duration_months, deposit_amount, monthly_amount,
		       COALESCE(source,''), status, created_at
		FROM reservations WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.LotType, &res.LotPrice, &res.DurationMonths,
			&res.DepositAmount, &res.MonthlyAmount, &res.Source, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repo) CreateOwnerProperty(ctx context.Context, p OwnerProperty) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO owner_properties(id, owner_id, property_title, location, size_m2, expected_price, preferred_payment_mode, payment_calendar)
		VALUES ($1, $2, $3, $4, NULLIF($5,0), NULLIF($6,0), NULLIF($7,''), NULLIF($8,''))`,
		id, p.OwnerID, p.PropertyTitle, p.Location, p.SizeM2, p.ExpectedPrice,
		p.PreferredPaymentMode, p.PaymentCalendar,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) ListOwnerProperties(ctx context.Context, ownerID string) ([]OwnerProperty, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, owner_id, property_title, location, COALESCE(size_m2,0), COALESCE(expected_price,0),
		       COALESCE(preferred_payment_mode,''), COALESCE(payment_calendar,''), status, created_at
		FROM owner_properties WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OwnerProperty
	for rows.Next() {
		var p OwnerProperty
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.PropertyTitle, &p.Location, &p.SizeM2, &p.ExpectedPrice,
			&p.PreferredPaymentMode, &p.PaymentCalendar, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListAvailableLots(ctx context.Context) ([]AvailableLot, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, title, location, size_m2, price, COALESCE(monthly_amount,0), COALESCE(duration_months,0),
		       features, status, display_order, created_at
		FROM available_lots WHERE status='available' ORDER BY display_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AvailableLot
	for rows.Next() {
		var l AvailableLot
		if err := rows.Scan(&l.ID, &l.Title, &l.Location, &l.SizeM2, &l.Price, &l.MonthlyAmount,
			&l.DurationMonths, &l.Features, &l.Status, &l.DisplayOrder, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
