package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepo struct{ DB *pgxpool.Pool }

// RecordAndRescore inserts a payment and recomputes the payer's reliability
// score in one transaction. The user row is locked FOR UPDATE first, so
// concurrent recordings for the same user serialize and each rescan sees the
// prior insert. Returns the payment id and the fresh score.
func (r *PaymentRepo) RecordAndRescore(ctx context.Context, p Payment) (id string, score int, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockUser(ctx, tx, p.UserID); err != nil {
		return "", 0, err
	}
	if p.ReservationID != "" {
		if err := mustExist(ctx, tx, `SELECT 1 FROM reservations WHERE id=$1`, "reservation", p.ReservationID); err != nil {
			return "", 0, err
		}
	}
	if p.OwnerPropertyID != "" {
		if err := mustExist(ctx, tx, `SELECT 1 FROM owner_properties WHERE id=$1`, "owner property", p.OwnerPropertyID); err != nil {
			return "", 0, err
		}
	}

	id = uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO payments(id, user_id, reservation_id, owner_property_id, amount, method, due_date, status, reference)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5, $6, $7, $8, $9)`,
		id, p.UserID, p.ReservationID, p.OwnerPropertyID, p.Amount, p.Method, p.DueDate, string(p.Status), p.Reference,
	)
	if err != nil {
		return "", 0, err
	}

	score, err = rescore(ctx, tx, p.UserID)
	if err != nil {
		return "", 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", 0, err
	}
	return id, score, nil
}

// Rescore recomputes and persists a user's reliability score from their full
// payment history. Idempotent for a stable history.
func (r *PaymentRepo) Rescore(ctx context.Context, userID string) (int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockUser(ctx, tx, userID); err != nil {
		return 0, err
	}
	score, err := rescore(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return score, nil
}

func (r *PaymentRepo) ListByUser(ctx context.Context, userID string) ([]Payment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, COALESCE(reservation_id,''), COALESCE(owner_property_id,''),
		       amount, method, due_date, paid_at, status, reference
		FROM payments WHERE user_id=$1 ORDER BY paid_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

// ListByProperties returns payments made against any of the given owner
// properties, newest first. Used by the owner dashboard.
func (r *PaymentRepo) ListByProperties(ctx context.Context, propertyIDs []string) ([]Payment, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, COALESCE(reservation_id,''), COALESCE(owner_property_id,''),
		       amount, method, due_date, paid_at, status, reference
		FROM payments WHERE owner_property_id = ANY($1) ORDER BY paid_at DESC`, propertyIDs)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]Payment, error) {
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.ReservationID, &p.OwnerPropertyID,
			&p.Amount, &p.Method, &p.DueDate, &p.PaidAt, &p.Status, &p.Reference); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func lockUser(ctx context.Context, tx pgx.Tx, userID string) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return err
}

func mustExist(ctx context.Context, tx pgx.Tx, query, kind, id string) error {
	var one int
	err := tx.QueryRow(ctx, query, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return err
}

func rescore(ctx context.Context, tx pgx.Tx, userID string) (int, error) {
	var total, paid, late int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='paid'),
		       COUNT(*) FILTER (WHERE status='late')
		FROM payments WHERE user_id=$1`, userID).Scan(&total, &paid, &late)
	if err != nil {
		return 0, err
	}
	score := ScoreFromCounts(total, paid, late)
	if _, err := tx.Exec(ctx, `UPDATE users SET reliability_score=$2 WHERE id=$1`, userID, score); err != nil {
		return 0, err
	}
	return score, nil
}
