package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL CHECK (role IN ('client', 'owner', 'admin')),
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		city TEXT,
		reliability_score INTEGER NOT NULL DEFAULT 100,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		user_id TEXT REFERENCES users(id),
		lot_type TEXT NOT NULL,
		lot_price INTEGER NOT NULL,
		duration_months INTEGER NOT NULL,
		deposit_amount INTEGER NOT NULL,
		monthly_amount INTEGER NOT NULL,
		source TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS owner_properties (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		property_title TEXT NOT NULL,
		location TEXT NOT NULL,
		size_m2 INTEGER,
		expected_price INTEGER,
		preferred_payment_mode TEXT,
		payment_calendar TEXT,
		status TEXT NOT NULL DEFAULT 'pending_review',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		reservation_id TEXT REFERENCES reservations(id),
		owner_property_id TEXT REFERENCES owner_properties(id),
		amount INTEGER NOT NULL,
		method TEXT NOT NULL,
		due_date DATE,
		paid_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status TEXT NOT NULL DEFAULT 'paid',
		reference TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id)`,
	`CREATE TABLE IF NOT EXISTS available_lots (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		location TEXT NOT NULL,
		size_m2 INTEGER NOT NULL,
		price INTEGER NOT NULL,
		monthly_amount INTEGER,
		duration_months INTEGER,
		features TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'available',
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

type seedLot struct {
	title    string
	location string
	sizeM2   int
	price    int
	monthly  int
	duration int
	features string
	order    int
}

var seedLots = []seedLot{
	{"Lot Standard - 500m2", "Soa, Yaounde", 500, 500000, 21000, 24,
		`["Titre foncier securise","Acces route praticable","Electricite a proximite","Bornage inclus"]`, 1},
	{"Lot Confort - 750m2", "Nkolfoulou, Yaounde", 750, 750000, 25000, 30,
		`["Titre foncier securise","Acces goudronne","Eau et electricite","Bornage et plan inclus"]`, 2},
	{"Lot Premium - 1000m2", "Mbankomo, Yaounde", 1000, 1000000, 28000, 36,
		`["Titre foncier garanti","Zone viabilisee","Tous reseaux disponibles","Accompagnement complet"]`, 3},
}

// EnsureSchema creates the ledger tables if missing and seeds the public lot
// catalog on first boot. Safe to run on every start.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM available_lots`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, l := range seedLots {
		_, err := db.Exec(ctx, `
			INSERT INTO available_lots(id, title, location, size_m2, price, monthly_amount, duration_months, features, display_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			uuid.NewString(), l.title, l.location, l.sizeM2, l.price, l.monthly, l.duration, l.features, l.order,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
