package redisx

import "time"

const (
	// Reliability score cache: score:{user_id} -> "87"
	KeyUserScore = "score:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Dashboard aggregate counters maintained by the worker.
	KeyPaymentsTotal     = "metrics:payments:total"
	KeyPaymentsAmount    = "metrics:payments:amount"
	KeyReservationsTotal = "metrics:reservations:total"
	KeyLeadsTotal        = "metrics:leads:total"
	KeyPropertiesTotal   = "metrics:properties:total"
)

var (
	TTLScoreCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
