package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/terrasocial/terra-ledger/internal/kafka"
	"github.com/terrasocial/terra-ledger/internal/ledger"
	"github.com/terrasocial/terra-ledger/internal/redisx"
)

// Cache is the slice of the redis client the worker touches, narrowed so a
// fake can stand in for *redis.Client in tests.
type Cache interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
}

// Service maintains the redis-side read models: the reliability score cache
// and the dashboard aggregate counters. It consumes every ledger topic.
type Service struct {
	Redis       Cache
	ServiceName string
}

// HandleEvent is installed as the consumer handler for all ledger topics.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env ledger.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// Dedup on event_id: redeliveries and group rebalances must not double
	// count.
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if n, _ := s.Redis.Exists(ctx, dkey).Result(); n > 0 {
		return nil
	}

	switch env.EventType {
	case ledger.EventPaymentRecorded:
		p, err := kafkax.UnwrapPayload[ledger.PaymentRecordedPayload](env.Payload)
		if err != nil {
			return err
		}
		skey := fmt.Sprintf(redisx.KeyUserScore, p.UserID)
		if err := s.Redis.Set(ctx, skey, p.ReliabilityScore, redisx.TTLScoreCache).Err(); err != nil {
			return err
		}
		if err := s.Redis.Incr(ctx, redisx.KeyPaymentsTotal).Err(); err != nil {
			return err
		}
		if err := s.Redis.IncrBy(ctx, redisx.KeyPaymentsAmount, int64(p.Amount)).Err(); err != nil {
			return err
		}
	case ledger.EventReservationCreated:
		if err := s.Redis.Incr(ctx, redisx.KeyReservationsTotal).Err(); err != nil {
			return err
		}
	case ledger.EventLeadCaptured:
		if err := s.Redis.Incr(ctx, redisx.KeyLeadsTotal).Err(); err != nil {
			return err
		}
	case ledger.EventPropertySubmitted:
		if err := s.Redis.Incr(ctx, redisx.KeyPropertiesTotal).Err(); err != nil {
			return err
		}
	default:
		return nil // unknown event, commit and move on
	}

	// The marker lands after the side effects and outside the kafka commit:
	// a failure in between redelivers the message and may count it twice.
	// The counters are best-effort dashboard figures, so the drift is
	// accepted, same as the producer's fire-and-forget path.
	return s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}
