package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/terrasocial/terra-ledger/internal/ledger"
	"github.com/terrasocial/terra-ledger/internal/redisx"
)

type fakeCache struct {
	strs map[string]string
	ints map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{strs: map[string]string{}, ints: map[string]int64{}}
}

func (f *fakeCache) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.strs[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.strs[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCache) Incr(_ context.Context, key string) *redis.IntCmd {
	f.ints[key]++
	return redis.NewIntResult(f.ints[key], nil)
}

func (f *fakeCache) IncrBy(_ context.Context, key string, value int64) *redis.IntCmd {
	f.ints[key] += value
	return redis.NewIntResult(f.ints[key], nil)
}

func newWorker() (*Service, *fakeCache) {
	cache := newFakeCache()
	return &Service{Redis: cache, ServiceName: "ledger-api-worker"}, cache
}

func message(t *testing.T, eventID, eventType string, payload any) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	b, err := json.Marshal(ledger.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "ledger-api-test",
		Payload:      raw,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return kafkago.Message{Value: b}
}

func TestHandleEventPaymentRecorded(t *testing.T) {
	svc, cache := newWorker()
	m := message(t, "ev-1", ledger.EventPaymentRecorded, ledger.PaymentRecordedPayload{
		PaymentID: "pay-1", UserID: "u1", Amount: 21000, Method: "mobile_money",
		Status: "paid", Reference: "TRX-9F3A01BC", ReliabilityScore: 75,
	})

	if err := svc.HandleEvent(context.Background(), m); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := cache.strs[fmt.Sprintf(redisx.KeyUserScore, "u1")]; got != "75" {
		t.Fatalf("expected score cache 75, got %q", got)
	}
	if got := cache.ints[redisx.KeyPaymentsTotal]; got != 1 {
		t.Fatalf("expected payments counter 1, got %d", got)
	}
	if got := cache.ints[redisx.KeyPaymentsAmount]; got != 21000 {
		t.Fatalf("expected amount counter 21000, got %d", got)
	}
	dkey := fmt.Sprintf(redisx.KeyDedup, "ledger-api-worker", "ev-1")
	if _, ok := cache.strs[dkey]; !ok {
		t.Fatal("expected dedup marker after processing")
	}
}

func TestHandleEventDuplicateCountedOnce(t *testing.T) {
	svc, cache := newWorker()
	m := message(t, "ev-1", ledger.EventPaymentRecorded, ledger.PaymentRecordedPayload{
		UserID: "u1", Amount: 5000, ReliabilityScore: 100,
	})

	for i := 0; i < 3; i++ {
		if err := svc.HandleEvent(context.Background(), m); err != nil {
			t.Fatalf("HandleEvent redelivery %d: %v", i, err)
		}
	}
	if got := cache.ints[redisx.KeyPaymentsTotal]; got != 1 {
		t.Fatalf("redelivered event counted %d times", got)
	}
	if got := cache.ints[redisx.KeyPaymentsAmount]; got != 5000 {
		t.Fatalf("expected amount counter 5000, got %d", got)
	}
}

func TestHandleEventIntakeCounters(t *testing.T) {
	cases := []struct {
		eventType string
		key       string
	}{
		{ledger.EventReservationCreated, redisx.KeyReservationsTotal},
		{ledger.EventLeadCaptured, redisx.KeyLeadsTotal},
		{ledger.EventPropertySubmitted, redisx.KeyPropertiesTotal},
	}
	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			svc, cache := newWorker()
			m := message(t, "ev-1", tc.eventType, map[string]string{})
			if err := svc.HandleEvent(context.Background(), m); err != nil {
				t.Fatalf("HandleEvent: %v", err)
			}
			if got := cache.ints[tc.key]; got != 1 {
				t.Fatalf("expected %s = 1, got %d", tc.key, got)
			}
		})
	}
}

func TestHandleEventUnknownTypeCommitsWithoutSideEffects(t *testing.T) {
	svc, cache := newWorker()
	m := message(t, "ev-1", "SomethingElse", map[string]string{})

	if err := svc.HandleEvent(context.Background(), m); err != nil {
		t.Fatalf("unknown event must commit, got %v", err)
	}
	if len(cache.strs) != 0 || len(cache.ints) != 0 {
		t.Fatalf("unknown event must leave no keys, got strs=%v ints=%v", cache.strs, cache.ints)
	}
}

func TestHandleEventBadEnvelope(t *testing.T) {
	svc, _ := newWorker()
	err := svc.HandleEvent(context.Background(), kafkago.Message{Value: []byte("not json")})
	if err == nil {
		t.Fatal("expected decode error for malformed envelope")
	}
}
