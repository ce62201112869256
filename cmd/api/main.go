package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/terrasocial/terra-ledger/internal/billing"
	"github.com/terrasocial/terra-ledger/internal/config"
	"github.com/terrasocial/terra-ledger/internal/httpx"
	kafkax "github.com/terrasocial/terra-ledger/internal/kafka"
	"github.com/terrasocial/terra-ledger/internal/ledger"
	"github.com/terrasocial/terra-ledger/internal/postgres"
	"github.com/terrasocial/terra-ledger/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// One producer per topic
	producers := []*kafkax.Producer{
		kafkax.NewProducer(cfg.KafkaBrokers, ledger.TopicPaymentRecorded, 1024),
		kafkax.NewProducer(cfg.KafkaBrokers, ledger.TopicReservationCreated, 1024),
		kafkax.NewProducer(cfg.KafkaBrokers, ledger.TopicLeadCaptured, 1024),
		kafkax.NewProducer(cfg.KafkaBrokers, ledger.TopicPropertySubmitted, 1024),
	}
	for _, p := range producers {
		p.Start(ctx)
	}

	svc := &billing.Service{
		Store:             &ledger.Repo{DB: db},
		Payments:          &ledger.PaymentRepo{DB: db},
		Redis:             rdb,
		PaymentEvents:     producers[0],
		ReservationEvents: producers[1],
		LeadEvents:        producers[2],
		PropertyEvents:    producers[3],
		ServiceName:       cfg.ServiceName,
	}

	router := httpx.NewRouter()
	httpx.NewLedgerHandler(svc).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // stop intake, flush buffered events
	}
	for _, p := range producers {
		p.WaitClosed()
	}
}
