package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
)

func TestOpenStorageMemory(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StorageMemory, LockTimeout: time.Second}

	storage, closeFn, err := openStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if storage.Wallets == nil || storage.TxManager == nil || storage.Outbox == nil {
		t.Fatalf("expected memory storage to be fully wired: %+v", storage)
	}
	if err := storage.DB.Ping(context.Background()); err != nil {
		t.Fatalf("expected memory store to be reachable: %v", err)
	}
}

func TestOpenStorageInvalidDatabaseURL(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StoragePostgres, DatabaseURL: "://bad", DatabaseTimeout: time.Second}

	if _, _, err := openStorage(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for invalid database url")
	}
}

func TestNewPublisher(t *testing.T) {
	publisher, closeFn := newPublisher(&config.Config{}, zerolog.Nop())
	defer closeFn()
	if _, ok := publisher.(*eventpublisher.LogPublisher); !ok {
		t.Fatalf("expected log publisher without brokers, got %T", publisher)
	}

	publisher, closeFn = newPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "wallet-events"}, zerolog.Nop())
	defer closeFn()
	if _, ok := publisher.(*eventpublisher.KafkaPublisher); !ok {
		t.Fatalf("expected kafka publisher with brokers, got %T", publisher)
	}
}
