package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddress != ":3000" {
		t.Fatalf("unexpected default address %q", cfg.HTTPAddress)
	}
	if cfg.OutboxPollInterval != 2*time.Second {
		t.Fatalf("unexpected default poll interval %v", cfg.OutboxPollInterval)
	}
	if cfg.OutboxBatchSize != 25 {
		t.Fatalf("unexpected default batch size %d", cfg.OutboxBatchSize)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "kafka:9092" {
		t.Fatalf("unexpected default brokers %v", cfg.KafkaBrokers)
	}
	if cfg.KafkaBatchTimeout != 100*time.Millisecond {
		t.Fatalf("unexpected default batch timeout %v", cfg.KafkaBatchTimeout)
	}
	if cfg.KafkaWriteTimeout != 10*time.Second {
		t.Fatalf("unexpected default write timeout %v", cfg.KafkaWriteTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":8081")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg := Load()

	if cfg.HTTPAddress != ":8081" {
		t.Fatalf("expected :8081 got %q", cfg.HTTPAddress)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", cfg.OutboxPollInterval)
	}
	if cfg.OutboxBatchSize != 25 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.OutboxBatchSize)
	}
}
