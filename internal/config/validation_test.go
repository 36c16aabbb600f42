package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Server:  ServerConfig{Port: "8080", WriteBurst: 20},
		Store:   StoreConfig{Backend: StoreMemory},
		Stream:  StreamConfig{QueueSize: 256, WSEnabled: true, WSPingInterval: 54},
		Client:  ClientConfig{Workers: 4},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error for valid config, got: %v", err)
	}
}

func TestValidate_InvalidBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "mongo"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid backend")
	}
	if !strings.Contains(err.Error(), `store.backend="mongo"`) {
		t.Errorf("error should mention the invalid backend, got: %v", err)
	}
	if !strings.Contains(err.Error(), "memory, badger, redis") {
		t.Errorf("error should list valid backends, got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Stream.QueueSize = 0
	cfg.Stream.Retention = -1
	cfg.Notify.Enabled = true
	cfg.Notify.Priority = "urgent"

	err := cfg.Validate()
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}

	if len(verrs.InvalidValues) != 1 {
		t.Errorf("expected 1 invalid value, got %+v", verrs.InvalidValues)
	}
	if len(verrs.Problems) != 3 {
		t.Errorf("expected 3 problems, got %+v", verrs.Problems)
	}
	for _, want := range []string{"logging.level", "stream.queue_size", "stream.retention", "notify.topic"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestValidate_RateLimitNeedsBurst(t *testing.T) {
	cfg := validConfig()
	cfg.Server.WriteRatePerSecond = 10
	cfg.Server.WriteBurst = 0

	if err := cfg.Validate(); err == nil {
		t.Error("expected error when rate limiting has no burst")
	}
}

func TestValidate_WSPingIgnoredWhenDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Stream.WSEnabled = false
	cfg.Stream.WSPingInterval = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled websocket should not be validated, got: %v", err)
	}
}
