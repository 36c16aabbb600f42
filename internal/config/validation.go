package config

import (
	"fmt"
	"strings"
)

// InvalidValue describes a setting outside its accepted set.
type InvalidValue struct {
	Key     string
	Value   string
	Allowed []string
}

// ValidationErrors collects all validation errors
type ValidationErrors struct {
	InvalidValues []InvalidValue
	Problems      []string
}

// HasErrors returns true if any validation errors exist
func (e *ValidationErrors) HasErrors() bool {
	return len(e.InvalidValues) > 0 || len(e.Problems) > 0
}

// Error formats all validation errors into a clear message
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")

	if len(e.InvalidValues) > 0 {
		sb.WriteString("\nInvalid values:\n")
		for _, iv := range e.InvalidValues {
			sb.WriteString(fmt.Sprintf("  - %s=%q (valid: %s)\n", iv.Key, iv.Value, strings.Join(iv.Allowed, ", ")))
		}
	}

	if len(e.Problems) > 0 {
		sb.WriteString("\nProblems:\n")
		for _, p := range e.Problems {
			sb.WriteString(fmt.Sprintf("  - %s\n", p))
		}
	}

	return sb.String()
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	checkOneOf(errs, "store.backend", c.Store.Backend, ValidStoreBackends)
	checkOneOf(errs, "logging.level", c.Logging.Level, ValidLogLevels)

	if c.Server.Port == "" {
		errs.Problems = append(errs.Problems, "server.port is required")
	}
	if c.Server.WriteRatePerSecond < 0 {
		errs.Problems = append(errs.Problems, "server.write_rate_per_second must be >= 0 (0 disables limiting)")
	}
	if c.Server.WriteRatePerSecond > 0 && c.Server.WriteBurst < 1 {
		errs.Problems = append(errs.Problems, "server.write_burst must be >= 1 when rate limiting is enabled")
	}
	if c.Store.Backend == StoreRedis && c.Store.RedisAddr == "" {
		errs.Problems = append(errs.Problems, "store.redis_addr is required for the redis backend")
	}
	if c.Stream.QueueSize < 1 {
		errs.Problems = append(errs.Problems, "stream.queue_size must be >= 1")
	}
	if c.Stream.Retention < 0 {
		errs.Problems = append(errs.Problems, "stream.retention must be >= 0 (0 keeps every event)")
	}
	if c.Stream.WSEnabled && c.Stream.WSPingInterval < 1 {
		errs.Problems = append(errs.Problems, "stream.ws_ping_interval_sec must be >= 1")
	}
	if c.Client.Workers < 1 {
		errs.Problems = append(errs.Problems, "client.workers must be >= 1")
	}

	if c.Notify.Enabled {
		if c.Notify.Topic == "" {
			errs.Problems = append(errs.Problems, "notify.topic is required when notify.enabled=true (set CATALOG_NOTIFY_TOPIC)")
		}
		checkOneOf(errs, "notify.priority", c.Notify.Priority, ValidNotifyPriorities)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func checkOneOf(errs *ValidationErrors, key, value string, allowed []string) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	errs.InvalidValues = append(errs.InvalidValues, InvalidValue{Key: key, Value: value, Allowed: allowed})
}
