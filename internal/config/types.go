package config

// Store backends
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
	StoreRedis  = "redis"
)

// ValidStoreBackends lists the accepted store.backend values.
var ValidStoreBackends = []string{StoreMemory, StoreBadger, StoreRedis}

// ValidLogLevels lists the accepted logging.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidNotifyPriorities lists the ntfy priorities accepted by notify.priority.
var ValidNotifyPriorities = []string{"min", "low", "default", "high", "urgent"}
