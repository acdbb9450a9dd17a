package stores

import (
	"fmt"
)

// NewStore creates a new trace store based on the configuration
func NewStore(config *StoreConfig) (TraceStore, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteStore(config)
	case "postgres":
		return NewPostgresStore(config)
	case "off":
		return NewNoopStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// NewSQLiteStoreDefault creates a SQLite trace store with default settings
func NewSQLiteStoreDefault() (TraceStore, error) {
	return NewSQLiteStoreSimple("turn_traces.sqlite")
}

// NewPostgresStoreDefault creates a PostgreSQL trace store from connection parts
func NewPostgresStoreDefault(host, user, password, dbname string, port int) (TraceStore, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)
	return NewPostgresStoreSimple(dsn)
}
