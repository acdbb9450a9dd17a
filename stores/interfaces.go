// Package stores persists per-turn diagnostics. Conversation content is
// never stored: history is client-authoritative and reconstructed per
// request. A trace records only operational metadata about a turn.
package stores

import (
	"time"

	"gorm.io/gorm"
)

// TurnTrace is one dispatcher turn: which channel it came from, which tool
// (if any) ran, how it ended and how long it took.
type TurnTrace struct {
	gorm.Model
	ConversationID string `gorm:"index;not null" json:"conversation_id"`
	TurnID         string `gorm:"index;not null" json:"turn_id"`
	Channel        string `gorm:"not null" json:"channel"` // "chat", "voice"
	ToolName       string `json:"tool_name,omitempty"`
	Status         string `gorm:"not null" json:"status"` // "ok", "error"
	Detail         string `gorm:"type:text" json:"detail,omitempty"`
	DurationMS     int64  `json:"duration_ms"`
}

// TraceStore abstracts trace persistence so the dispatcher doesn't care
// which driver backs it (or whether tracing is enabled at all).
type TraceStore interface {
	SaveTrace(trace *TurnTrace) error
	RecentTraces(limit int) ([]TurnTrace, error)
	PruneBefore(cutoff time.Time) (int64, error)

	Connect() error
	Close() error
	Ping() error
}

// StoreConfig holds configuration for trace stores.
type StoreConfig struct {
	Type       string `json:"type"`       // "sqlite", "postgres", "off"
	Connection string `json:"connection"` // file path or DSN
}

// NewStoreConfig creates a new store configuration.
func NewStoreConfig(storeType, connection string) *StoreConfig {
	return &StoreConfig{
		Type:       storeType,
		Connection: connection,
	}
}
