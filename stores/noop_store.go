package stores

import "time"

// NoopStore satisfies TraceStore without writing anything. Used when
// tracing is disabled (TRACE_STORE=off).
type NoopStore struct{}

// NewNoopStore creates a store that discards all traces.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (s *NoopStore) SaveTrace(trace *TurnTrace) error { return nil }

func (s *NoopStore) RecentTraces(limit int) ([]TurnTrace, error) {
	return []TurnTrace{}, nil
}

func (s *NoopStore) PruneBefore(cutoff time.Time) (int64, error) { return 0, nil }

func (s *NoopStore) Connect() error { return nil }
func (s *NoopStore) Close() error   { return nil }
func (s *NoopStore) Ping() error    { return nil }
