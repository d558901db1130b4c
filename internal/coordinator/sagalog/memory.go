package sagalog

import (
	"context"
	"sync"
)

// Memory is an in-process Repository, used when no durable journal is wanted
// and in tests.
type Memory struct {
	mu   sync.Mutex
	rows []SagaLog
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(_ context.Context, entry *SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *entry)
	return nil
}

func (m *Memory) GetLatest(_ context.Context, sagaID string) (*SagaLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].SagaID == sagaID {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindLatest(_ context.Context, ownerID string, status Status) ([]SagaLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var out []SagaLog
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := m.rows[i]
		if seen[row.SagaID] {
			continue
		}
		seen[row.SagaID] = true
		if row.OwnerID == ownerID && row.Status == status {
			out = append(out, row)
		}
	}
	return out, nil
}

// History returns every row of a saga, oldest first.
func (m *Memory) History(sagaID string) []SagaLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SagaLog
	for _, row := range m.rows {
		if row.SagaID == sagaID {
			out = append(out, row)
		}
	}
	return out
}
