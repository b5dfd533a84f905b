package audit

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryLimit is used when NewMemoryStore is given no positive limit.
const DefaultMemoryLimit = 5000

// MemoryStore keeps the most recent records in process memory. It is used
// when no Firestore project is configured. Once limit records are held, each
// new record replaces the oldest one.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	next    int
	limit   int
	now     func() time.Time
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemoryStore{limit: limit, now: time.Now}
}

func (m *MemoryStore) Add(_ context.Context, r Record) (string, error) {
	r, err := prepare(r, m.now)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	if len(m.records) < m.limit {
		m.records = append(m.records, r)
	} else {
		m.records[m.next] = r
		m.next = (m.next + 1) % m.limit
	}
	m.mu.Unlock()
	return r.ID, nil
}

func (m *MemoryStore) ListByCommand(_ context.Context, command string) ([]Record, error) {
	return m.filter(func(r Record) bool { return r.Command == command }), nil
}

func (m *MemoryStore) ListByGuild(_ context.Context, guildID string) ([]Record, error) {
	return m.filter(func(r Record) bool { return r.GuildID == guildID }), nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) filter(keep func(Record) bool) []Record {
	m.mu.RLock()
	out := make([]Record, 0)
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()
	sortByExecution(out)
	return out
}
