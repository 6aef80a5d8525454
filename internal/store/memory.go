package store

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// MemoryStore is the single-instance fallback when Redis is not configured.
// Records older than the TTL are treated as absent.
type MemoryStore struct {
	mu      sync.RWMutex
	history map[string][]entry
	ttl     time.Duration
	limit   int
	now     func() time.Time
}

type entry struct {
	record   models.AuditRecord
	storedAt time.Time
}

func NewMemoryStore(ttl time.Duration, historyLimit int) *MemoryStore {
	if historyLimit <= 0 {
		historyLimit = DefaultHistory
	}
	return &MemoryStore{
		history: make(map[string][]entry),
		ttl:     ttl,
		limit:   historyLimit,
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(_ context.Context, rec models.AuditRecord) error {
	if err := validate(rec); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := rec.Deployment.Key()
	list := append([]entry{{record: rec, storedAt: m.now()}}, m.history[key]...)
	if len(list) > m.limit {
		list = list[:m.limit]
	}
	m.history[key] = list
	return nil
}

func (m *MemoryStore) GetLatest(_ context.Context, ref models.DeploymentRef) (models.AuditRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.history[ref.Key()]
	if len(list) == 0 || m.expired(list[0]) {
		return models.AuditRecord{}, false, nil
	}
	return list[0].record, true, nil
}

func (m *MemoryStore) Recent(_ context.Context, ref models.DeploymentRef, limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		return []models.AuditRecord{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.AuditRecord, 0, min(limit, len(m.history[ref.Key()])))
	for _, e := range m.history[ref.Key()] {
		if len(out) >= limit || m.expired(e) {
			break
		}
		out = append(out, e.record)
	}
	return out, nil
}

func (m *MemoryStore) expired(e entry) bool {
	return m.ttl > 0 && m.now().Sub(e.storedAt) > m.ttl
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
