package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/mkravets/docbooking/internal/domain"
)

// Memory is an in-process ledger guarded by a single mutex. It serves unit
// tests and single-node deployments; multi-node deployments use Redis.
type Memory struct {
	mu    sync.Mutex
	holds map[domain.SlotKey]string
}

func NewMemory() *Memory {
	return &Memory{holds: make(map[domain.SlotKey]string)}
}

func (m *Memory) TryHold(_ context.Context, key domain.SlotKey, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.holds[key]; held {
		return ErrConflict
	}
	m.holds[key] = appointmentID
	return nil
}

func (m *Memory) Release(_ context.Context, key domain.SlotKey, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	holder, held := m.holds[key]
	if !held {
		return ErrNotHeld
	}
	if holder != appointmentID {
		return ErrMismatch
	}
	delete(m.holds, key)
	return nil
}

func (m *Memory) IsHeld(_ context.Context, key domain.SlotKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, held := m.holds[key]
	return held, nil
}

func (m *Memory) HeldTimes(_ context.Context, doctorID int64, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	times := make([]string, 0)
	for key := range m.holds {
		if key.DoctorID == doctorID && key.Date == date {
			times = append(times, key.Time)
		}
	}
	sort.Strings(times)
	return times, nil
}

var _ SlotLedger = (*Memory)(nil)
