// Package memory is an in-process incident store with the same contract as the
// Postgres one. It backs local runs and service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/geo"
	"emergencyHub/internal/incident"
	"emergencyHub/pkg/e"
)

type Store struct {
	mu        sync.RWMutex
	incidents map[uuid.UUID]domain.IncidentDocument
	checks    []domain.LocationCheck
	now       func() time.Time
}

func New() *Store {
	return &Store{
		incidents: make(map[uuid.UUID]domain.IncidentDocument),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Store) Create(_ context.Context, inc *incident.Incident) error {
	const op = "memory.Incident.Create"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.incidents[inc.ID()]; exists {
		return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
	}
	doc := inc.Document()
	doc.Version = 1
	m.incidents[doc.ID] = doc
	inc.SetVersion(1)
	return nil
}

func (m *Store) Get(_ context.Context, id uuid.UUID) (*incident.Incident, error) {
	const op = "memory.Incident.Get"

	m.mu.RLock()
	doc, ok := m.incidents[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return incident.Restore(doc)
}

// Save is a compare-and-swap on the version.
func (m *Store) Save(_ context.Context, inc *incident.Incident) error {
	const op = "memory.Incident.Save"

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.incidents[inc.ID()]
	if !ok {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	if stored.Version != inc.Version() {
		return fmt.Errorf("%s: %w", op, e.ErrConcurrentModification)
	}
	doc := inc.Document()
	doc.Version = stored.Version + 1
	m.incidents[doc.ID] = doc
	inc.SetVersion(doc.Version)
	return nil
}

func (m *Store) List(_ context.Context, page, limit int, status domain.Status) ([]*incident.Incident, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	docs := m.filter(func(d domain.IncidentDocument) bool {
		return status == "" || d.Status == status
	})
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ReportedAt.After(docs[j].ReportedAt)
	})

	total := int64(len(docs))
	start := min((page-1)*limit, len(docs))
	end := min(start+limit, len(docs))

	out, err := restoreAll(docs[start:end])
	return out, total, err
}

func (m *Store) ListActive(_ context.Context) ([]*incident.Incident, error) {
	return restoreAll(m.filter(func(d domain.IncidentDocument) bool {
		return d.Status.Active()
	}))
}

// FindNearby scans every incident; good enough for the sizes this store is used with.
func (m *Store) FindNearby(_ context.Context, center geo.Point, radiusMeters float64, limit int, activeOnly bool) ([]*incident.Incident, error) {
	const op = "memory.Incident.FindNearby"

	if err := geo.CheckPoint(center); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	candidates, err := restoreAll(m.filter(func(d domain.IncidentDocument) bool {
		return !activeOnly || d.Status.Active()
	}))
	if err != nil {
		return nil, err
	}

	nearby := geo.FindNearby(center, candidates, radiusMeters)
	out := make([]*incident.Incident, 0, min(len(nearby), limit))
	for _, n := range nearby {
		if len(out) == limit {
			break
		}
		out = append(out, n.Item)
	}
	return out, nil
}

func (m *Store) SaveCheck(_ context.Context, check *domain.LocationCheck) error {
	const op = "memory.LocationCheck.Save"

	if check == nil || check.UserID == "" {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
	if check.CheckedAt.IsZero() {
		check.CheckedAt = m.now()
	}

	m.mu.Lock()
	m.checks = append(m.checks, *check)
	m.mu.Unlock()
	return nil
}

func (m *Store) CountReported(_ context.Context, minutes int) (int64, error) {
	const op = "memory.Stats.CountReported"

	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	since := m.now().Add(-time.Duration(minutes) * time.Minute)
	return int64(len(m.filter(func(d domain.IncidentDocument) bool {
		return !d.ReportedAt.Before(since)
	}))), nil
}

func (m *Store) CountByStatus(_ context.Context) (map[domain.Status]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[domain.Status]int64, len(domain.Statuses))
	for _, d := range m.incidents {
		out[d.Status]++
	}
	return out, nil
}

func (m *Store) CountUniqueUsers(_ context.Context, minutes int) (int64, error) {
	const op = "memory.LocationCheck.CountUniqueUsers"

	if minutes <= 0 || minutes > 1440 {
		return 0, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	since := m.now().Add(-time.Duration(minutes) * time.Minute)

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make(map[string]struct{})
	for _, c := range m.checks {
		if !c.CheckedAt.Before(since) {
			users[c.UserID] = struct{}{}
		}
	}
	return int64(len(users)), nil
}

func (m *Store) filter(keep func(domain.IncidentDocument) bool) []domain.IncidentDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.IncidentDocument, 0, len(m.incidents))
	for _, d := range m.incidents {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func restoreAll(docs []domain.IncidentDocument) ([]*incident.Incident, error) {
	out := make([]*incident.Incident, 0, len(docs))
	for _, d := range docs {
		inc, err := incident.Restore(d)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, nil
}
