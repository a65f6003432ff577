package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eoauman/sylman/internal/syllabus"
)

var (
	ErrNotFound = errors.New("syllabus not found")
)

// Repository defines persistence operations for syllabus records. Implemented
// by the in-memory store (tests, single-node dev) and the Mongo store.
type Repository interface {
	Create(ctx context.Context, rec *syllabus.Record) (string, error)
	Get(ctx context.Context, id string) (*syllabus.Record, error)
	ListByUser(ctx context.Context, userID string) ([]*syllabus.Record, error)
	ListAll(ctx context.Context) ([]*syllabus.Record, error)
	Update(ctx context.Context, id string, data *syllabus.Document, lastEdited string) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepo is a mutex-guarded map store used by unit tests and by the
// service when no MongoDB is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*syllabus.Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*syllabus.Record)}
}

func (m *MemoryRepo) Create(ctx context.Context, rec *syllabus.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	rec.SyllabusData.Normalize()
	stored := *rec
	stored.SyllabusData = *rec.SyllabusData.Clone()
	m.store[rec.ID] = &stored
	return rec.ID, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*syllabus.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	out.SyllabusData = *rec.SyllabusData.Clone()
	return &out, nil
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]*syllabus.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*syllabus.Record{}
	for _, rec := range m.store {
		if rec.UserID != userID {
			continue
		}
		cp := *rec
		cp.SyllabusData = *rec.SyllabusData.Clone()
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) ListAll(ctx context.Context) ([]*syllabus.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*syllabus.Record, 0, len(m.store))
	for _, rec := range m.store {
		cp := *rec
		cp.SyllabusData = *rec.SyllabusData.Clone()
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, data *syllabus.Document, lastEdited string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	rec.SyllabusData = *data.Clone()
	if lastEdited != "" {
		rec.SyllabusData.LastEdited = lastEdited
	}
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
