package repository

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]models.Course
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]models.Course)}
}

func (m *MemoryRepo) Create(ctx context.Context, c *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[c.ID] = *c
	return nil
}

func (m *MemoryRepo) InsertMany(ctx context.Context, cs []*models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cs {
		m.store[c.ID] = *c
	}
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryRepo) Find(ctx context.Context, q *query.Query) ([]*models.Course, int64, error) {
	m.mu.RLock()
	all := make([]*models.Course, 0, len(m.store))
	for _, c := range m.store {
		c := c
		all = append(all, &c)
	}
	m.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return query.Apply(q, all)
}

func (m *MemoryRepo) Replace(ctx context.Context, c *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[c.ID]; !ok {
		return ErrNotFound
	}
	m.store[c.ID] = *c
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.store))
	m.store = make(map[primitive.ObjectID]models.Course)
	return n, nil
}
