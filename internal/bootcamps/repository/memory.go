package repository

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/devcamper/backend/go-services/internal/models"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

// MemoryRepo is an in-memory repository used when no MongoDB URI is
// configured and in tests. It evaluates queries with the same semantics as
// the Mongo filter it would otherwise render.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]*models.Bootcamp
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]*models.Bootcamp)}
}

func clone(b *models.Bootcamp) *models.Bootcamp {
	c := *b
	c.Careers = append([]string(nil), b.Careers...)
	if b.Location != nil {
		loc := *b.Location
		loc.Coordinates = append([]float64(nil), b.Location.Coordinates...)
		c.Location = &loc
	}
	return &c
}

// nameTaken must be called with the lock held. Names are unique case-sensitively, like the Mongo index.
func (m *MemoryRepo) nameTaken(name string, except primitive.ObjectID) bool {
	for id, b := range m.store {
		if id != except && b.Name == name {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) Create(ctx context.Context, b *models.Bootcamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[b.ID]; ok || m.nameTaken(b.Name, b.ID) {
		return ErrDuplicate
	}
	m.store[b.ID] = clone(b)
	return nil
}

func (m *MemoryRepo) InsertMany(ctx context.Context, bs []*models.Bootcamp) error {
	for _, b := range bs {
		if err := m.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.Bootcamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.store[id]; ok {
		return clone(b), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Find(ctx context.Context, q *query.Query) ([]*models.Bootcamp, int64, error) {
	m.mu.RLock()
	all := make([]*models.Bootcamp, 0, len(m.store))
	for _, b := range m.store {
		all = append(all, clone(b))
	}
	m.mu.RUnlock()
	// ObjectIDs grow over time, so this is insertion order
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })
	return query.Apply(q, all)
}

func (m *MemoryRepo) Replace(ctx context.Context, b *models.Bootcamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[b.ID]; !ok {
		return ErrNotFound
	}
	if m.nameTaken(b.Name, b.ID) {
		return ErrDuplicate
	}
	m.store[b.ID] = clone(b)
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
	m.store = make(map[primitive.ObjectID]*models.Bootcamp)
	return n, nil
}

func (m *MemoryRepo) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.BootcampSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[primitive.ObjectID]*models.BootcampSummary, len(ids))
	for _, id := range ids {
		if b, ok := m.store[id]; ok {
			out[id] = &models.BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
		}
	}
	return out, nil
}
