package cart

import "sync"

// Repository persists cart lines per user. Mutation logic lives in the
// service; implementations only load and store.
type Repository interface {
	Get(userID int) ([]Line, error)
	Save(userID int, lines []Line, updatedAt string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int][]Line
	known map[int]bool
}

// NewInMemoryRepository seeds carts for the given user IDs. Users absent
// from the seed are unknown and produce ErrNotFound.
func NewInMemoryRepository(seed map[int][]Line) *InMemoryRepository {
	r := &InMemoryRepository{carts: make(map[int][]Line), known: make(map[int]bool)}
	for id, lines := range seed {
		r.known[id] = true
		r.carts[id] = append([]Line{}, lines...)
	}
	return r
}

func (r *InMemoryRepository) Get(userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.known[userID] {
		return nil, ErrNotFound
	}
	out := make([]Line, len(r.carts[userID]))
	copy(out, r.carts[userID])
	return out, nil
}

func (r *InMemoryRepository) Save(userID int, lines []Line, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[userID] {
		return ErrNotFound
	}
	r.carts[userID] = append([]Line{}, lines...)
	return nil
}
