package order

import "sync"

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	// ListByIDs returns the orders whose id is present in the provided
	// slice, ordered the same way as the ids argument. An empty slice
	// returns an empty result without hitting the store.
	ListByIDs(ids []int) ([]Order, error)
	// UpdateStatus changes the fulfilment state (admin surface).
	UpdateStatus(id int, status Status, updatedAt string) (Order, error)
	// UpdatePayment records the reconciled payment outcome together with the
	// gateway identifiers that prove it.
	UpdatePayment(id int, ps PaymentStatus, status Status, gatewayOrderID, gatewayPaymentID, updatedAt string) (Order, error)
	// SetPaymentMethod rewrites the payment method (COD fallback when the
	// gateway is unconfigured).
	SetPaymentMethod(id int, method, updatedAt string) (Order, error)
	// SetGatewayOrderID attaches (or supersedes) the live gateway session id.
	SetGatewayOrderID(id int, gatewayOrderID, updatedAt string) (Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	nextID int
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{orders: make([]Order, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, o := range seed {
		r.orders = append(r.orders, o)
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ord.ID == 0 {
		ord.ID = r.nextID
		r.nextID++
	}
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Order, error) {
	if len(ids) == 0 {
		return []Order{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		for _, o := range r.orders {
			if o.ID == id {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status Status, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = updatedAt
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) UpdatePayment(id int, ps PaymentStatus, status Status, gatewayOrderID, gatewayPaymentID, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].PaymentStatus = ps
			r.orders[i].Status = status
			r.orders[i].GatewayOrderID = gatewayOrderID
			r.orders[i].GatewayPaymentID = gatewayPaymentID
			r.orders[i].UpdatedAt = updatedAt
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) SetPaymentMethod(id int, method, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].PaymentMethod = method
			r.orders[i].UpdatedAt = updatedAt
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) SetGatewayOrderID(id int, gatewayOrderID, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].GatewayOrderID = gatewayOrderID
			r.orders[i].UpdatedAt = updatedAt
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}
