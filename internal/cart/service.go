package cart

import (
	"sync"
	"time"

	"github.com/ovenfresh/bakery-shop-backend/internal/product"
)

// ProductCatalog is the slice of the product service the cart needs to
// snapshot line details at add time.
type ProductCatalog interface {
	GetByID(id int) (product.Product, error)
}

// Service owns all cart mutations. A single mutex serializes writes so no
// two mutations interleave mid-update; derived totals are recomputed on
// every read.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	catalog ProductCatalog
}

func NewService(repo Repository, catalog ProductCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Get returns the current cart with derived totals.
func (s *Service) Get(userID int) (Cart, error) {
	lines, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}
	return Snapshot(lines), nil
}

// Lines returns the raw lines, used by checkout to build the order snapshot.
func (s *Service) Lines(userID int) ([]Line, error) {
	return s.repo.Get(userID)
}

// AddItem adds one unit of a product. An existing line for the product gets
// its quantity incremented instead of a duplicate line. The returned cart is
// the user-visible confirmation.
func (s *Service) AddItem(userID, productID int) (Cart, error) {
	p, err := s.catalog.GetByID(productID)
	if err != nil {
		return Cart{}, ErrProductNotFound
	}

	line := Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: float64(p.Price),
		Quantity:  1,
	}
	if p.Pic != nil {
		line.ImageRef = *p.Pic
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}
	lines = addLine(lines, line)
	if err := s.repo.Save(userID, lines, now()); err != nil {
		return Cart{}, err
	}
	return Snapshot(lines), nil
}

// SetQuantity replaces a line's quantity. Zero or below removes the line.
func (s *Service) SetQuantity(userID, productID, qty int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}
	lines = setQuantity(lines, productID, qty)
	if err := s.repo.Save(userID, lines, now()); err != nil {
		return Cart{}, err
	}
	return Snapshot(lines), nil
}

// RemoveItem deletes a line. Removing an absent product is a no-op.
func (s *Service) RemoveItem(userID, productID int) (Cart, error) {
	return s.SetQuantity(userID, productID, 0)
}

// Clear empties the cart in one write. Called on explicit clear and exactly
// once per confirmed order completion.
func (s *Service) Clear(userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Save(userID, []Line{}, now())
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
