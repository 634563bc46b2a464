package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyOrder = errors.New("order has no items")

// SubmitInput carries the checkout draft fields the order snapshots.
type SubmitInput struct {
	Contact       Contact
	Shipping      ShippingAddress
	PaymentMethod string
	Notes         string
}

// Service provides business logic for orders.
type Service struct {
	repo    Repository
	pricing PricingPolicy
}

func NewService(repo Repository, pricing PricingPolicy) *Service {
	return &Service{repo: repo, pricing: pricing}
}

// Submit turns snapshotted cart items plus the checkout draft into a
// persisted order in pending/pending state. Prices are computed here from
// the injected policy. A store refusal comes back wrapped in ErrRejected so
// callers keep the cart and draft for a retry.
//
// There is no client-supplied idempotency key on the create path; callers
// must enforce single-flight submission per user to avoid duplicates.
func (s *Service) Submit(userID int, items []Item, in SubmitInput) (Order, error) {
	if userID <= 0 {
		return Order{}, fmt.Errorf("%w: invalid user", ErrRejected)
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	var itemsPrice float64
	for _, it := range items {
		itemsPrice += it.UnitPrice * float64(it.Quantity)
	}
	tax, shipping, total := s.pricing.Quote(itemsPrice)

	now := time.Now().UTC().Format(time.RFC3339)
	ord := Order{
		UserID:        userID,
		Reference:     uuid.NewString(),
		Items:         items,
		Contact:       in.Contact,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		ItemsPrice:    itemsPrice,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    total,
		PaymentStatus: PaymentPending,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Create(ord)
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return created, nil
}

func (s *Service) GetByID(id int) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.ListByUser(userID)
}

func (s *Service) ListByIDs(ids []int) ([]Order, error) {
	return s.repo.ListByIDs(ids)
}

// UpdateStatus moves the fulfilment state (admin action).
func (s *Service) UpdateStatus(id int, status Status) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrRejected, status)
	}
	return s.repo.UpdateStatus(id, status, time.Now().UTC().Format(time.RFC3339))
}

// FallbackToCOD rewrites an order to cash-on-delivery when the gateway is
// unavailable server-side.
func (s *Service) FallbackToCOD(id int) (Order, error) {
	return s.repo.SetPaymentMethod(id, "cod", time.Now().UTC().Format(time.RFC3339))
}
