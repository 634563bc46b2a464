package checkout

import (
	"errors"
	"log"
	"strings"

	"github.com/ovenfresh/bakery-shop-backend/internal/cart"
	"github.com/ovenfresh/bakery-shop-backend/internal/order"
	"github.com/ovenfresh/bakery-shop-backend/internal/payment"
	"github.com/ovenfresh/bakery-shop-backend/internal/user"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartAccess is the slice of the cart service checkout needs: read the lines
// for the order snapshot and clear them once the order is settled.
type CartAccess interface {
	Lines(userID int) ([]cart.Line, error)
	Clear(userID int) error
}

// OrderSubmitter creates orders and downgrades them to cash-on-delivery when
// the gateway cannot serve.
type OrderSubmitter interface {
	Submit(userID int, items []order.Item, in order.SubmitInput) (order.Order, error)
	FallbackToCOD(id int) (order.Order, error)
}

// PaymentStarter opens a gateway session for a submitted order. The bool is
// false when no gateway is configured.
type PaymentStarter interface {
	CreateSession(ord order.Order) (payment.Session, bool, error)
}

// ProfileReader supplies the stored profile used to prefill the first
// wizard step. *user.Service satisfies it.
type ProfileReader interface {
	GetByID(id int) (user.User, error)
}

// SubmitResult is the terminal answer of one submission attempt.
type SubmitResult struct {
	Order order.Order `json:"order"`
	// PaymentMethod is the method the order actually ended up with, which
	// differs from the draft when the gateway fallback kicked in.
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	// GatewayUnavailable marks the silent downgrade to cash-on-delivery.
	GatewayUnavailable bool `json:"gatewayUnavailable,omitempty"`
	// Payment is set only when an online session was opened; the checkout
	// stays in the submitting state until the gateway reports back.
	Payment *payment.Session `json:"payment,omitempty"`
}

// Service drives the checkout wizard and orchestrates submission across the
// cart, order and payment services.
type Service struct {
	sessions *SessionStore
	carts    CartAccess
	orders   OrderSubmitter
	payments PaymentStarter
	profiles ProfileReader
}

func NewService(sessions *SessionStore, carts CartAccess, orders OrderSubmitter, payments PaymentStarter, profiles ProfileReader) *Service {
	return &Service{
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		payments: payments,
		profiles: profiles,
	}
}

// Open starts (or resumes) the wizard. An empty cart is rejected at the door
// so the wizard never runs against nothing to buy.
func (s *Service) Open(userID int) (Session, error) {
	lines, err := s.carts.Lines(userID)
	if err != nil {
		return Session{}, err
	}
	if len(lines) == 0 {
		return Session{}, ErrEmptyCart
	}

	var prefill Contact
	if s.profiles != nil {
		if u, perr := s.profiles.GetByID(userID); perr == nil {
			prefill = Contact{
				Name:  strings.TrimSpace(u.FirstName + " " + u.LastName),
				Email: u.Email,
				Phone: u.Phone,
			}
		}
	}
	return s.sessions.Open(userID, prefill), nil
}

func (s *Service) Get(userID int) (Session, error) {
	return s.sessions.Get(userID)
}

func (s *Service) SetContact(userID int, c Contact) (Session, error) {
	return s.sessions.SetContact(userID, c)
}

func (s *Service) SetDelivery(userID int, a Address, notes string) (Session, error) {
	return s.sessions.SetDelivery(userID, a, notes)
}

func (s *Service) SetPaymentMethod(userID int, m PaymentMethod) (Session, error) {
	return s.sessions.SetPaymentMethod(userID, m)
}

func (s *Service) Back(userID int) (Session, error) {
	return s.sessions.Back(userID)
}

// Close aborts the wizard. The cart is untouched; only the draft is lost.
func (s *Service) Close(userID int) error {
	return s.sessions.Close(userID)
}

// Submit runs the whole submission once per user at a time:
//
//	cash on delivery  -> order created, cart cleared, checkout completed
//	online, gateway up -> order created, session opened, checkout stays
//	                      submitting until the gateway outcome arrives
//	online, no gateway -> order downgraded to cash on delivery and settled
//
// Any failure before settlement returns the session to the payment step with
// the draft intact, so nothing the user typed is lost.
func (s *Service) Submit(userID int) (SubmitResult, error) {
	draft, err := s.sessions.BeginSubmit(userID)
	if err != nil {
		return SubmitResult{}, err
	}

	res, err := s.submit(userID, draft)
	if err != nil {
		s.sessions.Fail(userID)
		return SubmitResult{}, err
	}
	return res, nil
}

func (s *Service) submit(userID int, draft Draft) (SubmitResult, error) {
	lines, err := s.carts.Lines(userID)
	if err != nil {
		return SubmitResult{}, err
	}
	if len(lines) == 0 {
		return SubmitResult{}, ErrEmptyCart
	}

	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
		})
	}

	in := order.SubmitInput{
		Contact: order.Contact{
			Name:  strings.TrimSpace(draft.Contact.Name),
			Email: strings.TrimSpace(draft.Contact.Email),
			Phone: strings.TrimSpace(draft.Contact.Phone),
		},
		Shipping: order.ShippingAddress{
			Street:  draft.Address.Street,
			City:    draft.Address.City,
			State:   draft.Address.State,
			Pincode: draft.Address.Pincode,
			Country: draft.Address.Country,
		},
		PaymentMethod: string(draft.PaymentMethod),
		Notes:         draft.Notes,
	}

	ord, err := s.orders.Submit(userID, items, in)
	if err != nil {
		return SubmitResult{}, err
	}

	if draft.PaymentMethod == MethodCOD {
		s.settle(userID)
		return SubmitResult{Order: ord, PaymentMethod: MethodCOD}, nil
	}

	sess, configured, err := s.payments.CreateSession(ord)
	if err != nil {
		// the order exists but no session could be opened; the user can
		// retry the payment from their orders page
		return SubmitResult{}, err
	}
	if !configured {
		downgraded, err := s.orders.FallbackToCOD(ord.ID)
		if err != nil {
			return SubmitResult{}, err
		}
		s.settle(userID)
		return SubmitResult{
			Order:              downgraded,
			PaymentMethod:      MethodCOD,
			GatewayUnavailable: true,
		}, nil
	}

	// online payment: the cart and session stay put until the gateway
	// outcome is reconciled
	return SubmitResult{Order: ord, PaymentMethod: MethodOnline, Payment: &sess}, nil
}

// settle finishes a checkout that needs no further payment step.
func (s *Service) settle(userID int) {
	if err := s.carts.Clear(userID); err != nil {
		log.Printf("checkout: could not clear cart for user %d: %v", userID, err)
	}
	s.sessions.Complete(userID)
}
