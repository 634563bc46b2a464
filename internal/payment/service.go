package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ovenfresh/bakery-shop-backend/internal/order"
)

var (
	// ErrVerificationFailed means the gateway claimed success but the
	// signature check disagreed. Nothing is marked paid on this path.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrDeclined is surfaced for a gateway-refused charge; the order stays
	// pending so the user can retry.
	ErrDeclined = errors.New("payment declined")
	// ErrOrderNotPayable guards session creation for orders that are not in
	// pending online-payment state.
	ErrOrderNotPayable = errors.New("order is not awaiting payment")
)

// Session is the client-facing handle for one payment attempt.
type Session struct {
	GatewayOrderID string  `json:"gatewayOrderId"`
	OrderID        int     `json:"orderId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"keyId"`
}

// CartClearer is the one cart operation the reconciler needs after a
// confirmed payment.
type CartClearer interface {
	Clear(userID int) error
}

// CheckoutCompleter lets the reconciler move the user's checkout session
// after a terminal gateway outcome: completed on verified payment, back to
// the payment step on decline or dismissal.
type CheckoutCompleter interface {
	CompleteAfterPayment(userID int)
	ReturnToPayment(userID int)
}

// Service creates gateway sessions and reconciles gateway-reported results
// against the order store. Verification fails closed: an unverifiable
// success signal never marks an order paid.
type Service struct {
	gateway   Gateway
	keyID     string
	keySecret string
	currency  string
	orders    order.Repository
	carts     CartClearer
	checkout  CheckoutCompleter
}

func NewService(gateway Gateway, keyID, keySecret, currency string, orders order.Repository, carts CartClearer, checkout CheckoutCompleter) *Service {
	return &Service{
		gateway:   gateway,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		orders:    orders,
		carts:     carts,
		checkout:  checkout,
	}
}

// CreateSession opens a gateway order for ord and records the session id on
// the order, superseding any previous session for it. The second return is
// false when the gateway is unconfigured; the gateway is never touched on
// that path and callers fall back to cash-on-delivery.
func (s *Service) CreateSession(ord order.Order) (Session, bool, error) {
	if !s.gateway.Configured() {
		return Session{}, false, nil
	}

	gw, err := s.gateway.CreateOrder(ord.TotalPrice, s.currency, ord.Reference)
	if err != nil {
		return Session{}, true, err
	}

	if _, err := s.orders.SetGatewayOrderID(ord.ID, gw.ID, now()); err != nil {
		return Session{}, true, err
	}

	return Session{
		GatewayOrderID: gw.ID,
		OrderID:        ord.ID,
		Amount:         ord.TotalPrice,
		Currency:       gw.Currency,
		KeyID:          s.keyID,
	}, true, nil
}

// RetryPayment opens a fresh gateway session for an existing pending order
// without creating a duplicate order.
func (s *Service) RetryPayment(userID, orderID int) (Session, error) {
	ord, err := s.orders.GetByID(orderID)
	if err != nil {
		return Session{}, err
	}
	if ord.UserID != userID {
		return Session{}, order.ErrNotFound
	}
	if ord.PaymentStatus != order.PaymentPending || ord.PaymentMethod != "online" {
		return Session{}, ErrOrderNotPayable
	}

	sess, configured, err := s.CreateSession(ord)
	if err != nil {
		return Session{}, err
	}
	if !configured {
		return Session{}, ErrGatewayUnavailable
	}
	return sess, nil
}

// Verify checks the gateway proof against the key secret and finalizes the
// order on success: paymentStatus=paid, orderStatus=confirmed, cart cleared,
// checkout session completed. On mismatch nothing is mutated.
func (s *Service) Verify(userID int, proof Proof, orderID int) (order.Order, error) {
	ord, err := s.orders.GetByID(orderID)
	if err != nil {
		return order.Order{}, err
	}
	if ord.UserID != userID {
		return order.Order{}, order.ErrNotFound
	}

	if !validSignature(proof, s.keySecret) {
		log.Printf("payment: signature mismatch for order %d (gateway order %s)", orderID, proof.GatewayOrderID)
		return order.Order{}, ErrVerificationFailed
	}

	updated, err := s.orders.UpdatePayment(ord.ID, order.PaymentPaid, order.StatusConfirmed,
		proof.GatewayOrderID, proof.GatewayPaymentID, now())
	if err != nil {
		return order.Order{}, err
	}

	if err := s.carts.Clear(ord.UserID); err != nil {
		// the order is paid; a cart cleanup failure must not undo that
		log.Printf("payment: could not clear cart for user %d after order %d: %v", ord.UserID, ord.ID, err)
	}
	if s.checkout != nil {
		s.checkout.CompleteAfterPayment(ord.UserID)
	}
	return updated, nil
}

// HandleOutcome dispatches one tagged gateway outcome. Success goes through
// Verify; declined keeps the order pending and reports ErrDeclined;
// dismissed is a soft no-op that leaves everything untouched.
func (s *Service) HandleOutcome(userID int, oc Outcome) (order.Order, error) {
	switch oc.Kind {
	case OutcomeSuccess:
		return s.Verify(userID, oc.Proof, oc.OrderID)
	case OutcomeDeclined:
		ord, err := s.orders.GetByID(oc.OrderID)
		if err != nil {
			return order.Order{}, err
		}
		if ord.UserID != userID {
			return order.Order{}, order.ErrNotFound
		}
		log.Printf("payment: gateway declined order %d: %s", oc.OrderID, oc.Reason)
		if s.checkout != nil {
			s.checkout.ReturnToPayment(userID)
		}
		return ord, fmt.Errorf("%w: %s", ErrDeclined, oc.Reason)
	case OutcomeDismissed:
		ord, err := s.orders.GetByID(oc.OrderID)
		if err != nil {
			return order.Order{}, err
		}
		if ord.UserID != userID {
			return order.Order{}, order.ErrNotFound
		}
		// no charge was attempted; the order stays pending and the user
		// may resume later
		if s.checkout != nil {
			s.checkout.ReturnToPayment(userID)
		}
		return ord, nil
	default:
		return order.Order{}, ErrUnknownOutcome
	}
}

// validSignature recomputes the HMAC-SHA256 of "orderId|paymentId" with the
// key secret and compares it in constant time.
func validSignature(p Proof, secret string) bool {
	if p.GatewayOrderID == "" || p.GatewayPaymentID == "" || p.GatewaySignature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(p.GatewayOrderID + "|" + p.GatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(p.GatewaySignature))
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
