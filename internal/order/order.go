package order

import "errors"

var (
	ErrNotFound = errors.New("order not found")
	// ErrRejected wraps a persistence-side refusal of order creation. The
	// caller keeps the cart and checkout draft so the user can retry.
	ErrRejected = errors.New("order rejected")
)

// PaymentStatus tracks the payment side of the order lifecycle.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Status is the fulfilment state, driven by the reconciler and admin actions.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known fulfilment states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is a cart line snapshotted at submission time. Prices are immune to
// later catalog changes.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"imageRef,omitempty"`
}

// Contact is the buyer contact block captured from the checkout draft.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ShippingAddress is the delivery block captured from the checkout draft.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Order represents a submitted purchase.
type Order struct {
	ID               int             `json:"orderId"`
	UserID           int             `json:"userId"`
	Reference        string          `json:"reference"`
	Items            []Item          `json:"items"`
	Contact          Contact         `json:"contact"`
	Shipping         ShippingAddress `json:"shippingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	Notes            string          `json:"notes,omitempty"`
	ItemsPrice       float64         `json:"itemsPrice"`
	TaxPrice         float64         `json:"taxPrice"`
	ShippingPrice    float64         `json:"shippingPrice"`
	TotalPrice       float64         `json:"totalPrice"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Status           Status          `json:"orderStatus"`
	GatewayOrderID   string          `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string          `json:"gatewayPaymentId,omitempty"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}
