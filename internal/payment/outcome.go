package payment

import "errors"

var ErrUnknownOutcome = errors.New("unknown payment outcome")

// OutcomeKind tags the terminal result of one gateway widget interaction.
// Exactly one arrives per payment attempt.
type OutcomeKind string

const (
	// OutcomeSuccess carries the gateway's proof of a completed charge,
	// which still needs server-side verification.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeDeclined means the gateway attempted and refused the charge.
	OutcomeDeclined OutcomeKind = "declined"
	// OutcomeDismissed means the user closed the widget without paying.
	// No charge was attempted; this is not a failure.
	OutcomeDismissed OutcomeKind = "dismissed"
)

// Proof is the opaque identifier triple the gateway hands back on success.
type Proof struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewaySignature string `json:"gatewaySignature"`
}

// Outcome is the tagged variant reported back from the gateway widget.
type Outcome struct {
	Kind    OutcomeKind `json:"outcome"`
	OrderID int         `json:"orderId"`
	Proof   Proof       `json:"proof"`
	Reason  string      `json:"reason,omitempty"`
}
