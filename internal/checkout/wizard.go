package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is the wizard position. The three collecting steps run in a fixed
// order; submitting, completed and aborted are reached from the payment
// step only.
type Step string

const (
	StepContact    Step = "contact"
	StepDelivery   Step = "delivery"
	StepPayment    Step = "payment"
	StepSubmitting Step = "submitting"
	StepCompleted  Step = "completed"
	StepAborted    Step = "aborted"
)

func (s Step) IsTerminal() bool {
	return s == StepCompleted || s == StepAborted
}

// PaymentMethod selects how the order is paid.
type PaymentMethod string

const (
	MethodOnline PaymentMethod = "online"
	MethodCOD    PaymentMethod = "cod"
)

// Contact is the buyer block collected at the first step.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Address is the delivery block collected at the second step.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Draft accumulates the wizard input. It is additive: back-navigation never
// discards entered fields; only submission or abort resets it.
type Draft struct {
	Contact       Contact       `json:"contact"`
	Address       Address       `json:"shippingAddress"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes,omitempty"`
}

// FieldError names the draft field that blocked a step advance. It never
// reaches the network; the handler maps it to a 400 with the field name.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateContact gates the contact -> delivery transition.
func ValidateContact(c Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return &FieldError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return &FieldError{Field: "email", Reason: "required"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return &FieldError{Field: "email", Reason: "not a valid email address"}
	}
	if strings.TrimSpace(c.Phone) == "" {
		return &FieldError{Field: "phone", Reason: "required"}
	}
	return nil
}

// ValidateDelivery gates the delivery -> payment transition.
func ValidateDelivery(a Address) error {
	if strings.TrimSpace(a.Street) == "" {
		return &FieldError{Field: "street", Reason: "required"}
	}
	if strings.TrimSpace(a.City) == "" {
		return &FieldError{Field: "city", Reason: "required"}
	}
	if strings.TrimSpace(a.Pincode) == "" {
		return &FieldError{Field: "pincode", Reason: "required"}
	}
	return nil
}

// Advance moves one collecting step forward after validating the draft
// fields that step owns. It is a pure function of (step, draft).
func Advance(step Step, d Draft) (Step, error) {
	switch step {
	case StepContact:
		if err := ValidateContact(d.Contact); err != nil {
			return step, err
		}
		return StepDelivery, nil
	case StepDelivery:
		if err := ValidateDelivery(d.Address); err != nil {
			return step, err
		}
		return StepPayment, nil
	default:
		return step, fmt.Errorf("cannot advance from step %q", step)
	}
}

// Back returns to the previous collecting step. Draft fields are untouched.
func Back(step Step) Step {
	switch step {
	case StepDelivery:
		return StepContact
	case StepPayment:
		return StepDelivery
	default:
		return step
	}
}
