package checkout

import (
	"errors"
	"testing"
)

func validDraft() Draft {
	return Draft{
		Contact: Contact{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		Address: Address{Street: "12 Baker Lane", City: "Pune", State: "MH", Pincode: "411001", Country: "IN"},
	}
}

func TestAdvance_WalksAllThreeSteps(t *testing.T) {
	d := validDraft()

	step, err := Advance(StepContact, d)
	if err != nil {
		t.Fatalf("advance from contact: %v", err)
	}
	if step != StepDelivery {
		t.Fatalf("expected delivery, got %q", step)
	}

	step, err = Advance(step, d)
	if err != nil {
		t.Fatalf("advance from delivery: %v", err)
	}
	if step != StepPayment {
		t.Fatalf("expected payment, got %q", step)
	}
}

func TestAdvance_InvalidEmailBlocksContactStep(t *testing.T) {
	d := validDraft()
	d.Contact.Email = "not-an-email"

	step, err := Advance(StepContact, d)
	if step != StepContact {
		t.Fatalf("step moved to %q on invalid input", step)
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Field != "email" {
		t.Fatalf("expected email field, got %q", fieldErr.Field)
	}
}

func TestAdvance_MissingAddressFieldsBlockDeliveryStep(t *testing.T) {
	for _, tc := range []struct {
		field string
		mut   func(*Draft)
	}{
		{"street", func(d *Draft) { d.Address.Street = " " }},
		{"city", func(d *Draft) { d.Address.City = "" }},
		{"pincode", func(d *Draft) { d.Address.Pincode = "" }},
	} {
		d := validDraft()
		tc.mut(&d)

		_, err := Advance(StepDelivery, d)
		var fieldErr *FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("%s: expected FieldError, got %v", tc.field, err)
		}
		if fieldErr.Field != tc.field {
			t.Fatalf("expected %q field, got %q", tc.field, fieldErr.Field)
		}
	}
}

func TestBack_StopsAtContact(t *testing.T) {
	if got := Back(StepPayment); got != StepDelivery {
		t.Fatalf("back from payment: got %q", got)
	}
	if got := Back(StepDelivery); got != StepContact {
		t.Fatalf("back from delivery: got %q", got)
	}
	if got := Back(StepContact); got != StepContact {
		t.Fatalf("back from contact should stay put, got %q", got)
	}
}

func TestSessionStore_BackPreservesDraft(t *testing.T) {
	st := NewSessionStore()
	st.Open(1, Contact{})

	d := validDraft()
	if _, err := st.SetContact(1, d.Contact); err != nil {
		t.Fatalf("set contact: %v", err)
	}
	if _, err := st.SetDelivery(1, d.Address, "ring the bell"); err != nil {
		t.Fatalf("set delivery: %v", err)
	}

	sess, err := st.Back(1)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if sess.Step != StepDelivery {
		t.Fatalf("expected delivery after back, got %q", sess.Step)
	}
	if sess.Draft.Address.Street != "12 Baker Lane" || sess.Draft.Notes != "ring the bell" {
		t.Fatalf("draft lost on back navigation: %+v", sess.Draft)
	}
}

func TestSessionStore_CloseDiscardsDraftOnly(t *testing.T) {
	st := NewSessionStore()
	st.Open(1, Contact{})
	if _, err := st.SetContact(1, validDraft().Contact); err != nil {
		t.Fatalf("set contact: %v", err)
	}

	if err := st.Close(1); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := st.Get(1); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after close, got %v", err)
	}

	// re-open starts fresh at the contact step
	sess := st.Open(1, Contact{})
	if sess.Step != StepContact {
		t.Fatalf("expected fresh session at contact, got %q", sess.Step)
	}
	if sess.Draft.Contact.Name != "" {
		t.Fatalf("draft survived abort: %+v", sess.Draft)
	}
}

func TestSessionStore_OpenPrefillsContact(t *testing.T) {
	st := NewSessionStore()
	sess := st.Open(7, Contact{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"})
	if sess.Draft.Contact.Email != "asha@example.com" {
		t.Fatalf("prefill missing: %+v", sess.Draft.Contact)
	}
	if sess.Draft.PaymentMethod != MethodOnline {
		t.Fatalf("expected online default, got %q", sess.Draft.PaymentMethod)
	}
}

func TestSessionStore_BeginSubmitRequiresPaymentStep(t *testing.T) {
	st := NewSessionStore()
	st.Open(1, Contact{})

	if _, err := st.BeginSubmit(1); !errors.Is(err, ErrNotAtPayment) {
		t.Fatalf("expected ErrNotAtPayment, got %v", err)
	}
}

func TestSessionStore_SecondSubmitIsRejected(t *testing.T) {
	st := NewSessionStore()
	st.Open(1, Contact{})
	d := validDraft()
	st.SetContact(1, d.Contact)
	st.SetDelivery(1, d.Address, "")

	if _, err := st.BeginSubmit(1); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := st.BeginSubmit(1); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	// a failed attempt unlocks the session for a retry
	st.Fail(1)
	if _, err := st.BeginSubmit(1); err != nil {
		t.Fatalf("submit after failure: %v", err)
	}
}
