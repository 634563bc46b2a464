package checkout

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoSession          = errors.New("no checkout in progress")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrNotAtPayment       = errors.New("checkout is not at the payment step")
)

// Session is the client view of one checkout in progress.
type Session struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

type session struct {
	step       Step
	draft      Draft
	submitting bool
}

// SessionStore keeps at most one checkout session per user. All transitions
// go through its mutex, which is what enforces single-flight submission.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int]*session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int]*session)}
}

// Open starts a fresh session at the contact step, prefilled with the
// user's known contact details. Re-opening after a completed or aborted
// checkout always starts over; an existing live session is kept as is.
func (st *SessionStore) Open(userID int, prefill Contact) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[userID]; ok && !s.step.IsTerminal() {
		return Session{Step: s.step, Draft: s.draft}
	}
	s := &session{
		step:  StepContact,
		draft: Draft{Contact: prefill, PaymentMethod: MethodOnline},
	}
	st.sessions[userID] = s
	return Session{Step: s.step, Draft: s.draft}
}

func (st *SessionStore) Get(userID int) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok || s.step.IsTerminal() {
		return Session{}, ErrNoSession
	}
	return Session{Step: s.step, Draft: s.draft}, nil
}

// SetContact stores the contact block and advances when valid.
func (st *SessionStore) SetContact(userID int, c Contact) (Session, error) {
	return st.update(userID, StepContact, func(s *session) error {
		s.draft.Contact = c
		next, err := Advance(s.step, s.draft)
		if err != nil {
			return err
		}
		s.step = next
		return nil
	})
}

// SetDelivery stores the address block plus notes and advances when valid.
func (st *SessionStore) SetDelivery(userID int, a Address, notes string) (Session, error) {
	return st.update(userID, StepDelivery, func(s *session) error {
		s.draft.Address = a
		s.draft.Notes = notes
		next, err := Advance(s.step, s.draft)
		if err != nil {
			return err
		}
		s.step = next
		return nil
	})
}

// SetPaymentMethod records the method choice at the payment step.
func (st *SessionStore) SetPaymentMethod(userID int, m PaymentMethod) (Session, error) {
	if m != MethodOnline && m != MethodCOD {
		return Session{}, &FieldError{Field: "paymentMethod", Reason: "must be online or cod"}
	}
	return st.update(userID, StepPayment, func(s *session) error {
		s.draft.PaymentMethod = m
		return nil
	})
}

// Back steps backwards without touching the draft.
func (st *SessionStore) Back(userID int) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok || s.step.IsTerminal() {
		return Session{}, ErrNoSession
	}
	if s.submitting {
		return Session{}, ErrSubmissionInFlight
	}
	s.step = Back(s.step)
	return Session{Step: s.step, Draft: s.draft}, nil
}

// Close aborts the checkout: the draft is discarded, the cart untouched.
func (st *SessionStore) Close(userID int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok || s.step.IsTerminal() {
		return ErrNoSession
	}
	if s.submitting {
		return ErrSubmissionInFlight
	}
	s.step = StepAborted
	s.draft = Draft{}
	return nil
}

// BeginSubmit flips the session into the submitting state. A second caller
// while the first is unresolved gets ErrSubmissionInFlight.
func (st *SessionStore) BeginSubmit(userID int) (Draft, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok || s.step.IsTerminal() {
		return Draft{}, ErrNoSession
	}
	if s.submitting {
		return Draft{}, ErrSubmissionInFlight
	}
	if s.step != StepPayment {
		return Draft{}, ErrNotAtPayment
	}
	s.submitting = true
	s.step = StepSubmitting
	return s.draft, nil
}

// update runs fn on the user's live session, provided it sits at want and no
// submission is in flight.
func (st *SessionStore) update(userID int, want Step, fn func(*session) error) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok || s.step.IsTerminal() {
		return Session{}, ErrNoSession
	}
	if s.submitting {
		return Session{}, ErrSubmissionInFlight
	}
	if s.step != want {
		return Session{}, fmt.Errorf("checkout is at step %q, not %q", s.step, want)
	}
	if err := fn(s); err != nil {
		return Session{}, err
	}
	return Session{Step: s.step, Draft: s.draft}, nil
}

// Complete ends a successful submission: draft reset, session terminal.
func (st *SessionStore) Complete(userID int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return
	}
	s.submitting = false
	s.step = StepCompleted
	s.draft = Draft{}
}

// Fail returns a failed submission to the payment step with the draft
// preserved so the user can retry without re-entering anything.
func (st *SessionStore) Fail(userID int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return
	}
	s.submitting = false
	if !s.step.IsTerminal() {
		s.step = StepPayment
	}
}

// CompleteAfterPayment marks the checkout completed once an online payment
// has been verified by the reconciler.
func (st *SessionStore) CompleteAfterPayment(userID int) { st.Complete(userID) }

// ReturnToPayment puts the session back on the payment step after a
// declined or dismissed gateway attempt so the user can retry.
func (st *SessionStore) ReturnToPayment(userID int) { st.Fail(userID) }
