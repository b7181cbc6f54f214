package checkout

import (
	"sync"

	"github.com/pkg/errors"
)

// State is a step of the checkout flow.
type State string

const (
	StateIdle             State = "idle"
	StateAddressEntry     State = "address_entry"
	StatePaymentSelection State = "payment_selection"
	StateSubmitting       State = "submitting"
	StateCompleted        State = "completed"
	StateFailed           State = "failed"
)

// ErrInvalidTransition is returned when a step is attempted out of order.
var ErrInvalidTransition = errors.New("checkout: invalid flow transition")

// Flow is the checkout progression for one session. A failed submission
// returns to payment selection with the entered data intact so the
// customer can retry; a completed one resets to idle.
type Flow struct {
	state   State
	address string
	payment Payment
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle}
}

func (f *Flow) State() State    { return f.state }
func (f *Flow) Address() string { return f.address }
func (f *Flow) Payment() Payment {
	return f.payment
}

// Begin starts checkout from idle (or restarts after completion).
func (f *Flow) Begin() error {
	if f.state != StateIdle {
		return errors.Wrapf(ErrInvalidTransition, "begin from %s", f.state)
	}
	f.state = StateAddressEntry
	return nil
}

// SetAddress records the delivery address and moves on to payment
// selection. Allowed from payment selection too so the customer can go
// back and correct the address.
func (f *Flow) SetAddress(address string) error {
	if f.state != StateAddressEntry && f.state != StatePaymentSelection {
		return errors.Wrapf(ErrInvalidTransition, "set address from %s", f.state)
	}
	if address == "" {
		return errors.New("checkout: address is required")
	}
	f.address = address
	f.state = StatePaymentSelection
	return nil
}

// SetPayment records the payment choice.
func (f *Flow) SetPayment(payment Payment) error {
	if f.state != StatePaymentSelection {
		return errors.Wrapf(ErrInvalidTransition, "set payment from %s", f.state)
	}
	if err := payment.Validate(); err != nil {
		return err
	}
	f.payment = payment
	return nil
}

// Submit enters the submitting state. Requires address and payment.
func (f *Flow) Submit() error {
	if f.state != StatePaymentSelection {
		return errors.Wrapf(ErrInvalidTransition, "submit from %s", f.state)
	}
	if f.address == "" || f.payment.Type == "" {
		return errors.New("checkout: address and payment must be set before submit")
	}
	f.state = StateSubmitting
	return nil
}

// Complete finishes a successful submission and resets the flow.
func (f *Flow) Complete() error {
	if f.state != StateSubmitting {
		return errors.Wrapf(ErrInvalidTransition, "complete from %s", f.state)
	}
	f.state = StateCompleted
	f.reset()
	return nil
}

// Fail records a failed submission. Address and payment are kept so the
// retry skips straight to payment selection.
func (f *Flow) Fail() error {
	if f.state != StateSubmitting {
		return errors.Wrapf(ErrInvalidTransition, "fail from %s", f.state)
	}
	f.state = StateFailed
	return nil
}

// Retry moves a failed flow back to payment selection.
func (f *Flow) Retry() error {
	if f.state != StateFailed {
		return errors.Wrapf(ErrInvalidTransition, "retry from %s", f.state)
	}
	f.state = StatePaymentSelection
	return nil
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.address = ""
	f.payment = Payment{}
}

// FlowStore keeps one flow per storefront session.
type FlowStore struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

func NewFlowStore() *FlowStore {
	return &FlowStore{flows: map[string]*Flow{}}
}

// Get returns the session's flow, creating an idle one on first use.
func (s *FlowStore) Get(sessionID string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	flow, ok := s.flows[sessionID]
	if !ok {
		flow = NewFlow()
		s.flows[sessionID] = flow
	}
	return flow
}

// Drop removes the session's flow.
func (s *FlowStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, sessionID)
}
