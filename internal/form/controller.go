package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/silverrose/clinicforms/internal/modal"
	"github.com/silverrose/clinicforms/pkg/logging"
)

// Literal notices rendered by the presentation layer on success.
const (
	AppointmentSuccessMessage = "Your appointment has been booked successfully!"
	ContactSuccessMessage     = "Your message has been sent successfully!"
)

// DefaultNoticeTTL is how long a success notice stays visible before the
// form returns to idle and its owning modal is closed.
const DefaultNoticeTTL = 3 * time.Second

var (
	ErrSubmitInFlight   = errors.New("submission already in flight")
	ErrControllerClosed = errors.New("form controller is closed")
)

// ValidationError reports the first required field found empty at submit
// time. No network call is made when it is returned.
type ValidationError struct {
	Form  string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form %s: field %q is required", e.Form, e.Field)
}

// Phase is the lifecycle position of one form instance.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the single source of truth the presentation layer renders.
// Message is set only in PhaseSucceeded, Err only in PhaseFailed.
type State struct {
	Phase   Phase
	Message string
	Err     error
}

// Gateway is the network boundary the controllers submit through.
type Gateway interface {
	CreateAppointment(ctx context.Context, req AppointmentRequest) error
	CreateContact(ctx context.Context, req ContactRequest) error
}

// Options tune a controller. Zero values fall back to DefaultNoticeTTL and
// the default logger.
type Options struct {
	NoticeTTL time.Duration
	Logger    *logging.Logger
}

// Controller drives one form instance through validate, submit,
// success/failure and auto-reset. All state mutations are serialized by an
// internal mutex; the gateway call itself runs outside the lock.
type Controller struct {
	mu      sync.Mutex
	schema  Schema
	fields  *FieldStore
	state   State
	send    func(ctx context.Context, fields map[string]string) error
	success string
	ttl     time.Duration
	modals  *modal.Stack
	modalID string
	timer   *time.Timer
	closed  bool
	logger  *logging.Logger
}

// NewAppointmentController builds the modal-gated booking form. On notice
// expiry the appointment modal is closed through the given stack.
func NewAppointmentController(gw Gateway, modals *modal.Stack, opts Options) *Controller {
	c := newController(AppointmentSchema, AppointmentSuccessMessage, opts)
	c.modals = modals
	c.modalID = modal.Appointment
	c.send = func(ctx context.Context, fields map[string]string) error {
		return gw.CreateAppointment(ctx, buildAppointment(fields))
	}
	return c
}

// NewContactController builds the page-embedded inquiry form. It has no
// modal binding; notice expiry only clears the message.
func NewContactController(gw Gateway, opts Options) *Controller {
	c := newController(ContactSchema, ContactSuccessMessage, opts)
	c.send = func(ctx context.Context, fields map[string]string) error {
		return gw.CreateContact(ctx, buildContact(fields))
	}
	return c
}

func newController(schema Schema, success string, opts Options) *Controller {
	ttl := opts.NoticeTTL
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		schema:  schema,
		fields:  NewFieldStore(schema),
		success: success,
		ttl:     ttl,
		logger:  logger.Named("form." + schema.ID),
	}
}

// FormID returns the owning form identifier.
func (c *Controller) FormID() string {
	return c.schema.ID
}

// Fields exposes the field store for keystroke updates.
func (c *Controller) Fields() *FieldStore {
	return c.fields
}

// State returns a copy of the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates the raw fields and, if complete, performs exactly one
// gateway call. A submit while another is in flight is a no-op and returns
// ErrSubmitInFlight. On success the fields are reset and a one-shot timer is
// armed to clear the notice; on failure the fields are left untouched so the
// user can correct and resubmit.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if c.state.Phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	snapshot := c.fields.Snapshot()
	for _, f := range c.schema.Fields {
		if strings.TrimSpace(snapshot[f]) == "" {
			c.mu.Unlock()
			return &ValidationError{Form: c.schema.ID, Field: f}
		}
	}

	c.stopTimerLocked()
	c.state = State{Phase: PhaseSubmitting}
	c.mu.Unlock()

	err := c.send(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		// Torn down while the request was in flight; the result has no
		// form left to act on.
		c.logger.Warn("submission completed after close", "error", err)
		return ErrControllerClosed
	}

	if err != nil {
		c.state = State{Phase: PhaseFailed, Err: err}
		c.logger.Error("submission failed", "error", err)
		return err
	}

	c.fields.Reset()
	c.state = State{Phase: PhaseSucceeded, Message: c.success}
	c.timer = time.AfterFunc(c.ttl, c.expireNotice)
	c.logger.Info("submission succeeded")
	return nil
}

// ClearError explicitly dismisses a failed submission, returning the form to
// idle with its fields intact. No-op in any other phase.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseFailed {
		c.state = State{Phase: PhaseIdle}
	}
}

// Close tears the form instance down: the pending notice timer is cancelled,
// fields are discarded and any later submit or timer fire is rejected.
// Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.fields.Reset()
	c.state = State{Phase: PhaseIdle}
}

// expireNotice runs when the success notice TTL elapses. The phase is
// re-checked under the lock so a manual close or resubmit in the window
// cannot be clobbered by a stale timer.
func (c *Controller) expireNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Phase != PhaseSucceeded {
		return
	}

	c.state = State{Phase: PhaseIdle}
	if c.modals != nil && c.modalID != "" {
		c.modals.Close(c.modalID)
	}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
