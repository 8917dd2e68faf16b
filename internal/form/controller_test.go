package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverrose/clinicforms/internal/modal"
	"github.com/silverrose/clinicforms/pkg/logging"
)

// mockGateway records every create call. When release is set, calls block
// until it is closed, which lets tests hold a submission in flight.
type mockGateway struct {
	mu           sync.Mutex
	err          error
	release      chan struct{}
	appointments []AppointmentRequest
	contacts     []ContactRequest
}

func (m *mockGateway) CreateAppointment(_ context.Context, req AppointmentRequest) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = append(m.appointments, req)
	return m.err
}

func (m *mockGateway) CreateContact(_ context.Context, req ContactRequest) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, req)
	return m.err
}

func (m *mockGateway) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments) + len(m.contacts)
}

func (m *mockGateway) lastAppointment() AppointmentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appointments[len(m.appointments)-1]
}

func (m *mockGateway) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func quietOpts() Options {
	return Options{Logger: logging.New("error")}
}

func fillAppointment(t *testing.T, fs *FieldStore) {
	t.Helper()
	require.NoError(t, fs.Set(FieldFullName, "Ana Mwangi"))
	require.NoError(t, fs.Set(FieldEmail, "ana@example.com"))
	require.NoError(t, fs.Set(FieldPhone, "0704743180"))
	require.NoError(t, fs.Set(FieldDate, "2026-09-15"))
	require.NoError(t, fs.Set(FieldTime, "09:30"))
}

func fillContact(t *testing.T, fs *FieldStore) {
	t.Helper()
	require.NoError(t, fs.Set(FieldName, "Ana"))
	require.NoError(t, fs.Set(FieldEmail, "ana@example.com"))
	require.NoError(t, fs.Set(FieldSubject, "Opening hours"))
	require.NoError(t, fs.Set(FieldMessage, "Are you open on Saturdays?"))
}

func TestAppointmentSubmitSuccess(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewAppointmentController(gw, modal.NewStack(), quietOpts())
	defer ctrl.Close()

	fillAppointment(t, ctrl.Fields())

	require.NoError(t, ctrl.Submit(context.Background()))

	state := ctrl.State()
	assert.Equal(t, PhaseSucceeded, state.Phase)
	assert.Equal(t, "Your appointment has been booked successfully!", state.Message)

	// Fields are discarded on success.
	for _, f := range AppointmentSchema.Fields {
		assert.Equal(t, "", ctrl.Fields().Get(f))
	}

	require.Equal(t, 1, gw.calls())

	// The wire value carries the canonical time; the raw field held HH:MM.
	sent := gw.lastAppointment()
	assert.Equal(t, "09:30:00", sent.Time)
	assert.Equal(t, "Ana Mwangi", sent.FullName)
}

func TestContactSubmitSuccess(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewContactController(gw, quietOpts())
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())

	require.NoError(t, ctrl.Submit(context.Background()))

	state := ctrl.State()
	assert.Equal(t, PhaseSucceeded, state.Phase)
	assert.Equal(t, "Your message has been sent successfully!", state.Message)
}

func TestValidationBlocksGatewayCall(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewContactController(gw, quietOpts())
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())
	require.NoError(t, ctrl.Fields().Set(FieldSubject, "   "))

	err := ctrl.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldSubject, verr.Field)
	assert.Equal(t, FormContact, verr.Form)

	assert.Equal(t, 0, gw.calls(), "validation failure must not reach the gateway")
	assert.Equal(t, PhaseIdle, ctrl.State().Phase)
}

func TestValidationChecksRawTimeField(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewAppointmentController(gw, modal.NewStack(), quietOpts())
	defer ctrl.Close()

	fillAppointment(t, ctrl.Fields())
	require.NoError(t, ctrl.Fields().Set(FieldTime, ""))

	err := ctrl.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldTime, verr.Field)
	assert.Equal(t, 0, gw.calls())
}

func TestFailureKeepsFieldsForCorrection(t *testing.T) {
	gw := &mockGateway{err: errors.New("connection refused")}
	ctrl := NewAppointmentController(gw, modal.NewStack(), quietOpts())
	defer ctrl.Close()

	fillAppointment(t, ctrl.Fields())

	err := ctrl.Submit(context.Background())
	require.Error(t, err)

	state := ctrl.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorContains(t, state.Err, "connection refused")

	// What the user typed survives, including the un-normalized time.
	assert.Equal(t, "Ana Mwangi", ctrl.Fields().Get(FieldFullName))
	assert.Equal(t, "09:30", ctrl.Fields().Get(FieldTime))
}

func TestResubmitAfterFailure(t *testing.T) {
	gw := &mockGateway{err: errors.New("boom")}
	ctrl := NewContactController(gw, quietOpts())
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())
	require.Error(t, ctrl.Submit(context.Background()))

	gw.setErr(nil)
	require.NoError(t, ctrl.Submit(context.Background()))

	assert.Equal(t, PhaseSucceeded, ctrl.State().Phase)
	assert.Equal(t, 2, gw.calls())
}

func TestClearErrorReturnsToIdle(t *testing.T) {
	gw := &mockGateway{err: errors.New("boom")}
	ctrl := NewContactController(gw, quietOpts())
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())
	require.Error(t, ctrl.Submit(context.Background()))
	require.Equal(t, PhaseFailed, ctrl.State().Phase)

	ctrl.ClearError()

	assert.Equal(t, PhaseIdle, ctrl.State().Phase)
	assert.Equal(t, "Ana", ctrl.Fields().Get(FieldName), "dismissing the error keeps the fields")
}

func TestClearErrorIsNoOpOutsideFailed(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewContactController(gw, quietOpts())
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())
	require.NoError(t, ctrl.Submit(context.Background()))

	ctrl.ClearError()

	assert.Equal(t, PhaseSucceeded, ctrl.State().Phase)
}

func TestSecondSubmitWhileInFlightIsNoOp(t *testing.T) {
	gw := &mockGateway{release: make(chan struct{})}
	ctrl := NewContactController(gw, quietOpts())
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Submit(context.Background())
	}()

	require.Eventually(t, func() bool {
		return ctrl.State().Phase == PhaseSubmitting
	}, time.Second, time.Millisecond)

	err := ctrl.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(gw.release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, gw.calls(), "only one gateway call per Submitting transition")
}

func TestNoticeExpiryReturnsToIdleAndClosesModal(t *testing.T) {
	gw := &mockGateway{}
	modals := modal.NewStack()
	modals.Open(modal.Appointment)

	ctrl := NewAppointmentController(gw, modals, Options{
		NoticeTTL: 20 * time.Millisecond,
		Logger:    logging.New("error"),
	})
	defer ctrl.Close()

	fillAppointment(t, ctrl.Fields())
	require.NoError(t, ctrl.Submit(context.Background()))
	require.Equal(t, PhaseSucceeded, ctrl.State().Phase)
	require.True(t, modals.IsOpen(modal.Appointment))

	require.Eventually(t, func() bool {
		return ctrl.State().Phase == PhaseIdle && !modals.IsOpen(modal.Appointment)
	}, time.Second, 5*time.Millisecond)
}

func TestContactNoticeExpiryLeavesModalsAlone(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewContactController(gw, Options{
		NoticeTTL: 20 * time.Millisecond,
		Logger:    logging.New("error"),
	})
	defer ctrl.Close()

	fillContact(t, ctrl.Fields())
	require.NoError(t, ctrl.Submit(context.Background()))

	require.Eventually(t, func() bool {
		return ctrl.State().Phase == PhaseIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "", ctrl.State().Message)
}

func TestCloseCancelsPendingNoticeTimer(t *testing.T) {
	gw := &mockGateway{}
	modals := modal.NewStack()
	modals.Open(modal.Appointment)

	ctrl := NewAppointmentController(gw, modals, Options{
		NoticeTTL: 20 * time.Millisecond,
		Logger:    logging.New("error"),
	})

	fillAppointment(t, ctrl.Fields())
	require.NoError(t, ctrl.Submit(context.Background()))

	// The user dismisses the modal during the success window.
	modals.Close(modal.Appointment)
	ctrl.Close()

	time.Sleep(50 * time.Millisecond)

	assert.False(t, modals.IsOpen(modal.Appointment))
	assert.ErrorIs(t, ctrl.Submit(context.Background()), ErrControllerClosed)
}

func TestSubmitResultAfterCloseIsDropped(t *testing.T) {
	gw := &mockGateway{release: make(chan struct{})}
	ctrl := NewContactController(gw, quietOpts())

	fillContact(t, ctrl.Fields())

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Submit(context.Background())
	}()

	require.Eventually(t, func() bool {
		return ctrl.State().Phase == PhaseSubmitting
	}, time.Second, time.Millisecond)

	ctrl.Close()
	close(gw.release)

	require.ErrorIs(t, <-done, ErrControllerClosed)
	assert.Equal(t, PhaseIdle, ctrl.State().Phase)
}

func TestCloseIsIdempotent(t *testing.T) {
	gw := &mockGateway{}
	ctrl := NewContactController(gw, quietOpts())

	ctrl.Close()
	ctrl.Close()

	assert.ErrorIs(t, ctrl.Submit(context.Background()), ErrControllerClosed)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "succeeded", PhaseSucceeded.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
