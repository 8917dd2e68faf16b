// Package stubserver is an in-memory stand-in for the clinic backend, used
// by local development and the simulator. The production service stays
// external; this one only implements the create endpoints the site talks to.
package stubserver

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/silverrose/clinicforms/internal/form"
)

// RejectedError reports a payload the backend would refuse.
type RejectedError struct {
	Field  string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("field %q rejected: %s", e.Field, e.Reason)
}

// Store keeps accepted submissions in memory.
type Store struct {
	mu           sync.Mutex
	appointments []form.AppointmentRequest
	contacts     []form.ContactRequest
}

func NewStore() *Store {
	return &Store{}
}

// AddAppointment validates and stores a booking request. Validation matches
// what the real backend enforces: every field present, date as YYYY-MM-DD,
// time as HH:MM:SS.
func (s *Store) AddAppointment(req form.AppointmentRequest) error {
	if err := requireFields([]fieldValue{
		{form.FieldFullName, req.FullName},
		{form.FieldEmail, req.Email},
		{form.FieldPhone, req.Phone},
		{form.FieldDate, req.Date},
		{form.FieldTime, req.Time},
	}); err != nil {
		return err
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return &RejectedError{Field: form.FieldDate, Reason: "must be YYYY-MM-DD"}
	}
	if _, err := time.Parse("15:04:05", req.Time); err != nil {
		return &RejectedError{Field: form.FieldTime, Reason: "must be HH:MM:SS"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, req)
	return nil
}

// AddContact validates and stores an inquiry.
func (s *Store) AddContact(req form.ContactRequest) error {
	if err := requireFields([]fieldValue{
		{form.FieldName, req.Name},
		{form.FieldEmail, req.Email},
		{form.FieldSubject, req.Subject},
		{form.FieldMessage, req.Message},
	}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, req)
	return nil
}

// Appointments returns a copy of everything accepted so far.
func (s *Store) Appointments() []form.AppointmentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]form.AppointmentRequest, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// Contacts returns a copy of everything accepted so far.
func (s *Store) Contacts() []form.ContactRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]form.ContactRequest, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Counts reports how many submissions of each kind were accepted.
func (s *Store) Counts() (appointments, contacts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments), len(s.contacts)
}

type fieldValue struct {
	name  string
	value string
}

func requireFields(fields []fieldValue) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &RejectedError{Field: f.name, Reason: "required"}
		}
	}
	return nil
}
