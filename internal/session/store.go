// Package session holds the page-lifetime mocked authentication state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/silverrose/clinicforms/internal/modal"
	"github.com/silverrose/clinicforms/pkg/logging"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

var (
	ErrEmptyEmail  = errors.New("email must not be empty")
	ErrInvalidRole = errors.New("role must be patient or doctor")
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RolePatient, RoleDoctor:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("parse role %q: %w", raw, ErrInvalidRole)
	}
}

// Session is the in-memory record of the currently authenticated mock user.
// It never survives a page reload.
type Session struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Store owns the current session. It is an explicitly injected object, not a
// package singleton, so teardown boundaries stay visible to the caller.
// Login and register are mocked: they always succeed and never touch the
// network. A real system replaces this with a credentialed flow against the
// API gateway.
type Store struct {
	mu      sync.Mutex
	current *Session
	modals  *modal.Stack
	logger  *logging.Logger
}

// NewStore creates an anonymous (logged-out) store. The modal stack may be
// nil; when present, a successful login or register closes the auth modal.
func NewStore(modals *modal.Stack, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		modals: modals,
		logger: logger.Named("session"),
	}
}

// Login synthesizes a fixed patient identity for the supplied email. The
// password is accepted unchecked. Fails only on an empty email, which the
// form normally prevents upstream.
func (s *Store) Login(email, _ string) (Session, error) {
	if strings.TrimSpace(email) == "" {
		return Session{}, ErrEmptyEmail
	}

	sess := Session{
		ID:    "1",
		Name:  "John Doe",
		Email: email,
		Role:  RolePatient,
	}

	s.install(sess)
	s.logger.Info("user logged in", "email", email)
	return sess, nil
}

// Register synthesizes a session with a freshly generated unique identifier
// and the supplied identity.
func (s *Store) Register(name, email, _ string, role Role) (Session, error) {
	if strings.TrimSpace(email) == "" {
		return Session{}, ErrEmptyEmail
	}

	sess := Session{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  role,
	}

	s.install(sess)
	s.logger.Info("user registered", "email", email, "role", string(role))
	return sess, nil
}

// Logout clears the session. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current = nil
	s.logger.Info("user logged out")
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Store) install(sess Session) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	if s.modals != nil {
		s.modals.Close(modal.Auth)
	}
}
