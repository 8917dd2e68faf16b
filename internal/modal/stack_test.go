package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaysAreIndependent(t *testing.T) {
	s := NewStack()

	s.Open(Auth)
	s.Open(Appointment)

	assert.True(t, s.IsOpen(Auth))
	assert.True(t, s.IsOpen(Appointment))

	s.Close(Auth)

	assert.False(t, s.IsOpen(Auth))
	assert.True(t, s.IsOpen(Appointment), "closing one overlay must not affect another")
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewStack()

	s.Close(Appointment)
	s.Open(Appointment)
	s.Close(Appointment)
	s.Close(Appointment)

	assert.False(t, s.IsOpen(Appointment))
}

func TestOpenIsIdempotent(t *testing.T) {
	s := NewStack()

	s.Open(Auth)
	s.Open(Auth)

	assert.True(t, s.IsOpen(Auth))
	assert.Equal(t, 1, s.OpenCount())
}

func TestIsOpenOnUnknownID(t *testing.T) {
	s := NewStack()
	assert.False(t, s.IsOpen("never-opened"))
}
