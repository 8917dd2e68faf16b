package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldStoreStartsEmpty(t *testing.T) {
	fs := NewFieldStore(AppointmentSchema)

	for _, f := range AppointmentSchema.Fields {
		assert.Equal(t, "", fs.Get(f))
	}
}

func TestFieldStoreSetAndGet(t *testing.T) {
	fs := NewFieldStore(ContactSchema)

	require.NoError(t, fs.Set(FieldSubject, "Billing question"))
	assert.Equal(t, "Billing question", fs.Get(FieldSubject))

	// Overwrites, as a keystroke stream would.
	require.NoError(t, fs.Set(FieldSubject, "Billing"))
	assert.Equal(t, "Billing", fs.Get(FieldSubject))
}

func TestFieldStoreRejectsUnknownField(t *testing.T) {
	fs := NewFieldStore(ContactSchema)

	err := fs.Set("phone", "555-0100")
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, "", fs.Get("phone"))
}

func TestFieldStoreSnapshotIsACopy(t *testing.T) {
	fs := NewFieldStore(ContactSchema)
	require.NoError(t, fs.Set(FieldName, "Ana"))

	snap := fs.Snapshot()
	snap[FieldName] = "mutated"

	assert.Equal(t, "Ana", fs.Get(FieldName))
}

func TestFieldStoreReset(t *testing.T) {
	fs := NewFieldStore(AppointmentSchema)
	require.NoError(t, fs.Set(FieldFullName, "Ana Mwangi"))
	require.NoError(t, fs.Set(FieldTime, "10:00"))

	fs.Reset()

	for _, f := range AppointmentSchema.Fields {
		assert.Equal(t, "", fs.Get(f), "field %s should be empty after reset", f)
	}
}
