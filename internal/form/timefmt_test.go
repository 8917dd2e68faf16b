package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"appends seconds to HH:MM", "09:30", "09:30:00"},
		{"already canonical is unchanged", "09:30:00", "09:30:00"},
		{"midnight short form", "00:00", "00:00:00"},
		{"longer than canonical passes through", "09:30:00.123", "09:30:00.123"},
		{"short garbage passes through", "9:30", "9:30"},
		{"empty passes through", "", ""},
		// No grammar validation happens here; the backend owns that.
		{"malformed five runes still get seconds", "09-30", "09-30:00"},
		{"malformed canonical-length passes through", "25:99:99", "25:99:99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.raw))
		})
	}
}
