package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()
	assert.True(t, Valid(a), "New() = %q", a)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.in), "Valid(%q)", tt.in)
	}
}
