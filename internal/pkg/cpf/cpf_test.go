package cpf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"proposal-engine/internal/pkg/apperrors"
)

func TestNewValidCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "digits only", input: "52998224725", want: "52998224725"},
		{name: "formatted", input: "529.982.247-25", want: "52998224725"},
		{name: "check digit zero", input: "12345678909", want: "12345678909"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, c.Value())
		})
	}
}

func TestNewInvalidCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "too short", input: "1234567890"},
		{name: "too long", input: "123456789012"},
		{name: "bad first check digit", input: "52998224735"},
		{name: "bad second check digit", input: "52998224726"},
		{name: "repeated digits", input: "11111111111"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvariantViolation))
		})
	}
}

func TestAllowTestValues(t *testing.T) {
	_, err := New("11111111111")
	assert.Error(t, err)

	c, err := New("111.111.111-11", AllowTestValues())
	assert.NoError(t, err)
	assert.Equal(t, "11111111111", c.Value())

	// Permissive mode still rejects genuinely malformed numbers.
	_, err = New("52998224726", AllowTestValues())
	assert.Error(t, err)
}

func TestFormatted(t *testing.T) {
	c, err := New("52998224725")
	assert.NoError(t, err)
	assert.Equal(t, "529.982.247-25", c.Formatted())
	assert.Equal(t, "529.982.247-25", c.String())
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("529.982.247-25"))
	assert.False(t, IsValid("11111111111"))
	assert.False(t, IsValid("not a cpf"))
}
