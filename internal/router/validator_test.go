package router

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "socialapi/internal/errors"
	"socialapi/internal/handler"
)

func TestCustomValidator(t *testing.T) {
	v := NewCustomValidator()

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:  "valid registration",
			input: &handler.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret1"},
		},
		{
			name:     "missing username",
			input:    &handler.RegisterRequest{Email: "a@x.com", Password: "secret1"},
			expected: `"username" is required`,
		},
		{
			name:     "short username",
			input:    &handler.RegisterRequest{Username: "al", Email: "a@x.com", Password: "secret1"},
			expected: `"username" length must be at least 3 characters long`,
		},
		{
			name:     "bad email",
			input:    &handler.LoginRequest{Email: "nope", Password: "x"},
			expected: `"email" must be a valid email`,
		},
		{
			name:     "short new password",
			input:    &handler.ResetPasswordRequest{PreviousPassword: "secret1", NewPassword: "abc"},
			expected: `"newPassword" length must be at least 6 characters long`,
		},
		{
			name:  "password at the bcrypt limit",
			input: &handler.RegisterRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", 72)},
		},
		{
			name:     "password over the bcrypt limit",
			input:    &handler.RegisterRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", 80)},
			expected: `"password" length must not exceed 72 bytes`,
		},
		{
			name:     "multibyte new password over the bcrypt limit",
			input:    &handler.ResetPasswordRequest{PreviousPassword: "secret1", NewPassword: strings.Repeat("é", 40)},
			expected: `"newPassword" length must not exceed 72 bytes`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expected)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}
