package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required,max=100"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(registerForm{
		Email:    "alice@example.com",
		Password: "pw123secure",
		Name:     "Alice",
	})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(registerForm{})

	require.Error(t, err)
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Password"])
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_BadEmail(t *testing.T) {
	err := Validate(registerForm{
		Email:    "not-an-email",
		Password: "pw123secure",
		Name:     "Alice",
	})

	require.Error(t, err)
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidate_PasswordTooShort(t *testing.T) {
	err := Validate(registerForm{
		Email:    "alice@example.com",
		Password: "pw",
		Name:     "Alice",
	})

	require.Error(t, err)
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be at least 8 characters", valErr.Fields()["Password"])
	assert.Contains(t, valErr.Error(), "Password")
}
