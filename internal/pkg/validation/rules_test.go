package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("secret123"))
	assert.False(t, IsStrongPassword("short1"))
	assert.False(t, IsStrongPassword("lettersonly"))
	assert.False(t, IsStrongPassword("12345678"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("Student.One@Uni.edu"))
	assert.False(t, IsValidEmail("not-an-email"))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type req struct {
		Password string `json:"password" validate:"password"`
	}

	err := v.Struct(req{Password: "weak"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "password", verrs[0].Field())
	assert.Equal(t, "password", verrs[0].Tag())

	assert.NoError(t, v.Struct(req{Password: "Str0ngpass"}))
}
