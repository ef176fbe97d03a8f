package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVar_Email(t *testing.T) {
	assert.NoError(t, Var("alice@example.com", "required,email"))
	assert.Error(t, Var("not-an-email", "required,email"))
	assert.Error(t, Var("", "required,email"))
}

func TestVar_Phone10(t *testing.T) {
	assert.NoError(t, Var("5551234567", "phone10"))
	assert.Error(t, Var("555123456", "phone10"), "nine digits")
	assert.Error(t, Var("55512345678", "phone10"), "eleven digits")
	assert.Error(t, Var("555123456x", "phone10"), "non-digit")
	assert.Error(t, Var("555-123-4567", "phone10"), "separators must be stripped before validation")
}

func TestStruct_ReadableMessages(t *testing.T) {
	type req struct {
		Identifier string `validate:"required"`
		Code       string `validate:"required"`
	}
	err := Struct(&req{Identifier: "a@b.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Code")
	assert.Contains(t, err.Error(), "required")

	assert.NoError(t, Struct(&req{Identifier: "a@b.com", Code: "123456"}))
}
