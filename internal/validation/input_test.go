package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(" Ana.Perez@Uni.edu.pe "))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("ana"))
	assert.Error(t, ValidateEmail("ana@uni"))
	assert.Error(t, ValidateEmail("a@b@uni.edu"))
	assert.Error(t, ValidateEmail("an a@uni.edu"))
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("nombre", "Añá", 2, 3))
	assert.Error(t, ValidateLength("nombre", "A", 2, 0))
	assert.Error(t, ValidateLength("nombre", "Ana María", 0, 3))
}

func TestValidateVerificationCode(t *testing.T) {
	assert.NoError(t, ValidateVerificationCode(" 123456 "))
	assert.Error(t, ValidateVerificationCode("12345"))
	assert.Error(t, ValidateVerificationCode("12a456"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("abc"))
}
