package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ограничения полей форм.
const (
	MinNameLength             = 2
	MaxNameLength             = 100
	MinPasswordLength         = 6
	MaxRequirementTitleLength = 200
	MaxRequirementDescLength  = 5000
	MaxReviewCommentLength    = 1000
	MaxOrderNotesLength       = 2000
	VerificationCodeLength    = 6
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	codeRegex        = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s debe tener al menos %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s debe tener como máximo %d caracteres", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат адреса.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("el correo es obligatorio")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("formato de correo inválido")
	}
	if len(local) == 0 || len(local) > 64 || !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("formato de correo inválido")
	}
	if len(domain) > 255 || !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("dominio de correo inválido")
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s es obligatorio", fieldName)
	}
	return nil
}

// ValidatePassword - только длина, остальные правила проверяет бэкенд.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}
	return nil
}

// ValidateVerificationCode проверяет код из письма.
func ValidateVerificationCode(code string) error {
	code = strings.TrimSpace(code)
	if len(code) != VerificationCodeLength || !codeRegex.MatchString(code) {
		return fmt.Errorf("el código debe tener %d dígitos", VerificationCodeLength)
	}
	return nil
}
