package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// NewAmount проверяет сумму заказа: положительная, не более двух знаков после запятой.
func NewAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, apperror.New(apperror.ErrCodeValidation, "el monto debe ser mayor que cero")
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, apperror.New(apperror.ErrCodeValidation, "el monto admite como máximo dos decimales")
	}
	return amount, nil
}

type Rating int

const (
	MinRating Rating = 1
	MaxRating Rating = 5
)

func NewRating(value int) (Rating, error) {
	r := Rating(value)
	if r < MinRating || r > MaxRating {
		return 0, apperror.New(apperror.ErrCodeValidation, "la calificación debe estar entre 1 y 5")
	}
	return r, nil
}
