package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ferrepos/backend/internal/domain/sale"
)

// RegisterValidations installs custom binding validators on gin's
// validator engine. Call once during server setup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("payment_type", validPaymentType)
}

// validPaymentType accepts any spelling NormalizePaymentType understands,
// including the Spanish forms the cashier UI sends.
func validPaymentType(fl validator.FieldLevel) bool {
	_, err := sale.NormalizePaymentType(fl.Field().String())
	return err == nil
}
