package sale

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ferrepos/backend/internal/domain/shared"
)

// PaymentType represents how a sale is settled
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizePaymentType maps free-form payment type input to a PaymentType.
// Input is lowercased and stripped of diacritics first, so "Crédito",
// "CREDITO" and "credito" all resolve to PaymentTypeCredit.
func NormalizePaymentType(raw string) (PaymentType, error) {
	folded, _, err := transform.String(foldTransformer, strings.TrimSpace(raw))
	if err != nil {
		return "", shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unrecognized payment type")
	}

	switch strings.ToLower(folded) {
	case "contado", "efectivo", "cash":
		return PaymentTypeCash, nil
	case "credito", "credit":
		return PaymentTypeCredit, nil
	default:
		return "", shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unrecognized payment type")
	}
}

// IsCredit returns true for credit settlements
func (t PaymentType) IsCredit() bool {
	return t == PaymentTypeCredit
}
