package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrCreditLimitExceeded = NewDomainError("CREDIT_LIMIT_EXCEEDED", "Customer credit limit exceeded")
	ErrPaymentMismatch     = NewDomainError("PAYMENT_MISMATCH", "Declared payment does not cover the sale total")
	ErrUpstreamUnavailable = NewDomainError("UPSTREAM_UNAVAILABLE", "Exchange rate provider unavailable")
	ErrHasReferences       = NewDomainError("HAS_REFERENCES", "Resource is referenced by existing sales")
	ErrCodeInvalid         = NewDomainError("CODE_INVALID", "Security code does not match")
	ErrCodeExpired         = NewDomainError("CODE_EXPIRED", "Security code has expired")
	ErrNoActiveCode        = NewDomainError("NO_ACTIVE_CODE", "No active security code for this sale")
)
