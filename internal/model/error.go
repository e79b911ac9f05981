package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidForm       = "INVALID_FORM"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeStorageWriteError = "STORAGE_WRITE_FAILED"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DomainError is a business-logic failure with a stable code.
type DomainError struct {
	Code    string
	Message string
}

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
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCategoryNotFound = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
)
