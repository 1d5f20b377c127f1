package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal = "INTERNAL_ERROR"
	ErrCodeBadJSON  = "INVALID_JSON"
	ErrCodeTooLarge = "REQUEST_TOO_LARGE"
)

// Validation error codes
const (
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeUnknownField        = "UNKNOWN_FIELD"
	ErrCodeInvalidName         = "INVALID_NAME"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidRUT          = "INVALID_RUT"
	ErrCodeInvalidCode         = "INVALID_CODE"
	ErrCodeInvalidPaymentTerms = "INVALID_PAYMENT_TERMS"
	ErrCodeInvalidDiscount     = "INVALID_DISCOUNT"
	ErrCodeInvalidUsername     = "INVALID_USERNAME"
	ErrCodeInvalidPassword     = "INVALID_PASSWORD"
	ErrCodeInvalidEmail        = "INVALID_EMAIL"
	ErrCodeInvalidID           = "INVALID_ID"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       = "USER_INACTIVE"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeRoleNotFound          = "ROLE_NOT_FOUND"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeClientAlreadyExists   = "CLIENT_ALREADY_EXISTS"
	ErrCodeSupplierAlreadyExists = "SUPPLIER_ALREADY_EXISTS"
	ErrCodeUserAlreadyExists     = "USER_ALREADY_EXISTS"
	ErrCodeRequestInProgress     = "REQUEST_IN_PROGRESS"
	ErrCodeLockTimeout           = "LOCK_TIMEOUT"
	ErrCodeReferenced            = "REFERENCED"
)

// Business rule error codes
const (
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeBadJSON:  http.StatusBadRequest,
	ErrCodeTooLarge: http.StatusRequestEntityTooLarge,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeUnknownField:        http.StatusBadRequest,
	ErrCodeInvalidName:         http.StatusBadRequest,
	ErrCodeInvalidQuantity:     http.StatusBadRequest,
	ErrCodeInvalidRUT:          http.StatusBadRequest,
	ErrCodeInvalidCode:         http.StatusBadRequest,
	ErrCodeInvalidPaymentTerms: http.StatusBadRequest,
	ErrCodeInvalidDiscount:     http.StatusBadRequest,
	ErrCodeInvalidUsername:     http.StatusBadRequest,
	ErrCodeInvalidPassword:     http.StatusBadRequest,
	ErrCodeInvalidEmail:        http.StatusBadRequest,
	ErrCodeInvalidID:           http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeUserInactive:       http.StatusForbidden,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeRoleNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:         http.StatusConflict,
	ErrCodeClientAlreadyExists:   http.StatusConflict,
	ErrCodeSupplierAlreadyExists: http.StatusConflict,
	ErrCodeUserAlreadyExists:     http.StatusConflict,
	ErrCodeRequestInProgress:     http.StatusConflict,
	ErrCodeLockTimeout:           http.StatusServiceUnavailable,
	ErrCodeReferenced:            http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
