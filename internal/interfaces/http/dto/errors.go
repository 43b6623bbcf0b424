package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input and validation error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeValidation   = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState          = "ERR_INVALID_STATE"
	ErrCodeEditWindowExpired     = "ERR_EDIT_WINDOW_EXPIRED"
	ErrCodeInsufficientSupply    = "ERR_INSUFFICIENT_SUPPLY"
	ErrCodeInsufficientInventory = "ERR_INSUFFICIENT_INVENTORY"
	ErrCodeGenerationExhausted   = "ERR_GENERATION_EXHAUSTED"
	ErrCodeAlreadyPaid           = "ERR_ALREADY_PAID"
	ErrCodeStorageTimeout        = "ERR_STORAGE_TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeEditWindowExpired:     http.StatusUnprocessableEntity,
	ErrCodeInsufficientSupply:    http.StatusUnprocessableEntity,
	ErrCodeInsufficientInventory: http.StatusUnprocessableEntity,
	ErrCodeGenerationExhausted:   http.StatusServiceUnavailable,
	ErrCodeAlreadyPaid:           http.StatusConflict,
	ErrCodeStorageTimeout:        http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to HTTP-layer codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":   ErrCodeConcurrencyConflict,
	"EDIT_WINDOW_EXPIRED":    ErrCodeEditWindowExpired,
	"INSUFFICIENT_SUPPLY":    ErrCodeInsufficientSupply,
	"INSUFFICIENT_INVENTORY": ErrCodeInsufficientInventory,
	"GENERATION_EXHAUSTED":   ErrCodeGenerationExhausted,
	"ALREADY_PAID":           ErrCodeAlreadyPaid,
	"STORAGE_TIMEOUT":        ErrCodeStorageTimeout,
	"INVALID_SUPPLIER":       ErrCodeInvalidInput,
	"INVALID_SUPPLY_RECORD":  ErrCodeInvalidInput,
	"INVALID_TRANSITION":     ErrCodeInvalidState,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the HTTP-layer format.
// Codes already in the ERR_ format or unknown codes pass through as-is.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
