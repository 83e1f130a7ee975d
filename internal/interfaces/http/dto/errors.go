package dto

import "net/http"

// Error code constants. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeInvalidState = "ERR_INVALID_STATE"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// Cart and menu error codes
const (
	ErrCodeProductNotFound       = "ERR_PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable    = "ERR_PRODUCT_UNAVAILABLE"
	ErrCodeToppingNotFound       = "ERR_TOPPING_NOT_FOUND"
	ErrCodeInvalidSelection      = "ERR_INVALID_TOPPING_SELECTION"
	ErrCodeSearchKeywordTooShort = "ERR_SEARCH_KEYWORD_TOO_SHORT"
	ErrCodeInvalidQuantity       = "ERR_INVALID_QUANTITY"
	ErrCodeCurrencyMismatch      = "ERR_CURRENCY_MISMATCH"
	ErrCodeLineItemNotFound      = "ERR_LINE_ITEM_NOT_FOUND"
	ErrCodeConfirmationRequired  = "ERR_CONFIRMATION_REQUIRED"
	ErrCodeNoPendingConfirmation = "ERR_NO_PENDING_CONFIRMATION"
	ErrCodeEmptyCart             = "ERR_EMPTY_CART"
	ErrCodeOrderNotFound         = "ERR_ORDER_NOT_FOUND"
	ErrCodeOrderLineNotFound     = "ERR_ORDER_LINE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,

	ErrCodeProductNotFound:       http.StatusNotFound,
	ErrCodeProductUnavailable:    http.StatusUnprocessableEntity,
	ErrCodeToppingNotFound:       http.StatusUnprocessableEntity,
	ErrCodeInvalidSelection:      http.StatusUnprocessableEntity,
	ErrCodeSearchKeywordTooShort: http.StatusBadRequest,
	ErrCodeInvalidQuantity:       http.StatusBadRequest,
	ErrCodeCurrencyMismatch:      http.StatusUnprocessableEntity,
	ErrCodeLineItemNotFound:      http.StatusNotFound,
	ErrCodeConfirmationRequired:  http.StatusConflict,
	ErrCodeNoPendingConfirmation: http.StatusConflict,
	ErrCodeEmptyCart:             http.StatusUnprocessableEntity,
	ErrCodeOrderNotFound:         http.StatusNotFound,
	ErrCodeOrderLineNotFound:     http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code, or 500 for
// unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"CONFIRMATION_REQUIRED":     ErrCodeConfirmationRequired,
	"PRODUCT_NOT_FOUND":         ErrCodeProductNotFound,
	"PRODUCT_UNAVAILABLE":       ErrCodeProductUnavailable,
	"TOPPING_NOT_FOUND":         ErrCodeToppingNotFound,
	"INVALID_TOPPING_SELECTION": ErrCodeInvalidSelection,
	"SEARCH_KEYWORD_TOO_SHORT":  ErrCodeSearchKeywordTooShort,
	"INVALID_QUANTITY":          ErrCodeInvalidQuantity,
	"CURRENCY_MISMATCH":         ErrCodeCurrencyMismatch,
	"CART_UNAVAILABLE":          ErrCodeUnavailable,
	"INVALID_PRODUCT":           ErrCodeInvalidInput,
	"INVALID_LINE_ITEM":         ErrCodeInvalidInput,
	"LINE_ITEM_NOT_FOUND":       ErrCodeLineItemNotFound,
	"NO_PENDING_CONFIRMATION":   ErrCodeNoPendingConfirmation,
	"EMPTY_CART":                ErrCodeEmptyCart,
	"ORDER_NOT_FOUND":           ErrCodeOrderNotFound,
	"ORDER_LINE_NOT_FOUND":      ErrCodeOrderLineNotFound,
	"PROPOSAL_APPLIED":          ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the API format. Codes
// already in API format and unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
