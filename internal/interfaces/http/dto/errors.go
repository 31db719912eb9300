package dto

import "net/http"

// Error codes returned by the API. Format: ERR_<DESCRIPTION>

// General error codes
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
)

// Unit catalog error codes
const (
	ErrCodeInvalidDefinition = "ERR_INVALID_DEFINITION"
	ErrCodeInvalidEdge       = "ERR_INVALID_EDGE"
	ErrCodeInvalidUnitCode   = "ERR_INVALID_UNIT_CODE"
	ErrCodeNoConversionPath  = "ERR_NO_CONVERSION_PATH"
)

// Product and pricing error codes
const (
	ErrCodeProductNotFound   = "ERR_PRODUCT_NOT_FOUND"
	ErrCodeInvalidProduct    = "ERR_INVALID_PRODUCT"
	ErrCodeInvalidPackaging  = "ERR_INVALID_PACKAGING"
	ErrCodeDuplicateUnitCode = "ERR_DUPLICATE_UNIT_CODE"
	ErrCodeInvalidTier       = "ERR_INVALID_TIER"
	ErrCodeNoApplicableTier  = "ERR_NO_APPLICABLE_TIER"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,

	ErrCodeInvalidDefinition: http.StatusBadRequest,
	ErrCodeInvalidEdge:       http.StatusBadRequest,
	ErrCodeInvalidUnitCode:   http.StatusBadRequest,
	ErrCodeNoConversionPath:  http.StatusNotFound,

	ErrCodeProductNotFound:   http.StatusNotFound,
	ErrCodeInvalidProduct:    http.StatusBadRequest,
	ErrCodeInvalidPackaging:  http.StatusUnprocessableEntity,
	ErrCodeDuplicateUnitCode: http.StatusConflict,
	ErrCodeInvalidTier:       http.StatusUnprocessableEntity,
	ErrCodeNoApplicableTier:  http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"INVALID_INPUT":           ErrCodeBadRequest,
	"INVALID_DEFINITION":      ErrCodeInvalidDefinition,
	"INVALID_EDGE":            ErrCodeInvalidEdge,
	"INVALID_UNIT_CODE":       ErrCodeInvalidUnitCode,
	"NO_CONVERSION_PATH":      ErrCodeNoConversionPath,
	"PRODUCT_NOT_FOUND":       ErrCodeProductNotFound,
	"INVALID_CODE":            ErrCodeInvalidProduct,
	"INVALID_NAME":            ErrCodeInvalidProduct,
	"INVALID_UNIT":            ErrCodeInvalidProduct,
	"INVALID_CONVERSION_RATE": ErrCodeInvalidPackaging,
	"DUPLICATE_UNIT_CODE":     ErrCodeDuplicateUnitCode,
	"INVALID_TIER":            ErrCodeInvalidTier,
	"INVALID_PRICE":           ErrCodeInvalidTier,
	"NO_APPLICABLE_TIER":      ErrCodeNoApplicableTier,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
