package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInvalidDefinition, http.StatusBadRequest},
		{ErrCodeInvalidUnitCode, http.StatusBadRequest},
		{ErrCodeNoConversionPath, http.StatusNotFound},
		{ErrCodeProductNotFound, http.StatusNotFound},
		{ErrCodeDuplicateUnitCode, http.StatusConflict},
		{ErrCodeNoApplicableTier, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"NO_CONVERSION_PATH", ErrCodeNoConversionPath},
		{"INVALID_DEFINITION", ErrCodeInvalidDefinition},
		{"INVALID_UNIT_CODE", ErrCodeInvalidUnitCode},
		{"INVALID_NAME", ErrCodeInvalidProduct},
		{"INVALID_PRICE", ErrCodeInvalidTier},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainErrorCodeMapping_Complete(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "from", Message: "This field is required"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "ERR_VALIDATION",
			"message": "Request validation failed",
			"request_id": "req-1",
			"details": [{"field": "from", "message": "This field is required"}]
		}
	}`, string(raw))
}

func TestNewSuccessResponse(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponse(map[string]int{"n": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "data": {"n": 1}}`, string(raw))
}
