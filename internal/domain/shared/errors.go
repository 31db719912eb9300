package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches another DomainError by code, so errors.Is(err, ErrInvalidDefinition)
// holds for any INVALID_DEFINITION error regardless of its message.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes of the unit-of-measure engine.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidDefinition    = "INVALID_DEFINITION"
	CodeInvalidEdge          = "INVALID_EDGE"
	CodeCycleDetected        = "CYCLE_DETECTED"
	CodeDanglingReference    = "DANGLING_REFERENCE"
	CodeNoBaseUnitInCategory = "NO_BASE_UNIT_IN_CATEGORY"
	CodeNoPackagingDefined   = "NO_PACKAGING_DEFINED"
	CodeNoConversionPath     = "NO_CONVERSION_PATH"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidDefinition = NewDomainError(CodeInvalidDefinition, "Invalid unit definition")
	ErrInvalidEdge       = NewDomainError(CodeInvalidEdge, "Invalid conversion edge")
	ErrNoConversionPath  = NewDomainError(CodeNoConversionPath, "No conversion path between units")
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)
