package uom

import "github.com/erp/uom/internal/domain/shared"

// Issue is a structured validation message.
type Issue struct {
	Code     string          `json:"code"`
	Severity shared.Severity `json:"severity"`
	// Subject names the unit, edge or cycle the issue is about.
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// ValidationReport is the result of one validation pass. Errors and Warnings
// hold the messages verbatim for display; Issues carries the same messages
// with stable codes. OK is true iff Errors is empty.
type ValidationReport struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	OK       bool     `json:"ok"`
	Issues   []Issue  `json:"issues"`
}

// NewValidationReport returns an empty, passing report
func NewValidationReport() ValidationReport {
	return ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
		OK:       true,
		Issues:   []Issue{},
	}
}

// AddError records an error and marks the report as failed
func (r *ValidationReport) AddError(code, subject, message string) {
	r.Errors = append(r.Errors, message)
	r.Issues = append(r.Issues, Issue{Code: code, Severity: shared.SeverityError, Subject: subject, Message: message})
	r.OK = false
}

// AddWarning records a warning; warnings never affect OK
func (r *ValidationReport) AddWarning(code, subject, message string) {
	r.Warnings = append(r.Warnings, message)
	r.Issues = append(r.Issues, Issue{Code: code, Severity: shared.SeverityWarning, Subject: subject, Message: message})
}

// HasIssue reports whether an issue with the given code was recorded
func (r ValidationReport) HasIssue(code string) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}
