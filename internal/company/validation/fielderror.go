// Package validation is the application validation and consistency engine.
//
// All functions here are pure: no I/O, no clock, no external lookups.
// Violations within a single ValidateApplication call are accumulated and
// returned together so a caller can present a complete correction list,
// never fail-fast.
package validation

import (
	"fmt"
	"strings"
)

// Code identifies one class of structural or cross-field violation. Each
// violation carries the offending field path alongside its code.
type Code string

const (
	CodeMissingRequiredField Code = "missing_required_field"
	CodeInvalidReferenceKind Code = "invalid_reference_kind"
	// CodeRatioOutOfRange is reserved for percentage ratios; other numeric
	// and length bounds report CodeOutOfRange.
	CodeRatioOutOfRange Code = "ratio_out_of_range"
	CodeOutOfRange      Code = "out_of_range"
	CodeSumMismatch          Code = "sum_mismatch"
	CodeVotingSumMismatch    Code = "voting_sum_mismatch"
	CodeMissingVotingRatio   Code = "missing_voting_ratio"
	CodeRoleNotInSet         Code = "role_not_in_set"
	CodeConflictingRole      Code = "conflicting_role"
	CodeDuplicateParty       Code = "duplicate_party"
	CodeAmbiguousChangeType  Code = "ambiguous_change_type"
	CodeNoOpChange           Code = "noop_change"
	CodeInsufficientHolding  Code = "insufficient_holding"
)

// FieldError is one violation, tagged with the offending field path.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

// Violations is the accumulated set of field errors from one validation
// pass. A nil or empty Violations means the input is well-formed.
type Violations []FieldError

func (v Violations) Error() string {
	if len(v) == 0 {
		return "no violations"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any accumulated violation carries the given code.
func (v Violations) Has(code Code) bool {
	for _, fe := range v {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// HasField reports whether any accumulated violation targets the given
// field path.
func (v Violations) HasField(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// AsError returns the violations as an error, or nil when empty. Keeps call
// sites from returning a non-nil error interface holding an empty slice.
func (v Violations) AsError() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v *Violations) add(field string, code Code, format string, args ...any) {
	*v = append(*v, FieldError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}
