package payroll

import (
	"errors"
	"fmt"
)

// ErrNotEligible means the input is valid but no retirement pay entitlement
// exists (service shorter than the statutory minimum).
var ErrNotEligible = errors.New("not eligible for retirement pay")

// InputError reports a field that cannot be calculated with.
type InputError struct {
	Field   string
	Code    string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

const (
	CodeInvalidSalary          = "INVALID_SALARY"
	CodeInvalidDependents      = "INVALID_DEPENDENTS"
	CodeInvalidChildren        = "INVALID_CHILDREN"
	CodeInvalidNonTaxable      = "INVALID_NON_TAXABLE"
	CodeInvalidDate            = "INVALID_DATE"
	CodeInvalidDateRange       = "INVALID_DATE_RANGE"
	CodeInvalidMonthlySalaries = "INVALID_MONTHLY_SALARIES"
	CodeInvalidBonus           = "INVALID_BONUS"
	CodeInvalidLeaveDays       = "INVALID_LEAVE_DAYS"
	CodeUnknownDomain          = "UNKNOWN_DOMAIN"
)

// MaxAmount bounds every won input so intermediate products stay within int64.
const MaxAmount int64 = 1_000_000_000_000

func invalid(field, code, format string, args ...any) *InputError {
	return &InputError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
}

func checkAmount(field, code string, v int64) error {
	if v < 0 {
		return invalid(field, code, "%s must be non-negative", field)
	}
	if v > MaxAmount {
		return invalid(field, code, "%s exceeds %d", field, MaxAmount)
	}
	return nil
}
