package models

import "fmt"

// ConfigurationError reports malformed loan or installment financial data.
// It is never recovered from inside the calculator: a wrong monetary
// figure must halt the computation rather than be displayed.
type ConfigurationError struct {
	LoanID string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("loan %s: %s", e.LoanID, e.Detail)
}

func NewConfigurationError(loanID, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		LoanID: loanID,
		Detail: fmt.Sprintf(format, args...),
	}
}
