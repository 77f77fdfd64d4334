package economy

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by an engine matches exactly one of
// these with errors.Is; the message of the concrete error is the reason shown
// to the user.
var (
	ErrPreconditionFailed       = errors.New("precondition failed")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInvalidTier              = errors.New("invalid tier")
	ErrInvalidAddress           = errors.New("invalid address")
	ErrInvalidReferral          = errors.New("invalid referral")
	ErrAlreadyReferred          = errors.New("already referred")
	ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrUserNotFound             = errors.New("user not found")
	ErrWithdrawalNotFound       = errors.New("withdrawal not found")
	ErrTaskNotFound             = errors.New("task not found")
)

var codes = map[error]string{
	ErrPreconditionFailed:       "precondition_failed",
	ErrInsufficientFunds:        "insufficient_funds",
	ErrInvalidTier:              "invalid_tier",
	ErrInvalidAddress:           "invalid_address",
	ErrInvalidReferral:          "invalid_referral",
	ErrAlreadyReferred:          "already_referred",
	ErrConcurrentUpdateConflict: "concurrent_update_conflict",
	ErrInvalidAmount:            "invalid_amount",
	ErrUserNotFound:             "user_not_found",
	ErrWithdrawalNotFound:       "withdrawal_not_found",
	ErrTaskNotFound:             "task_not_found",
}

// RuleError carries a specific reason for one of the error kinds above.
type RuleError struct {
	Kind   error
	Reason string
}

func (e *RuleError) Error() string { return e.Reason }

func (e *RuleError) Unwrap() error { return e.Kind }

// Fail builds a RuleError of the given kind.
func Fail(kind error, format string, args ...any) error {
	return &RuleError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Code returns the stable machine code for err, or "internal" when err is
// not one of the economy kinds.
func Code(err error) string {
	for kind, code := range codes {
		if errors.Is(err, kind) {
			return code
		}
	}
	return "internal"
}

// Reason returns the user-facing reason for err.
func Reason(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	for kind := range codes {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal error"
}

// IsRuleViolation reports whether err is a business rule failure that must
// be surfaced verbatim and never retried.
func IsRuleViolation(err error) bool {
	c := Code(err)
	return c != "internal" && c != "concurrent_update_conflict"
}
