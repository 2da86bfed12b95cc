package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vaultnet/vaultd/jsonx"
)

// ErrorCode represents standardized error codes for ledger and RPC operations
type ErrorCode string

const (
	// Ledger errors - terminal for the instruction that triggered them
	ErrCodeNotWritable          ErrorCode = "not_writable"
	ErrCodeIncorrectOwner       ErrorCode = "incorrect_owner"
	ErrCodeInvalidParams        ErrorCode = "invalid_params"
	ErrCodeInsufficientFunds    ErrorCode = "insufficient_funds"
	ErrCodeArithmeticOverflow   ErrorCode = "arithmetic_overflow"
	ErrCodeMalformedInstruction ErrorCode = "malformed_instruction"
	ErrCodeMissingAccount       ErrorCode = "missing_account"

	// Host and RPC errors
	ErrCodeAccountExisted  ErrorCode = "account_existed"
	ErrCodeAccountNotFound ErrorCode = "account_not_found"
	ErrCodeInvalidAddress  ErrorCode = "invalid_address"
	ErrCodeInvalidRequest  ErrorCode = "invalid_request"
	ErrCodeInternal        ErrorCode = "internal_error"
)

// Error message constants - user-friendly and concise
const (
	ErrMsgNotWritable          = "Account is not marked writable"
	ErrMsgIncorrectOwner       = "Account owner does not match"
	ErrMsgInvalidParams        = "Amount is invalid or zero"
	ErrMsgInsufficientFunds    = "Not enough balance in the account"
	ErrMsgArithmeticOverflow   = "Balance arithmetic would overflow"
	ErrMsgMalformedInstruction = "Instruction data is malformed"
	ErrMsgMissingAccount       = "Instruction carries no target account"
	ErrMsgAccountExisted       = "Account already exists"
	ErrMsgAccountNotFound      = "Account does not exist"
	ErrMsgInvalidAddress       = "Account address is invalid"
	ErrMsgInvalidRequest       = "Request format is invalid"
	ErrMsgInternal             = "Server error, please try again"
)

// LedgerError is a standardized error carrying a machine-readable code so
// callers can distinguish an invalid request from missing funds from a
// missing authorization.
type LedgerError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	out, _ := jsonx.Marshal(LedgerError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(out)
}

// New creates a new LedgerError and returns it as error interface
func New(code ErrorCode, message string) error {
	return &LedgerError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new LedgerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &LedgerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the error code from err, or ErrCodeInternal when err does
// not wrap a LedgerError.
func CodeOf(err error) ErrorCode {
	var le *LedgerError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}

// As passes through to the standard library's errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var le *LedgerError
	return stderrors.As(err, &le) && le.Code == code
}
