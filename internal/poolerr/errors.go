// Package poolerr defines the error taxonomy of the weighted pool core.
//
// Every failure an operation can surface maps to one coded error here.
// Errors abort the whole operation before any transfer is issued; none
// are retried internally.
package poolerr

import (
	"errors"
	"fmt"
)

// Error codes for the pool core.
const (
	CodeInvalidFeeConfiguration  = "INVALID_FEE_CONFIGURATION"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeDuplicateAsset           = "DUPLICATE_ASSET"
	CodeInvalidTokenIndex        = "INVALID_TOKEN_INDEX"
	CodeInvalidTokenCount        = "INVALID_TOKEN_COUNT"
	CodeInvalidWeight            = "INVALID_WEIGHT"
	CodeInsufficientTokenAmount  = "INSUFFICIENT_TOKEN_AMOUNT"
	CodeInsufficientLiquidity    = "INSUFFICIENT_LIQUIDITY"
	CodeInsufficientOutputAmount = "INSUFFICIENT_OUTPUT_AMOUNT"
	CodeInvalidTokenMint         = "INVALID_TOKEN_MINT"
	CodeSameTokenSwap            = "SAME_TOKEN_SWAP"
	CodeMathOverflow             = "MATH_OVERFLOW"
	CodeVaultNotEmpty            = "VAULT_NOT_EMPTY"
	CodeAccountNotFound          = "ACCOUNT_NOT_FOUND"
	CodeMintNotFound             = "MINT_NOT_FOUND"
)

// PoolError represents an error raised by the pool core.
type PoolError struct {
	// Code is a unique error code for this error type.
	Code string

	// Message is a human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *PoolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *PoolError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target by code.
func (e *PoolError) Is(target error) bool {
	t, ok := target.(*PoolError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with an underlying cause attached.
func (e *PoolError) WithCause(cause error) *PoolError {
	return &PoolError{Code: e.Code, Message: e.Message, Cause: cause}
}

// New creates a new PoolError.
func New(code, message string) *PoolError {
	return &PoolError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new PoolError with a formatted message.
func Newf(code, format string, args ...any) *PoolError {
	return New(code, fmt.Sprintf(format, args...))
}

// Pre-defined errors, one per taxonomy entry.
var (
	// ErrInvalidFeeConfiguration is returned for a zero denominator or a
	// numerator greater than the denominator.
	ErrInvalidFeeConfiguration = New(CodeInvalidFeeConfiguration, "fee numerator/denominator out of range")

	// ErrUnauthorized is returned when a non-admin attempts a gated operation.
	ErrUnauthorized = New(CodeUnauthorized, "caller is not the pool admin")

	// ErrDuplicateAsset is returned when an asset is already a pool member.
	ErrDuplicateAsset = New(CodeDuplicateAsset, "asset already in pool")

	// ErrInvalidTokenIndex is returned for an out-of-range or missing slot.
	ErrInvalidTokenIndex = New(CodeInvalidTokenIndex, "no such asset slot")

	// ErrInvalidTokenCount is returned for capacity or account-list shape
	// violations.
	ErrInvalidTokenCount = New(CodeInvalidTokenCount, "token or account count mismatch")

	// ErrInvalidWeight is returned for a zero weight.
	ErrInvalidWeight = New(CodeInvalidWeight, "weight must be positive")

	// ErrInsufficientTokenAmount is returned when a caller balance is too low.
	ErrInsufficientTokenAmount = New(CodeInsufficientTokenAmount, "insufficient token balance")

	// ErrInsufficientLiquidity is returned when a reserve, output or the
	// minted-liquidity floor is violated.
	ErrInsufficientLiquidity = New(CodeInsufficientLiquidity, "insufficient liquidity")

	// ErrInsufficientOutputAmount is returned when the slippage bound fails.
	ErrInsufficientOutputAmount = New(CodeInsufficientOutputAmount, "output below minimum amount")

	// ErrInvalidTokenMint is returned on an asset or vault identity mismatch.
	ErrInvalidTokenMint = New(CodeInvalidTokenMint, "token mint does not match pool member")

	// ErrSameTokenSwap is returned when both swap sides resolve to one asset.
	ErrSameTokenSwap = New(CodeSameTokenSwap, "cannot swap a token for itself")

	// ErrMathOverflow is returned on any checked arithmetic failure or
	// invariant breach.
	ErrMathOverflow = New(CodeMathOverflow, "math overflow")

	// ErrVaultNotEmpty is returned when removing an asset whose vault still
	// holds reserves.
	ErrVaultNotEmpty = New(CodeVaultNotEmpty, "vault reserve must be zero")

	// ErrAccountNotFound is returned by the token ledger for an unknown
	// account.
	ErrAccountNotFound = New(CodeAccountNotFound, "token account not found")

	// ErrMintNotFound is returned by the token ledger for an unknown mint.
	ErrMintNotFound = New(CodeMintNotFound, "token mint not found")
)

// Overflow wraps an arithmetic failure as a MathOverflow error.
func Overflow(cause error) *PoolError {
	return ErrMathOverflow.WithCause(cause)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
