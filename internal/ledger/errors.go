package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for the write pre-flight checks.
var (
	// ErrInsufficientBalance means the account cannot cover a write that
	// requires a token or fee balance. Checked before submission so a
	// doomed transaction is never attempted.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	// ErrApprovalRequired means the spender allowance is below the amount
	// a write would move.
	ErrApprovalRequired = errors.New("ledger: token approval required")
)

// ReadError wraps the failure of a single ledger read. Read errors are
// always isolated to their item and never abort a batch.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("ledger read %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// TimeoutError marks a read that exceeded its bounded wait.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ledger read %s: timed out", e.Op)
}

// TransactionRejectedError means the user declined the transaction in the
// wallet. Never retried automatically.
type TransactionRejectedError struct {
	Op string
}

func (e *TransactionRejectedError) Error() string {
	return fmt.Sprintf("transaction %s rejected by user", e.Op)
}

// TransactionRevertedError means the ledger rejected the call. Reason is
// surfaced verbatim when the node made one available.
type TransactionRevertedError struct {
	Op     string
	TxHash string
	Reason string
}

func (e *TransactionRevertedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transaction %s reverted: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("transaction %s reverted", e.Op)
}

// UserMessage derives the most specific human-readable description of a
// write failure: revert reason, then the error message, then a generic
// fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var reverted *TransactionRevertedError
	if errors.As(err, &reverted) && reverted.Reason != "" {
		return reverted.Reason
	}
	var rejected *TransactionRejectedError
	if errors.As(err, &rejected) {
		return "Transaction rejected in wallet"
	}
	if errors.Is(err, ErrInsufficientBalance) {
		return "Insufficient balance"
	}
	if errors.Is(err, ErrApprovalRequired) {
		return "Token approval required"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Transaction failed"
}
