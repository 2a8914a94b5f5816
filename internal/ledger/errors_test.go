package ledger

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"revert reason wins",
			fmt.Errorf("join: %w", &TransactionRevertedError{Op: "joinPool", Reason: "Pool is full"}),
			"Pool is full",
		},
		{
			"revert without reason falls through",
			&TransactionRevertedError{Op: "joinPool"},
			"transaction joinPool reverted",
		},
		{
			"user rejection",
			&TransactionRejectedError{Op: "stake"},
			"Transaction rejected in wallet",
		},
		{
			"insufficient balance",
			fmt.Errorf("preflight: %w", ErrInsufficientBalance),
			"Insufficient balance",
		},
		{
			"approval required",
			ErrApprovalRequired,
			"Token approval required",
		},
		{
			"plain error passes through",
			errors.New("nonce too low"),
			"nonce too low",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.want {
				t.Fatalf("UserMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReadErrorUnwraps(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ReadError{Op: "poolCount", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("ReadError must unwrap to the cause")
	}
}
