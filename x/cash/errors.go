package cash

import "github.com/fymoney/weave/errors"

// Reserved codes 30~39
var (
	// ErrInsufficientFunds is returned when a transfer exceeds the
	// balance of the source account.
	ErrInsufficientFunds = errors.Register(30, "insufficient funds")

	// ErrAccountNotEmpty is returned when closing an account that still
	// holds value.
	ErrAccountNotEmpty = errors.Register(31, "account not empty")
)
