package escrow

import "github.com/fymoney/weave/errors"

// Reserved codes 1010~1019
var (
	ErrInvalidAmount      = errors.Register(1010, "invalid amount: must be greater than 0")
	ErrInvalidExpiration  = errors.Register(1011, "invalid expiration: must be in the future")
	ErrExpirationTooLong  = errors.Register(1012, "expiration too long: maximum is 30 days")
	ErrEscrowNotActive    = errors.Register(1013, "escrow is not active")
	ErrEscrowExpired      = errors.Register(1014, "escrow has expired")
	ErrEscrowNotExpired   = errors.Register(1015, "escrow has not expired yet")
	ErrInvalidRecipient   = errors.Register(1016, "invalid recipient")
	ErrUnauthorizedSender = errors.Register(1017, "unauthorized: only sender can reclaim")
)

var (
	// ErrAlreadyExists is returned when an escrow for the same sender and
	// recipient hash is present.
	ErrAlreadyExists = errors.ErrDuplicate

	// ErrArithmeticOverflow is returned when a checked computation on
	// amounts or timestamps overflows.
	ErrArithmeticOverflow = errors.ErrOverflow
)
