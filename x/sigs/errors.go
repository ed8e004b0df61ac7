package sigs

import "github.com/fymoney/weave/errors"

// Reserved codes 120~129
var (
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
