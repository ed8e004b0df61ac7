package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the ABCI code of a transaction that did not fail.
	SuccessABCICode = 0

	// Errors that were not registered share this code. Outside of debug
	// mode their message is replaced, it may leak node internals.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for err.
//
// Registered errors, wrapped or not, keep their code and message. Any
// other error is reported with code 1 and a generic message, unless debug
// is set. In debug mode the log carries the full error, including the
// stack trace when available.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps err until an error carrying an ABCI code is found.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

// errIsNil returns true for nil and for a nil pointer stored in the error
// interface, for example a nil *Error.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}
