package weave

import (
	"github.com/fymoney/weave/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are always reported as errors.
type DeliverResult struct {
	// Data is returned to the client, for example the stored escrow.
	Data []byte
	Log  string
	// Tags are indexed by tendermint, clients can search transactions by
	// them.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI converts the result into a DeliverTx response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a successfully checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the maximum units of work the transaction may
	// perform when delivered.
	GasAllocated int64
}

// ToABCI converts the result into a CheckTx response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError returns the DeliverTx response for the result, or for err
// if it is set.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the CheckTx response for the result, or for err if
// it is set.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError converts err into a DeliverTx response. Codes of
// registered errors are kept, see errors.ABCIInfo.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txError("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts err into a CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txError("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func txError(prefix string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, prefix + ": " + log
}
