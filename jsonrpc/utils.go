package jsonrpc

import (
	"github.com/creachadair/jrpc2"

	"github.com/vaultnet/vaultd/errors"
)

// JSON-RPC error codes for the ledger error kinds, in the server-defined
// range so callers can distinguish them from protocol errors.
var rpcCodes = map[errors.ErrorCode]jrpc2.Code{
	errors.ErrCodeNotWritable:          -32001,
	errors.ErrCodeIncorrectOwner:       -32002,
	errors.ErrCodeInvalidParams:        -32003,
	errors.ErrCodeInsufficientFunds:    -32004,
	errors.ErrCodeArithmeticOverflow:   -32005,
	errors.ErrCodeMalformedInstruction: -32006,
	errors.ErrCodeMissingAccount:       -32007,
	errors.ErrCodeAccountExisted:       -32010,
	errors.ErrCodeAccountNotFound:      -32011,
	errors.ErrCodeInvalidAddress:       -32012,
	errors.ErrCodeInvalidRequest:       -32600,
}

const codeInternal jrpc2.Code = -32000

// toRPCError converts a LedgerError into a jrpc2 error carrying the code and
// message as structured data, so clients get a machine-readable kind instead
// of a generic failure.
func toRPCError(err error) error {
	var le *errors.LedgerError
	if !errors.As(err, &le) {
		return jrpc2.Errorf(codeInternal, "%s", err.Error())
	}
	code, ok := rpcCodes[le.Code]
	if !ok {
		code = codeInternal
	}
	return jrpc2.Errorf(code, "%s", le.Message).WithData(le)
}
