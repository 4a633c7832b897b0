package programmer

import (
	"errors"

	"github.com/avrprog/stk500v1/hexfile"
	"github.com/avrprog/stk500v1/serialport"
	"github.com/avrprog/stk500v1/session"
	"github.com/avrprog/stk500v1/stk500"
)

// Kind categorizes a ProgramHexFile failure for callers, such as the
// CLI, that need a stable small set of outcomes rather than a type
// switch over every internal error type.
type Kind int

const (
	KindNone Kind = iota
	KindHexParse
	KindPortError
	KindIO
	KindSyncTimeout
	KindSignatureMismatch
	KindProtocol
	KindWriteFailed
	KindVerifyMismatch
	KindCancelled
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindHexParse:
		return "hex parse error"
	case KindPortError:
		return "port error"
	case KindIO:
		return "I/O error"
	case KindSyncTimeout:
		return "sync timeout"
	case KindSignatureMismatch:
		return "signature mismatch"
	case KindProtocol:
		return "protocol error"
	case KindWriteFailed:
		return "write failed"
	case KindVerifyMismatch:
		return "verify mismatch"
	case KindCancelled:
		return "cancelled"
	case KindUsage:
		return "usage error"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by ProgramHexFile (or
// ProgramHexFileContext) onto a Kind. err == nil maps to KindNone.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var hexErr *hexfile.ParseError
	if errors.As(err, &hexErr) {
		return KindHexParse
	}

	var unknownBoard *ErrUnknownBoard
	if errors.As(err, &unknownBoard) || errors.Is(err, ErrAlreadyUsed) ||
		errors.Is(err, ErrMissingFirmware) || errors.Is(err, ErrMissingTarget) ||
		errors.Is(err, ErrInvalidTarget) {
		return KindUsage
	}

	var portErr *serialport.PortError
	if errors.As(err, &portErr) {
		return KindPortError
	}

	var syncErr *session.SyncTimeoutError
	if errors.As(err, &syncErr) {
		return KindSyncTimeout
	}

	var sigErr *session.SignatureMismatchError
	if errors.As(err, &sigErr) {
		return KindSignatureMismatch
	}

	var verifyErr *session.VerifyMismatchError
	if errors.As(err, &verifyErr) {
		return KindVerifyMismatch
	}

	var cancelErr *session.CancelledError
	if errors.As(err, &cancelErr) {
		return KindCancelled
	}

	var writeErr *session.WriteFailedError
	if errors.As(err, &writeErr) {
		return KindWriteFailed
	}

	var protoErr *stk500.ProtocolError
	var outOfSync *stk500.OutOfSyncError
	var failureErr *stk500.FailureError
	var oddAddr *stk500.OddAddressError
	if errors.As(err, &protoErr) || errors.As(err, &outOfSync) ||
		errors.As(err, &failureErr) || errors.As(err, &oddAddr) {
		return KindProtocol
	}

	return KindIO
}
