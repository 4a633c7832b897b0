package stk500

import "fmt"

// ProtocolError reports that a response frame deviated from what the
// codec contract requires: a missing INSYNC, a missing trailing OK, or
// any other framing byte mismatch.
type ProtocolError struct {
	Command  Command
	Expected byte
	Got      byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("stk500: command 0x%02X: protocol error: expected 0x%02X, got 0x%02X",
		byte(e.Command), e.Expected, e.Got)
}

// OutOfSyncError reports that the bootloader answered with NOSYNC.
type OutOfSyncError struct {
	Command Command
}

func (e *OutOfSyncError) Error() string {
	return fmt.Sprintf("stk500: command 0x%02X: out of sync", byte(e.Command))
}

// FailureError reports that the bootloader answered INSYNC followed by
// one of FAILED, NODEVICE, UNKNOWN, or PINS_FAILED instead of OK.
type FailureError struct {
	Command Command
	Reason  byte
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("stk500: command 0x%02X: device reported failure 0x%02X",
		byte(e.Command), e.Reason)
}

// OddAddressError reports an attempt to LOAD_ADDRESS a byte address
// that isn't word-aligned; STK500v1 addresses flash in 16-bit words.
type OddAddressError struct {
	ByteAddress uint16
}

func (e *OddAddressError) Error() string {
	return fmt.Sprintf("stk500: byte address 0x%04X is not word-aligned", e.ByteAddress)
}
