package stk500

import (
	"fmt"
	"time"

	"github.com/avrprog/stk500v1/serialport"
)

// Codec frames, transmits, and validates one request/response exchange
// at a time over a Link. It holds no session state of its own.
type Codec struct {
	link    serialport.Link
	timeout time.Duration
}

// New wraps link in a Codec using the default per-command timeout.
func New(link serialport.Link) *Codec {
	return &Codec{link: link, timeout: DefaultResponseTimeout}
}

// WithTimeout returns a Codec identical to c but using timeout for
// subsequent exchanges.
func (c *Codec) WithTimeout(timeout time.Duration) *Codec {
	return &Codec{link: c.link, timeout: timeout}
}

// Send transmits cmd followed by body and CRC_EOP, then reads and
// validates the response frame. respLen is the number of payload bytes
// the response carries between INSYNC and OK (0 for fixed-void
// commands, 1 for GET_PARAMETER, 3 for READ_SIGN, or the page length
// for READ_PAGE).
func (c *Codec) Send(cmd Command, body []byte, respLen int) ([]byte, error) {
	frame := make([]byte, 0, len(body)+2)
	frame = append(frame, byte(cmd))
	frame = append(frame, body...)
	frame = append(frame, CRCEOP)

	if err := c.link.WriteAll(frame); err != nil {
		return nil, fmt.Errorf("stk500: command 0x%02X: %w", byte(cmd), err)
	}

	lead, err := c.link.ReadExact(1, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("stk500: command 0x%02X: %w", byte(cmd), err)
	}

	switch lead[0] {
	case NoSync:
		return nil, &OutOfSyncError{Command: cmd}
	case InSync:
		// proceed below
	default:
		return nil, &ProtocolError{Command: cmd, Expected: InSync, Got: lead[0]}
	}

	var payload []byte
	if respLen > 0 {
		payload, err = c.link.ReadExact(respLen, c.timeout)
		if err != nil {
			return nil, fmt.Errorf("stk500: command 0x%02X: %w", byte(cmd), err)
		}
	}

	tail, err := c.link.ReadExact(1, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("stk500: command 0x%02X: %w", byte(cmd), err)
	}

	switch tail[0] {
	case OK:
		return payload, nil
	case Failed, NoDevice, Unknown, PinsFailed:
		return nil, &FailureError{Command: cmd, Reason: tail[0]}
	default:
		return nil, &ProtocolError{Command: cmd, Expected: OK, Got: tail[0]}
	}
}

// LoadAddressWord converts a flash byte address into the little-endian
// word address LOAD_ADDRESS expects. byteAddr must be even: STK500v1
// addresses flash in 16-bit words.
func LoadAddressWord(byteAddr uint16) ([]byte, error) {
	if byteAddr%2 != 0 {
		return nil, &OddAddressError{ByteAddress: byteAddr}
	}
	word := byteAddr >> 1
	return []byte{byte(word), byte(word >> 8)}, nil
}

// ProgPageBody builds the PROG_PAGE request body: 2-byte big-endian
// length, memtype, then the page payload.
func ProgPageBody(memType byte, payload []byte) []byte {
	body := make([]byte, 0, 3+len(payload))
	n := uint16(len(payload))
	body = append(body, byte(n>>8), byte(n))
	body = append(body, memType)
	body = append(body, payload...)
	return body
}

// ReadPageBody builds the READ_PAGE request body: 2-byte big-endian
// length, then memtype.
func ReadPageBody(memType byte, length int) []byte {
	n := uint16(length)
	return []byte{byte(n >> 8), byte(n), memType}
}
