package signal

import "fmt"

// ConnectError reports that the control channel could not be opened.
// Detail, when present, is the diagnostic body returned by the
// validation probe (e.g. "invalid token"); Err is the original dial
// failure.
type ConnectError struct {
	Detail string
	Err    error
}

// Error returns the probe detail when available, otherwise the dial
// failure.
func (e *ConnectError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("signal: connect failed: %s", e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("signal: connect failed: %v", e.Err)
	}
	return "signal: connect failed"
}

// Unwrap exposes the dial failure for errors.Is/As.
func (e *ConnectError) Unwrap() error { return e.Err }

// DecodeError reports an inbound binary frame that is not well-formed
// protocol data, including a malformed candidate JSON envelope.
type DecodeError struct {
	Reason string
	Err    error
}

// Error describes what failed to decode.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signal: decode %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("signal: decode %s", e.Reason)
}

// Unwrap exposes the underlying parse error for errors.Is/As.
func (e *DecodeError) Unwrap() error { return e.Err }
