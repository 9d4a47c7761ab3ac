package errcode

// Code is a stable, machine-facing outcome identifier for a sensor read.
// It is a string newtype, comparable, allocation-free, and implements error.
// The set is closed: every read transaction ends in exactly one of these.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable; used as metric labels and log fields).
const (
	// OK: the frame arrived, checksum-validated, and decoded.
	OK Code = "ok"
	// GPIOError: a host-side pin configuration or level-set failed.
	// Non-recoverable for that call.
	GPIOError Code = "gpio_error"
	// Timeout: an expected edge never arrived within its timing bound.
	// The dominant failure mode under interrupt contention; retry next cycle.
	Timeout Code = "timeout"
	// BadChecksum: a full frame arrived but failed the sum check, typically
	// timing corruption inside a bit window. Retry next cycle.
	BadChecksum Code = "bad_checksum"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
