package errcode

import (
	"errors"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = Timeout
	if err.Error() != "timeout" {
		t.Fatalf("Code.Error: %q", err.Error())
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to OK")
	}
	if Of(BadChecksum) != BadChecksum {
		t.Fatal("bare Code should pass through")
	}
	if Of(&E{C: GPIOError, Op: "set"}) != GPIOError {
		t.Fatal("E should expose its code")
	}
	if Of(errors.New("opaque")) != Error {
		t.Fatal("unknown errors should fall back to Error")
	}
}

func TestEWrapping(t *testing.T) {
	cause := errors.New("pin busy")
	e := &E{C: GPIOError, Op: "configure", Msg: "pin 4", Err: cause}
	if e.Error() != "gpio_error: pin 4" {
		t.Fatalf("E.Error: %q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatal("E should unwrap to its cause")
	}
}
