package errcode

import (
	"errors"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = NotFound
	if err.Error() != "not_found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestOfExtraction(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", InvalidState, InvalidState},
		{"wrapped", &E{C: CapacityExceeded, Op: "add"}, CapacityExceeded},
		{"foreign", errors.New("disk on fire"), Error},
	}
	for _, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Errorf("%s: Of() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestEUnwrap(t *testing.T) {
	cause := errors.New("cause")
	e := &E{C: Error, Msg: "boom", Err: cause}
	if !errors.Is(e, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if e.Error() != "error: boom" {
		t.Fatalf("unexpected message: %q", e.Error())
	}
}
