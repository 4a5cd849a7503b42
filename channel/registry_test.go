package channel

import (
	"testing"

	"pmufw-go/errcode"
)

func TestRegisterAndGetSet(t *testing.T) {
	r := NewRegistry()
	d := Desc{ID: 10, Name: "d_in1", Dir: DirInput, Format: FormatSigned, Min: 0, Max: 1000, Enabled: true}
	if err := r.Register(d); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if got := r.Get(10); got != 0 {
		t.Fatalf("fresh channel = %d, want 0", got)
	}
	r.Set(10, 1000)
	if got := r.Get(10); got != 1000 {
		t.Fatalf("after set = %d, want 1000", got)
	}
	if got, ok := r.Lookup(10); !ok || got.Name != "d_in1" {
		t.Fatalf("lookup = %+v, %v", got, ok)
	}
}

func TestRegisterRejects(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Desc{ID: 0, Name: "x"}); errcode.Of(err) != errcode.InvalidArgument {
		t.Fatalf("id 0: got %v", err)
	}
	if err := r.Register(Desc{ID: 5, Name: ""}); errcode.Of(err) != errcode.InvalidArgument {
		t.Fatalf("empty name: got %v", err)
	}
	if err := r.Register(Desc{ID: 5, Name: "a"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(Desc{ID: 5, Name: "b"}); errcode.Of(err) != errcode.ChannelInUse {
		t.Fatalf("collision: got %v", err)
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Desc{ID: 7, Name: "x"}); err != nil {
		t.Fatal(err)
	}
	r.Unregister(7)
	r.Unregister(7) // already gone
	r.Unregister(0) // reserved id
	if _, ok := r.Lookup(7); ok {
		t.Fatal("channel still present after unregister")
	}
	if r.Count() != 0 {
		t.Fatalf("count = %d, want 0", r.Count())
	}
}

func TestSetStoresRawValue(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Desc{ID: 3, Name: "elapsed", Min: 0, Max: 1000}); err != nil {
		t.Fatal(err)
	}
	// Bounds are descriptor metadata, not enforced on writes.
	r.Set(3, 5000)
	if got := r.Get(3); got != 5000 {
		t.Fatalf("value = %d, want 5000", got)
	}
}

func TestSetUnknownIgnored(t *testing.T) {
	r := NewRegistry()
	r.Set(99, 1) // must not panic or create
	if got := r.Get(99); got != 0 {
		t.Fatalf("unknown = %d, want 0", got)
	}
}
