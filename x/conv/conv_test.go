package conv

import "testing"

func TestUtoa(t *testing.T) {
	cases := map[uint]string{0: "0", 7: "7", 42: "42", 359999: "359999"}
	for in, want := range cases {
		if got := Utoa(in); got != want {
			t.Errorf("Utoa(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", -1: "-1", 400: "400", -359999: "-359999"}
	for in, want := range cases {
		if got := Itoa(in); got != want {
			t.Errorf("Itoa(%d) = %q, want %q", in, got, want)
		}
	}
}
