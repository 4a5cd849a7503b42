package types

import "testing"

func TestLimitMs(t *testing.T) {
	cases := []struct {
		name    string
		h, m, s uint32
		want    uint32
	}{
		{"zero", 0, 0, 0, 0},
		{"five seconds", 0, 0, 5, 5000},
		{"one of each", 1, 1, 1, 3661000},
		{"minutes only", 0, 90, 0, 5400000},
		{"max display", 99, 59, 59, 359999000},
	}
	for _, c := range cases {
		spec := TimerSpec{LimitHours: c.h, LimitMinutes: c.m, LimitSeconds: c.s}
		if got := spec.LimitMs(); got != c.want {
			t.Errorf("%s: LimitMs() = %d, want %d", c.name, got, c.want)
		}
	}
}
