package timex

import "testing"

func TestSinceMsWraparound(t *testing.T) {
	cases := []struct {
		now, then, want uint32
	}{
		{1000, 0, 1000},
		{5100, 100, 5000},
		{100, 0xFFFFFF9C, 200}, // then is 100ms before the wrap
		{0, 0xFFFFFFFF, 1},
	}
	for _, c := range cases {
		if got := SinceMs(c.now, c.then); got != c.want {
			t.Errorf("SinceMs(%d, %d) = %d, want %d", c.now, c.then, got, c.want)
		}
	}
}

func TestManualClock(t *testing.T) {
	c := NewManual(10)
	if c.NowMs() != 10 {
		t.Fatalf("start = %d, want 10", c.NowMs())
	}
	c.Advance(90)
	if c.NowMs() != 100 {
		t.Fatalf("after advance = %d, want 100", c.NowMs())
	}
	c.Set(0xFFFFFFFF)
	c.Advance(2)
	if c.NowMs() != 1 {
		t.Fatalf("wrap = %d, want 1", c.NowMs())
	}
}
