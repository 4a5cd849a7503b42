package conv

// Small base-10 formatting helpers; no fmt/strconv dependency so the
// package stays cheap on MCU targets.

// Utoa returns the base-10 representation of n.
func Utoa(n uint) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + (n % 10))
		n /= 10
	}
	return string(buf[i:])
}

// Itoa returns the base-10 representation of n. Negative numbers supported.
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa(uint(-n))
	}
	return Utoa(uint(n))
}
