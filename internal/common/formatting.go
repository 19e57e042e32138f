package common

import "fmt"

// ShortenAddress keeps the 0x prefix, the first and the last length
// characters of a hex string.
func ShortenAddress(s string, length int) string {
	if len(s) <= 2+length*2 {
		return s
	}

	return fmt.Sprintf("%s...%s", s[:2+length], s[len(s)-length:])
}
