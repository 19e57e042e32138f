package common

import (
	"testing"
)

func TestShortenAddress(t *testing.T) {
	inputs := []string{
		"0x1234",
		"0x480Fbe37526226b6c6E2a7AfA449cDf661939D2f",
		"0xc17227d7ab78ae1711f3297179a14eb05ec504b515a0b176bdf18d21c7bf5512",
	}

	expected := []string{
		"0x1234",
		"0x480F...9D2f",
		"0xc172...5512",
	}

	length := 4

	for i, input := range inputs {
		output := ShortenAddress(input, length)
		if output != expected[i] {
			t.Errorf("ShortenAddress(%q, %d) = %q, want %q", input, length, output, expected[i])
		}
	}
}
