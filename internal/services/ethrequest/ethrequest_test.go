package ethrequest

import (
	"testing"

	"github.com/agreementchain/agreements/pkg/agreement"
)

var _ agreement.EVMRequester = (*EthService)(nil)

func TestStrip0x(t *testing.T) {
	tests := map[string]string{
		"0x89": "89",
		"89":   "89",
		"0x":   "0x",
		"":     "",
	}

	for in, expected := range tests {
		if got := strip0x(in); got != expected {
			t.Errorf("strip0x(%q): expected %q, got %q", in, expected, got)
		}
	}
}
