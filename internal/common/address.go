package common

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = errors.New("invalid address")

func IsSameHexAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

func ChecksumAddress(addr string) string {
	return common.HexToAddress(addr).Hex()
}

// ParseAddress only accepts well formed hex addresses, unlike
// common.HexToAddress which silently maps garbage to the zero address.
func ParseAddress(addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, ErrInvalidAddress
	}

	return common.HexToAddress(addr), nil
}
