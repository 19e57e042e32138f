package render

import (
	"fmt"
	"math/big"
)

func votes(approvals, rejections *big.Int) string {
	return fmt.Sprintf("%s/%s", count(approvals), count(rejections))
}

func count(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

// FormatError formats a command error with the error icon
func FormatError(err error) string {
	return failureStyle.Sprintf("❌ %s", err.Error())
}
