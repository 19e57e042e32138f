package feedback

import (
	"errors"
	"regexp"
	"strings"

	"github.com/agreementchain/agreements/pkg/agreement"
)

const FallbackMessage = "Transaction failed."

var reasonPattern = regexp.MustCompile(`Error - (.+)`)

// Reason extracts the short, user facing part of a failed write. Contract
// reverts carry it after "Error - ", validation errors are used as is.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var verr *agreement.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	m := reasonPattern.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return FallbackMessage
	}

	reason := strings.TrimSpace(m[1])
	if reason == "" {
		return FallbackMessage
	}

	return reason
}
