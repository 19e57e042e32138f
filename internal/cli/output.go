package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agreementchain/agreements/internal/cli/render"
	com "github.com/agreementchain/agreements/internal/common"
	"github.com/agreementchain/agreements/pkg/actions"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// output prints v as JSON with --json, otherwise hands a renderer to fn.
func output(cmd *cobra.Command, flags *globalFlags, v any, fn func(r *render.Renderer)) error {
	if flags.json {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}

	fn(render.New(cmd.OutOrStdout(), !flags.noColor))
	return nil
}

// result prints a write result. A failed write fails the command.
func result(cmd *cobra.Command, flags *globalFlags, res *actions.Result) error {
	err := output(cmd, flags, res, func(r *render.Renderer) {
		r.Result(res)
	})
	if err != nil {
		return err
	}

	if !res.OK() {
		return fmt.Errorf("%s failed: %s", cmd.Name(), res.Notification.Message)
	}

	return nil
}

func parseAddress(s string) (common.Address, error) {
	addr, err := com.ParseAddress(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %s", err, s)
	}

	return addr, nil
}

// parseVote accepts approve or reject.
func parseVote(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "approve", "yes", "y":
		return true, nil
	case "reject", "no", "n":
		return false, nil
	}

	return false, fmt.Errorf("invalid vote %q, use approve or reject", s)
}
