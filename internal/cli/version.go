package cli

import (
	"fmt"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of agreementctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agreementctl version %s\n", agreement.Version)
		},
	}
}
