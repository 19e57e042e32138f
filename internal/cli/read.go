package cli

import (
	"github.com/agreementchain/agreements/internal/cli/render"
	"github.com/agreementchain/agreements/pkg/views"
	"github.com/spf13/cobra"
)

func NewDashboardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard <wallet>",
		Short: "List the agreements of a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			wallet, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			v, err := a.Views.Dashboard(cmd.Context(), wallet)
			if err != nil {
				return err
			}

			return output(cmd, flags, v, func(r *render.Renderer) { r.Dashboard(v) })
		},
	}
}

func NewShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <contract>",
		Short: "Show an agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			v, err := a.Views.Contract(cmd.Context(), addr)
			if err != nil {
				return err
			}

			return output(cmd, flags, v, func(r *render.Renderer) { r.Contract(v) })
		},
	}
}

func NewRequestsCmd(flags *globalFlags) *cobra.Command {
	var account, sort, tx string

	cmd := &cobra.Command{
		Use:   "requests <contract> [actionId]",
		Short: "List pending requests, or the voters of one",
		Long: `List the pending stakeholder and state change requests of an agreement.
With an action id, show who voted on it and who proposed it.

Examples:
  agreementctl requests 0xc0... --sort desc
  agreementctl requests 0xc0... 0xa1... --account 0x12...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			if account != "" {
				acc, err := parseAddress(account)
				if err != nil {
					return err
				}
				account = acc.Hex()
			}

			if len(args) == 2 {
				v, err := a.Views.RequestDetails(cmd.Context(), addr, args[1], tx, account)
				if err != nil {
					return err
				}

				return output(cmd, flags, v, func(r *render.Renderer) {
					r.Voters(v.Approvers, v.Rejectors, v.Origin, v.Loading)
				})
			}

			s, err := views.ParseSort(sort)
			if err != nil {
				return err
			}

			v, err := a.Views.PendingRequests(cmd.Context(), addr, account, s)
			if err != nil {
				return err
			}

			return output(cmd, flags, v, func(r *render.Renderer) { r.Requests(v) })
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account whose votes are shown")
	cmd.Flags().StringVar(&sort, "sort", "asc", "sort by action type, asc or desc")
	cmd.Flags().StringVar(&tx, "tx", "", "transaction that created the request")

	return cmd
}

func NewConditionsCmd(flags *globalFlags) *cobra.Command {
	var account, tx string

	cmd := &cobra.Command{
		Use:   "conditions <contract> [key]",
		Short: "List pending conditions, or the voters of one",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				v, err := a.Views.ConditionVoters(cmd.Context(), addr, args[1], tx)
				if err != nil {
					return err
				}

				return output(cmd, flags, v, func(r *render.Renderer) {
					r.Voters(v.Approvers, v.Rejectors, v.Origin, v.Loading)
				})
			}

			if account != "" {
				acc, err := parseAddress(account)
				if err != nil {
					return err
				}
				account = acc.Hex()
			}

			v, err := a.Views.PendingConditions(cmd.Context(), addr, account)
			if err != nil {
				return err
			}

			return output(cmd, flags, v, func(r *render.Renderer) { r.Conditions(v) })
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account whose votes are shown")
	cmd.Flags().StringVar(&tx, "tx", "", "transaction that added the condition")

	return cmd
}
