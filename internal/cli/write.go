package cli

import (
	"strings"

	"github.com/agreementchain/agreements/pkg/agreement"
	"github.com/spf13/cobra"
)

func NewCreateCmd(flags *globalFlags) *cobra.Command {
	var req agreement.CreateRequest
	var stakeholders string
	var conditions []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agreement through the factory",
		Long: `Create an agreement through the factory.

Examples:
  agreementctl create --title Lease --description "Office lease" \
    --stakeholders 0x12...,0x34... --country BE --amount 1000 \
    --condition "Term=12 months"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			req.Stakeholders = agreement.ParseStakeholders(stakeholders)
			for _, c := range conditions {
				k, v, _ := strings.Cut(c, "=")
				req.ConditionKeys = append(req.ConditionKeys, strings.TrimSpace(k))
				req.ConditionValues = append(req.ConditionValues, strings.TrimSpace(v))
			}

			return result(cmd, flags, a.Actions.CreateAgreement(cmd.Context(), &req))
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "agreement title")
	cmd.Flags().StringVar(&req.Description, "description", "", "agreement description")
	cmd.Flags().StringVar(&stakeholders, "stakeholders", "", "stakeholder addresses, separated by commas or spaces")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "contract worth")
	cmd.Flags().StringVar(&req.Country, "country", "", "governing country")
	cmd.Flags().StringArrayVar(&conditions, "condition", nil, "extra condition as key=value, repeatable")

	return cmd
}

func NewStakeholderCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stakeholder",
		Short: "Propose adding or removing a stakeholder",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <contract> <address>",
		Short: "Propose a new stakeholder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.AddStakeholder(cmd.Context(), addr, args[1]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <contract> <address>",
		Short: "Propose removing a stakeholder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.RemoveStakeholder(cmd.Context(), addr, args[1]))
		},
	})

	return cmd
}

func NewConditionCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "condition",
		Short: "Propose, remove or vote on conditions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <contract> <key> <value>",
		Short: "Propose a new condition",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.AddCondition(cmd.Context(), addr, args[1], args[2]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <contract> <key>",
		Short: "Propose removing an active condition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.RemoveCondition(cmd.Context(), addr, args[1]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "vote <contract> <conditionId> approve|reject",
		Short: "Vote on a pending condition",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			approved, err := parseVote(args[2])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.VoteOnCondition(cmd.Context(), addr, args[1], approved))
		},
	})

	return cmd
}

func NewVoteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <contract> <actionId> approve|reject",
		Short: "Vote on a pending request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			approved, err := parseVote(args[2])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.VoteOnAction(cmd.Context(), addr, args[1], approved))
		},
	}
}

func NewStateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "state <contract> pause|resume|cancel",
		Short:     "Propose pausing, resuming or cancelling an agreement",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"pause", "resume", "cancel"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			t, err := agreement.ParseStateAction(args[1])
			if err != nil {
				return err
			}

			return result(cmd, flags, a.Actions.ChangeState(cmd.Context(), addr, t))
		},
	}
}
