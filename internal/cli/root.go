package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/agreementchain/agreements/internal/app"
	"github.com/agreementchain/agreements/internal/config"
	"github.com/agreementchain/agreements/internal/services/ethrequest"
	"github.com/spf13/cobra"
)

// Initializer builds the app for a command.
type Initializer func(ctx context.Context, envpath string) (*app.App, error)

// InitApp connects to the node named by the config.
func InitApp(ctx context.Context, envpath string) (*app.App, error) {
	conf, err := config.New(ctx, envpath)
	if err != nil {
		return nil, err
	}

	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, conf, evm, app.Options{})
	if err != nil {
		evm.Close()
		return nil, err
	}

	return a, nil
}

type globalFlags struct {
	env     string
	json    bool
	noColor bool
	timeout time.Duration
}

// NewRootCmd creates the root command. initApp is called once before every
// command except version and help.
func NewRootCmd(initApp Initializer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "agreementctl",
		Short:         "Manage on-chain agreements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := initApp(ctx, flags.env)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx = app.WithContext(ctx, a)
			if flags.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, flags.timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, err := app.FromContext(cmd.Context()); err == nil {
				a.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.env, "env", "", "path to .env file")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", time.Minute, "timeout of one command")

	rootCmd.AddGroup(&cobra.Group{ID: "read", Title: "Read Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "write", Title: "Write Commands"})

	for _, c := range []*cobra.Command{
		NewDashboardCmd(flags),
		NewShowCmd(flags),
		NewRequestsCmd(flags),
		NewConditionsCmd(flags),
	} {
		c.GroupID = "read"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewCreateCmd(flags),
		NewStakeholderCmd(flags),
		NewConditionCmd(flags),
		NewVoteCmd(flags),
		NewStateCmd(flags),
	} {
		c.GroupID = "write"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func getApp(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}
