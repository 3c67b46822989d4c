package localnet

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the localnet command with all subcommands.
//
// Usage:
//
//	rootCmd.AddCommand(localnet.NewCommand(localnet.Config{
//	    Logger: lggr,
//	}))
func NewCommand(cfg Config) *cobra.Command {
	cfg.deps()

	cmd := &cobra.Command{
		Use:   "localnet",
		Short: "Local interchain token network commands",
	}

	cmd.AddCommand(
		newNetworksCmd(cfg),
		newDemoCmd(cfg),
	)

	cmd.PersistentFlags().
		StringP("config", "c", "", "Path to the localnet config file (defaults and environment when empty)")

	return cmd
}
