// Command its-localnet starts a local multi-chain interchain token network.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/its-localnet/pkg/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:          "its-localnet",
		Short:        "Local interchain token service networks",
		SilenceUsage: true,
	}
	root.AddCommand(commands.New(nil).Localnet())

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
