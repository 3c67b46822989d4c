// Package commands provides modular CLI command packages for the localnet CLI.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	commands := commands.New(lggr)
//	app.AddCommand(commands.Localnet())
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/smartcontractkit/its-localnet/pkg/commands/localnet"
//
//	app.AddCommand(localnet.NewCommand(localnet.Config{
//	    Logger: lggr,
//	    Deps:   &localnet.Deps{...},  // inject fakes for testing
//	}))
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/its-localnet/pkg/commands/localnet"
	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger. A nil logger makes every command
// build its logger from the log settings of the localnet configuration.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// Localnet creates the localnet command group.
//
// Usage:
//
//	cmds := commands.New(lggr)
//	rootCmd.AddCommand(cmds.Localnet())
func (c *Commands) Localnet() *cobra.Command {
	return localnet.NewCommand(localnet.Config{
		Logger: c.lggr,
	})
}
