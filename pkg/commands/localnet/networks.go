package localnet

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/its-localnet/its/simulated"
)

type networkView struct {
	Name          string `yaml:"name"`
	ChainSelector uint64 `yaml:"chainSelector"`
	Family        string `yaml:"family"`
	Owner         string `yaml:"owner"`
	TokenFactory  string `yaml:"tokenFactory"`
	TokenService  string `yaml:"tokenService"`
	Gateway       string `yaml:"gateway"`
}

func newNetworksCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "Start the localnet and print its networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			l, err := cfg.start(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer l.Close()

			views := make([]networkView, 0, len(l.Networks()))
			for _, n := range l.Networks() {
				suite, err := l.Suite(n.Name())
				if err != nil {
					return err
				}

				views = append(views, networkView{
					Name:          n.Name(),
					ChainSelector: n.ChainSelector(),
					Family:        n.Family(),
					Owner:         n.Owner().From.Hex(),
					TokenFactory:  suite.Factory().Address().Hex(),
					TokenService:  suite.Service().Address().Hex(),
					Gateway:       simulated.GatewayAddress.Hex(),
				})
			}

			return writeYAML(cmd, map[string]any{"networks": views})
		},
	}
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
