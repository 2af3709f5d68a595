package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// configCommand prints the effective options as TOML, ready to be edited and
// passed back with --config.
func (c *CLI) configCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective options as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return opts.WriteTOML(os.Stdout)
		},
	}

	flags.register(cmd)
	return cmd
}
