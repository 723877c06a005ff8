package commands

import (
	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/version"
	"github.com/spf13/cobra"
)

func NewSelfCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Information about this nd build",
	}

	cmd.AddCommand(version.NewVersionCommand())
	cmd.AddCommand(version.NewInfoCommand())

	return cmd
}
