package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print nd's version",
		Long:  "Display the release version, git commit and build date of this nd binary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Current())
			return err
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	return cmd
}

func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show build and repository details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Current().WriteDetails(cmd.OutOrStdout())
		},
	}
}
