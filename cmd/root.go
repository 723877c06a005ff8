package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/redjax/notedash/internal/commands"
	"github.com/redjax/notedash/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           `nd`,
	Short:         `Notedash is a terminal client for a remote notes service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Println("DEBUG logging enabled")
		}

		loaded, err := config.Load(cmd.Flags(), cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	// With no subcommand, open the notes dashboard.
	RunE: func(cmd *cobra.Command, args []string) error {
		return commands.NewNotesCmd(getConfig).RunE(cmd, args)
	},
}

func getConfig() *config.Config {
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config-file", "c", "", "config file (supports .yml, .json, .toml, .env)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("api-url", "", "Note Service base URL")

	rootCmd.AddCommand(commands.NewNotesCmd(getConfig))
	rootCmd.AddCommand(commands.NewSearchCmd(getConfig))
	rootCmd.AddCommand(commands.NewLoginCmd(getConfig))
	rootCmd.AddCommand(commands.NewSignupCmd(getConfig))
	rootCmd.AddCommand(commands.NewLogoutCmd(getConfig))
	rootCmd.AddCommand(commands.NewVerifyCmd(getConfig))
	rootCmd.AddCommand(commands.NewExportCmd(getConfig))
	rootCmd.AddCommand(commands.NewImportCmd(getConfig))
	rootCmd.AddCommand(commands.NewServeCmd(getConfig))
	rootCmd.AddCommand(commands.NewSelfCmd(getConfig))
}
