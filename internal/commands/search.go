package commands

import (
	"strings"

	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/utils"
	"github.com/spf13/cobra"
)

// NewSearchCmd opens the dashboard with a search applied. Without a
// terminal the matches are printed instead.
func NewSearchCmd(getConfig func() *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search notes",
		Long:  `Opens the notes dashboard and searches titles, content and tags. When output is not a terminal, or --json is given, matching notes are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			query := strings.TrimSpace(strings.Join(args, " "))

			if utils.IsInteractive() && !asJSON {
				return runTUI(cfg, query)
			}
			if query == "" {
				return cmd.Usage()
			}

			svc, sess, err := openAuthenticated(cfg)
			if err != nil {
				return err
			}

			notes, err := fetchWithSpinner("Searching...", func() ([]services.Note, error) {
				return svc.SearchNotes(contextOrBackground(cmd), query)
			})
			if err != nil {
				return sessionError(sess, err)
			}
			return printNotes(cmd.OutOrStdout(), notes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print matches as JSON instead of opening the dashboard")

	return cmd
}
