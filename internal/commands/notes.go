package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/utils"
	"github.com/spf13/cobra"
)

// NewNotesCmd opens the notes dashboard. `notes ls` prints instead.
func NewNotesCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Browse and manage notes",
		Long:  `Open the notes dashboard to view, search, create, edit, favorite and delete your notes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(getConfig(), "")
		},
	}

	cmd.AddCommand(newNotesListCmd(getConfig))

	return cmd
}

func newNotesListCmd(getConfig func() *config.Config) *cobra.Command {
	var asJSON, favoritesOnly bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print your notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openAuthenticated(getConfig())
			if err != nil {
				return err
			}

			notes, err := fetchWithSpinner("Fetching notes...", func() ([]services.Note, error) {
				return svc.GetAllNotes(contextOrBackground(cmd))
			})
			if err != nil {
				return sessionError(sess, err)
			}

			if favoritesOnly {
				notes = favorites(notes)
			}
			return printNotes(cmd.OutOrStdout(), notes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print notes as JSON")
	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only show favorite notes")

	return cmd
}

func fetchWithSpinner(message string, fetch func() ([]services.Note, error)) ([]services.Note, error) {
	spin := utils.NewSpinnerService(os.Stderr)
	spin.Start(message)

	notes, err := fetch()
	if err != nil {
		spin.Error("Request failed")
		return nil, err
	}
	spin.Stop()
	return notes, nil
}

func favorites(notes []services.Note) []services.Note {
	out := make([]services.Note, 0, len(notes))
	for _, n := range notes {
		if n.IsFavorite {
			out = append(out, n)
		}
	}
	return out
}

func printNotes(out io.Writer, notes []services.Note, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(notes)
	}

	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes found.")
		return nil
	}

	fmt.Fprintln(out, renderNotesTable(notes, utils.DetectTerminalWidth(100)))
	return nil
}

// renderNotesTable lays notes out as flags, title, tags and age columns.
func renderNotesTable(notes []services.Note, width int) string {
	const tagsWidth, ageWidth, flagsWidth = 24, 16, 4
	titleWidth := utils.MaxColumnLen(width, tagsWidth+ageWidth+flagsWidth+10)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers("", "TITLE", "TAGS", "CREATED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, n := range notes {
		flags := ""
		if n.IsPinned {
			flags += "📌"
		}
		if n.IsFavorite {
			flags += "♥"
		}

		age := ""
		if !n.CreatedOn.IsZero() {
			age = humanize.Time(n.CreatedOn)
		}

		t.Row(
			flags,
			clip(n.Title, titleWidth),
			clip(strings.Join(n.Tags, ", "), tagsWidth),
			age,
		)
	}

	return t.Render()
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
