package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redjax/notedash/internal/archive"
	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/services"
	"github.com/spf13/cobra"
)

// NewExportCmd downloads every note into a zip of Markdown files.
func NewExportCmd(getConfig func() *config.Config) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your notes to a ZIP archive",
		Long: `Download all of your notes and write them to a ZIP archive, one Markdown file per note
with title, tags, pinned/favorite flags and creation date in YAML front matter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openAuthenticated(getConfig())
			if err != nil {
				return err
			}

			notes, err := fetchWithSpinner("Downloading notes...", func() ([]services.Note, error) {
				return svc.GetAllNotes(contextOrBackground(cmd))
			})
			if err != nil {
				return sessionError(sess, err)
			}

			path, err := exportPath(outputPath)
			if err != nil {
				return err
			}

			n, err := writeExport(path, notes)
			if err != nil {
				return fmt.Errorf("error exporting notes: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Successfully exported %d note(s) to: %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the ZIP file")

	return cmd
}

func exportPath(outputPath string) (string, error) {
	if outputPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		timestamp := time.Now().Format("2006-01-02")
		return filepath.Join(homeDir, fmt.Sprintf("%s-notedash-notes.zip", timestamp)), nil
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".zip") {
		outputPath += ".zip"
	}
	return outputPath, nil
}

func writeExport(path string, notes []services.Note) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create ZIP file: %w", err)
	}

	n, err := archive.Write(f, notes)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return n, nil
}
