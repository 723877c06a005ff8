package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/redjax/notedash/internal/archive"
	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/controller"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/utils"
	"github.com/spf13/cobra"
)

// noteCreator is the part of the Note Service an import needs.
type noteCreator interface {
	AddNote(ctx context.Context, draft services.NoteDraft) (*services.Note, error)
	UpdateNote(ctx context.Context, note services.Note) (*services.Note, error)
}

type importStats struct {
	imported int
	skipped  int
}

// NewImportCmd creates notes from an archive written by export.
func NewImportCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.zip>",
		Short: "Import notes from a ZIP archive",
		Long: `Create a note for every Markdown file in a ZIP archive created by the export command.
Existing notes are left alone, so importing the same archive twice creates duplicates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openAuthenticated(getConfig())
			if err != nil {
				return err
			}

			notes, err := readArchive(args[0])
			if err != nil {
				return err
			}

			spin := utils.NewSpinnerService(os.Stderr)
			spin.Start(fmt.Sprintf("Importing %d note(s)...", len(notes)))

			stats, err := importNotes(contextOrBackground(cmd), svc, notes, cmd.ErrOrStderr())
			if err != nil {
				spin.Error("Import stopped")
				return sessionError(sess, err)
			}
			spin.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d note(s), skipped %d\n", stats.imported, stats.skipped)
			return nil
		},
	}
}

func readArchive(path string) ([]services.Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat ZIP file: %w", err)
	}
	return archive.Read(f, info.Size())
}

// importNotes adds notes in archive order. Invalid notes are reported to
// warn and skipped; a service error stops the import.
func importNotes(ctx context.Context, svc noteCreator, notes []services.Note, warn io.Writer) (importStats, error) {
	var stats importStats

	for _, note := range notes {
		draft := services.DraftOf(note)
		if err := controller.ValidateDraft(draft); err != nil {
			fmt.Fprintf(warn, "skipping %q: %v\n", note.Title, err)
			stats.skipped++
			continue
		}

		created, err := svc.AddNote(ctx, draft)
		if err != nil {
			return stats, fmt.Errorf("failed to add %q: %w", note.Title, err)
		}
		stats.imported++

		if created == nil || (!note.IsPinned && !note.IsFavorite) {
			continue
		}
		flagged := *created
		flagged.IsPinned = note.IsPinned
		flagged.IsFavorite = note.IsFavorite
		if _, err := svc.UpdateNote(ctx, flagged); err != nil {
			log.Printf("failed to restore flags on %q: %v", note.Title, err)
		}
	}

	return stats, nil
}
