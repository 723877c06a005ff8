package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/redjax/notedash/internal/services"
)

const (
	cardWidth      = 38
	cardHeight     = 7
	previewLength  = 60
	noContentText  = "No content available"
	noTagsText     = "No tags"
	favoriteMark   = "♥"
	unfavoriteMark = "♡"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("170"))

	pendingCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("196"))

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	cardDateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250"))

	cardTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Italic(true)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// FormatCardDate renders t as "5th Mar 2024".
func FormatCardDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	return humanize.Ordinal(t.Day()) + " " + t.Format("Jan 2006")
}

// ContentPreview shortens content to the card's preview length.
func ContentPreview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return noContentText
	}
	r := []rune(content)
	if len(r) <= previewLength {
		return content
	}
	return string(r[:previewLength]) + "..."
}

// TagLine renders tags as "#a #b".
func TagLine(tags []string) string {
	if len(tags) == 0 {
		return noTagsText
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "#" + tag
	}
	return strings.Join(parts, " ")
}

// RenderNoteCard draws one note card of the given outer width.
func RenderNoteCard(note services.Note, width int, selected, pending bool) string {
	style := cardStyle
	switch {
	case pending:
		style = pendingCardStyle
	case selected:
		style = selectedCardStyle
	}

	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	heart := unfavoriteMark
	if note.IsFavorite {
		heart = favoriteStyle.Render(favoriteMark)
	}

	title := truncate(note.Title, inner-3)
	gap := inner - lipgloss.Width(title) - lipgloss.Width(heart)
	if gap < 1 {
		gap = 1
	}
	header := cardTitleStyle.Render(title) + strings.Repeat(" ", gap) + heart

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		cardDateStyle.Render(FormatCardDate(note.CreatedOn)),
		cardContentStyle.Width(inner).Render(ContentPreview(note.Content)),
		cardTagStyle.Render(truncate(TagLine(note.Tags), inner)),
	)

	return style.
		Width(inner + style.GetHorizontalPadding()).
		Height(cardHeight - style.GetVerticalBorderSize()).
		MaxHeight(cardHeight).
		Render(body)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
