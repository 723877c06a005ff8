package tui

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notedash/internal/controller"
)

const (
	maxToasts     = 3
	toastLifetime = 4 * time.Second
)

var toastStyles = map[controller.Variant]lipgloss.Style{
	controller.VariantSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	controller.VariantError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	controller.VariantInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
}

type toast struct {
	variant controller.Variant
	message string
	expires time.Time
}

// Toasts is a bounded notification stack. Only the newest maxToasts are
// kept. Notify may be called from any goroutine.
type Toasts struct {
	mu    sync.Mutex
	items []toast
	now   func() time.Time
}

func NewToasts() *Toasts {
	return &Toasts{now: time.Now}
}

func (t *Toasts) Notify(variant controller.Variant, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.items = append(t.items, toast{
		variant: variant,
		message: message,
		expires: t.now().Add(toastLifetime),
	})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
}

// Prune drops expired toasts and reports whether any remain.
func (t *Toasts) Prune() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.items[:0]
	for _, item := range t.items {
		if now.Before(item.expires) {
			kept = append(kept, item)
		}
	}
	t.items = kept
	return len(t.items) > 0
}

func (t *Toasts) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

func (t *Toasts) View() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := make([]string, 0, len(t.items))
	for _, item := range t.items {
		icon := "•"
		switch item.variant {
		case controller.VariantSuccess:
			icon = "✓"
		case controller.VariantError:
			icon = "✗"
		}
		lines = append(lines, toastStyles[item.variant].Render(icon+" "+item.message))
	}
	return strings.Join(lines, "\n")
}

type toastTickMsg struct{}

func toastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}

// redirectFlag implements controller.Navigator for the TUI. The home view
// checks it after every completed operation.
type redirectFlag struct {
	requested atomic.Bool
}

func (r *redirectFlag) RedirectToLogin() {
	r.requested.Store(true)
}

// Take reports whether a redirect was requested and resets the flag.
func (r *redirectFlag) Take() bool {
	return r.requested.Swap(false)
}
