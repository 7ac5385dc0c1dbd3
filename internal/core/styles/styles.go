// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/tada/internal/core/toast"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports. Rebuilt by SetTheme.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	DoneStyle          lipgloss.Style
	MutedStyle         lipgloss.Style

	// TUI shared styles.
	TitleStyle        lipgloss.Style
	BreadcrumbStyle   lipgloss.Style
	ViewSelectedStyle lipgloss.Style
	ViewNormalStyle   lipgloss.Style
	ErrorTextStyle    lipgloss.Style

	toastBase   lipgloss.Style
	toastStyles map[toast.Kind]lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	DoneStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Strikethrough(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		MarginBottom(1)
	BreadcrumbStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)
	ViewSelectedStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	ViewNormalStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	ErrorTextStyle = lipgloss.NewStyle().
		Foreground(p.Error)

	toastBase = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(p.Foreground)
	toastStyles = map[toast.Kind]lipgloss.Style{
		toast.KindSuccess: toastBase.BorderForeground(p.Success),
		toast.KindInfo:    toastBase.BorderForeground(p.Info),
		toast.KindWarning: toastBase.BorderForeground(p.Warning),
		toast.KindError:   toastBase.BorderForeground(p.Error),
	}
}

// UseTheme activates a named theme. Unknown names leave the current theme.
func UseTheme(name string) bool {
	p, ok := GetPalette(name)
	if ok {
		SetTheme(p)
	}
	return ok
}

// ToastStyle returns the box style for a notification kind. Unknown kinds
// get a muted border.
func ToastStyle(kind toast.Kind) lipgloss.Style {
	if s, ok := toastStyles[kind]; ok {
		return s
	}
	return toastBase.BorderForeground(CurrentPalette.Muted)
}

// ToastIcon returns the glyph for a notification kind.
func ToastIcon(kind toast.Kind) string {
	switch kind {
	case toast.KindSuccess:
		return IconToastSuccess
	case toast.KindWarning:
		return IconToastWarning
	case toast.KindError:
		return IconToastError
	default:
		return IconToastInfo
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
