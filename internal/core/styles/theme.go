package styles

import (
	"sort"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Info       lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    "#7aa2f7",
		Secondary:  "#7dcfff",
		Foreground: "#c0caf5",
		Muted:      "#565f89",
		Background: "#1a1b26",
		Surface:    "#3b4261",
		Success:    "#9ece6a",
		Info:       "#7dcfff",
		Warning:    "#e0af68",
		Error:      "#f7768e",
	},
	"gruvbox": {
		Primary:    "#83a598",
		Secondary:  "#8ec07c",
		Foreground: "#ebdbb2",
		Muted:      "#665c54",
		Background: "#282828",
		Surface:    "#3c3836",
		Success:    "#b8bb26",
		Info:       "#83a598",
		Warning:    "#fabd2f",
		Error:      "#fb4934",
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

func hexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	p := CurrentPalette

	fg := hexPtr(p.Foreground)
	primary := hexPtr(p.Primary)
	secondary := hexPtr(p.Secondary)
	muted := hexPtr(p.Muted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = hexPtr(p.Surface)
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary
	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
