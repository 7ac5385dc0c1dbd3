package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/tada/internal/core/route"
	"github.com/colonyops/tada/internal/core/styles"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.BreadcrumbStyle.Render(styles.IconCheckList + " tada " + m.path))
	b.WriteString("\n\n")

	switch m.match.Route.Name {
	case route.Home:
		b.WriteString(m.viewHome())
	case route.Todos:
		b.WriteString(m.viewTodos())
	case route.TodoCreate:
		b.WriteString(m.viewCreate())
	case route.Todo:
		b.WriteString(m.viewTodo())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorTextStyle.Render("error: " + m.err.Error()))
	}

	if m.create == nil {
		b.WriteString("\n\n")
		if m.showHelp {
			b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
		} else {
			b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
		}
	}

	return m.toasts.Compose(b.String(), m.width, m.height)
}

func (m Model) viewHome() string {
	lines := []string{styles.TitleStyle.Render("Home")}
	for i, item := range homeMenu {
		lines = append(lines, cursorLine(i == m.homeCursor, item.label))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewTodos() string {
	lines := []string{styles.TitleStyle.Render("Todos")}
	if len(m.todos) == 0 {
		lines = append(lines, styles.MutedStyle.Render("Nothing to do. Press n to add one."))
		return strings.Join(lines, "\n")
	}

	for i, t := range m.todos {
		icon := styles.IconTodoOpen
		subject := trimTitle(t.Subject, 60)
		if t.Completed {
			icon = styles.IconTodoDone
			subject = styles.DoneStyle.Render(subject)
		}
		lines = append(lines, cursorLine(i == m.todoCursor, icon+" "+subject))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewCreate() string {
	if m.create == nil {
		return ""
	}
	return styles.TitleStyle.Render("New todo") + "\n" + m.create.form.View()
}

func (m Model) viewTodo() string {
	if m.detail.ID == 0 {
		return styles.MutedStyle.Render("Loading…")
	}

	status := "open"
	if m.detail.Completed {
		status = "done"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TitleStyle.Render(m.detail.Subject),
		styles.MutedStyle.Render(fmt.Sprintf("  #%d · %s", m.detail.ID, status)),
	)
	return header + "\n" + m.viewport.View()
}

func cursorLine(selected bool, text string) string {
	if selected {
		return styles.ViewSelectedStyle.Render("> " + text)
	}
	return styles.ViewNormalStyle.Render("  " + text)
}

// renderMarkdown renders body with the active theme. On failure the raw text
// is shown.
func (m Model) renderMarkdown(body string) string {
	if strings.TrimSpace(body) == "" {
		return styles.MutedStyle.Render("No notes.")
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	out, err := RenderMarkdown(body, width)
	if err != nil {
		m.log.Debug().Err(err).Msg("markdown render failed")
		return body
	}
	return out
}

// RenderMarkdown renders markdown for the terminal using the active theme.
func RenderMarkdown(body string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(body)
}
