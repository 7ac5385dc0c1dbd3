package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/tada/internal/core/styles"
	"github.com/colonyops/tada/internal/core/toast"
)

const toastWidth = 44

// ToastView renders the notifier's current toasts.
type ToastView struct {
	notifier toast.Notifier
}

func NewToastView(n toast.Notifier) *ToastView {
	return &ToastView{notifier: n}
}

// View renders the toast stack with the oldest at the top and the newest at
// the bottom.
func (v *ToastView) View() string {
	items := v.notifier.Snapshot()
	if len(items) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(items))
	for _, n := range items {
		rendered = append(rendered, renderToast(n))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(n toast.Notification) string {
	content := styles.ToastIcon(n.Kind) + " " + n.Message
	return styles.ToastStyle(n.Kind).Width(toastWidth).Render(content)
}

// Compose lays body out in a width x height frame and puts the toast stack
// in the lower-right corner. The body is cut short to make room.
func (v *ToastView) Compose(body string, width, height int) string {
	toasts := v.View()
	if toasts == "" || width <= 0 || height <= 0 {
		return body
	}

	toastH := lipgloss.Height(toasts)
	bodyH := max(height-toastH, 0)

	top := lipgloss.NewStyle().Height(bodyH).MaxHeight(bodyH).Render(body)
	bottom := lipgloss.PlaceHorizontal(width, lipgloss.Right, toasts)

	if bodyH == 0 {
		return bottom
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}
