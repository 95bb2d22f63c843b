package popup

import (
	"strings"

	"ccluster/cmd/ccluster/ui"
	"ccluster/internal/predictor"
)

const (
	title          = "Credit Card Cluster Predictor"
	minResultWidth = 20
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(title))
	sb.WriteString("\n")

	for i, input := range m.inputs {
		label := m.styles.Label.Render(fieldLabels[i])
		if i == m.focus {
			label = m.styles.FocusedLabel.Render(fieldLabels[i])
		}
		sb.WriteString(label)
		sb.WriteString(input.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.renderButton())
	sb.WriteString("\n")

	if m.outcome != nil {
		sb.WriteString("\n")
		sb.WriteString(RenderOutcome(m.styles, *m.outcome, m.resultWidth()))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Footer.Render("tab/↑/↓ move • enter predict • esc quit"))
	if m.endpoint != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(m.endpoint))
	}

	return m.styles.App.Render(sb.String())
}

func (m Model) renderButton() string {
	if m.busy {
		return m.styles.ButtonBusy.Render("Predicting") + " " + m.spinner.View()
	}
	label := "Predict Cluster"
	if m.focus == focusButton {
		label = "▸ " + label
	}
	return m.styles.Button.Render(label)
}

// resultWidth is the outer width available to the result box, 0 before the
// first WindowSizeMsg.
func (m Model) resultWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := m.width - m.styles.App.GetHorizontalFrameSize()
	if w < minResultWidth {
		w = minResultWidth
	}
	return w
}

// RenderOutcome draws an outcome with its success or error style. A positive
// width wraps the message so the whole box, border included, fits in width
// columns.
func RenderOutcome(styles ui.Styles, out predictor.Outcome, width int) string {
	style := styles.Error
	if out.IsSuccess() {
		style = styles.Success
	}
	if width > 0 {
		style = style.Width(width - style.GetHorizontalBorderSize())
	}
	return style.Render(out.Message)
}
