package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/zenx/internal/zenx"
	"github.com/mattn/go-runewidth"
)

// View implements tea.Model
func (m Model) View() string {
	var sections []string

	sections = append(sections, headerStyle.Width(m.width).Render(titleStyle.Render("ZenxAI")))

	if m.settings.open {
		sections = append(sections, m.settings.view(m.width))
	} else {
		sections = append(sections, m.viewport.View())
		sections = append(sections, m.statusLine())
		sections = append(sections, inputBoxStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
		sections = append(sections, mutedStyle.Render(m.helpLine()))
	}

	if len(m.toasts) > 0 {
		sections = append(sections, m.toastView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) threadView() string {
	messages := m.session.Messages()
	if len(messages) == 0 {
		return m.welcomeView()
	}

	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case zenx.RoleUser:
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteString(mutedStyle.Render("  " + msg.Timestamp.Format("15:04")))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
		case zenx.RoleAssistant:
			b.WriteString(assistantLabelStyle.Render("ZenxAI"))
			b.WriteString(mutedStyle.Render("  " + msg.Timestamp.Format("15:04")))
			b.WriteString("\n")
			b.WriteString(m.renderAssistant(msg))
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderAssistant(msg zenx.Message) string {
	if m.renderer == nil {
		return msg.Content
	}
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	out, err := m.renderer.Render(msg.Content)
	if err != nil {
		m.logger.Debug().Err(err).Msg("markdown render failed")
		return msg.Content
	}
	out = strings.Trim(out, "\n")
	m.rendered[msg.ID] = out
	return out
}

func (m Model) welcomeView() string {
	lines := []string{
		titleStyle.Render("ZenxAI"),
		"",
		mutedStyle.Render("How can I help you today?"),
	}
	if !m.session.CredentialPresent() {
		lines = append(lines, "", warningStyle.Render("Please add your OpenRouter API key in settings (ctrl+s) to start chatting."))
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, block)
}

func (m Model) statusLine() string {
	if m.busy() {
		return m.spinner.View() + mutedStyle.Render(" Thinking...")
	}
	return ""
}

func (m Model) helpLine() string {
	send := "enter send"
	if !m.canSend() {
		send = "(send disabled)"
	}
	return send + " • ctrl+n new chat • ctrl+s settings • pgup/pgdown scroll • ctrl+c quit"
}

func (m Model) toastView() string {
	width := max(m.width/2, 40)
	var rendered []string
	for _, t := range m.toasts {
		limit := max(width-runewidth.StringWidth(t.note.Title)-1, 10)
		desc := runewidth.Truncate(t.note.Description, limit, "…")
		text := titleStyle.Render(t.note.Title) + " " + desc
		rendered = append(rendered, toastStyle(t.note.Kind).Render(text))
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, rendered...))
}
