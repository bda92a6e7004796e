package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/zenx/internal/credential"
	"github.com/longkey1/zenx/internal/zenx"
)

// settings is the overlay for viewing, editing and clearing the API key.
type settings struct {
	open   bool
	reveal bool
	input  textinput.Model
}

func newSettings() settings {
	in := textinput.New()
	in.Placeholder = "Enter your OpenRouter API key"
	in.Prompt = ""
	in.CharLimit = 512
	in.Width = 60
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return settings{input: in}
}

// show opens the overlay with the stored key loaded and masked.
func (s *settings) show(store credential.Getter) tea.Cmd {
	s.open = true
	s.reveal = false
	s.input.EchoMode = textinput.EchoPassword
	v, _ := store.Get()
	s.input.SetValue(v)
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s settings) update(msg tea.KeyMsg, store credential.Store, n zenx.Notifier) (settings, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.close()
		return s, nil

	case "ctrl+r":
		s.reveal = !s.reveal
		if s.reveal {
			s.input.EchoMode = textinput.EchoNormal
		} else {
			s.input.EchoMode = textinput.EchoPassword
		}
		return s, nil

	case "enter":
		if err := credential.Save(store, n, s.input.Value()); err == nil {
			s.close()
		}
		return s, nil

	case "ctrl+d":
		if err := credential.Remove(store, n); err == nil {
			s.input.SetValue("")
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *settings) close() {
	s.open = false
	s.reveal = false
	s.input.EchoMode = textinput.EchoPassword
	s.input.Blur()
	s.input.SetValue("")
}

func (s settings) view(width int) string {
	toggle := "ctrl+r show"
	if s.reveal {
		toggle = "ctrl+r hide"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString("OpenRouter API Key\n")
	b.WriteString(inputBoxStyle.Render(s.input.View()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Your API key is stored locally and only sent to OpenRouter."))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("enter save • ctrl+d clear • " + toggle + " • esc close"))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Get your API key from https://openrouter.ai"))

	box := settingsBoxStyle.Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
