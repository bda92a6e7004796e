package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/zenx/internal/zenx"
)

var (
	colorText    = lipgloss.AdaptiveColor{Light: "#1F1F22", Dark: "#ECECEC"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#8A8A8F", Dark: "#7A7A80"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D0D0D4", Dark: "#333333"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

	titleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorBorder).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorError)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	settingsBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Padding(1, 2)

	toastBaseStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func toastStyle(kind zenx.NotificationKind) lipgloss.Style {
	switch kind {
	case zenx.NotifyError:
		return toastBaseStyle.BorderForeground(colorError)
	case zenx.NotifySuccess:
		return toastBaseStyle.BorderForeground(colorSuccess)
	default:
		return toastBaseStyle.BorderForeground(colorAccent)
	}
}
