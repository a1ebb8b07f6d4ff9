package render

import "github.com/charmbracelet/lipgloss"

var (
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#a6adc8"
	colorBorder  lipgloss.Color = "#585b70"
	colorAccent  lipgloss.Color = "#89b4fa"
	colorLike    lipgloss.Color = "#a6e3a1"
	colorNope    lipgloss.Color = "#f38ba8"
	colorSuper   lipgloss.Color = "#89dceb"
	colorSurface lipgloss.Color = "#313244"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(colorMuted)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
	cardDraggingStyle = cardStyle.
				BorderForeground(colorAccent)

	nameStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	groupStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	urlStyle   = lipgloss.NewStyle().Foreground(colorMuted).Underline(true)

	likeStyle = lipgloss.NewStyle().
			Foreground(colorLike).
			Bold(true).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorLike).
			Padding(0, 1)
	nopeStyle = likeStyle.
			Foreground(colorNope).
			BorderForeground(colorNope)
	superStyle = likeStyle.
			Foreground(colorSuper).
			BorderForeground(colorSuper)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorNope)
	statusStyle   = lipgloss.NewStyle().Foreground(colorLike).Background(colorSurface).Padding(0, 1)
)
