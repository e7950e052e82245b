package theme

import "github.com/charmbracelet/lipgloss"

var (
	PanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	FocusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	HelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	BannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	ToastStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("27")).
			Border(lipgloss.NormalBorder(), true, true, true, true).
			BorderForeground(lipgloss.Color("39"))
	TabInactiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("236")).
				Border(lipgloss.NormalBorder(), true, true, true, true).
				BorderForeground(lipgloss.Color("240"))
	TabHoverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236")).
			Border(lipgloss.NormalBorder(), true, true, true, true).
			BorderForeground(lipgloss.Color("15"))
	ModalBackdrop = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	DisabledButtonBorder = lipgloss.Border{
		Top:         "╌",
		Bottom:      "╌",
		Left:        "┊",
		Right:       "┊",
		TopLeft:     "┌",
		TopRight:    "┐",
		BottomLeft:  "└",
		BottomRight: "┘",
	}
	DisabledBorderColor = lipgloss.Color("240")
	DisabledTextColor   = lipgloss.Color("240")

	ButtonStyle                = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	ButtonFocusedStyle         = ButtonStyle.BorderForeground(lipgloss.Color("10")).Foreground(lipgloss.Color("10"))
	ButtonHoverStyle           = ButtonStyle.BorderForeground(lipgloss.Color("15")).Foreground(lipgloss.Color("15"))
	ButtonDisabledBaseStyle    = ButtonStyle.Border(DisabledButtonBorder).BorderForeground(DisabledBorderColor)
	ButtonDisabledStyle        = ButtonDisabledBaseStyle.Foreground(DisabledTextColor)
	ButtonDisabledFocusedStyle = ButtonStyle.BorderForeground(lipgloss.Color("255")).Foreground(lipgloss.Color("250"))
	SegmentBaseStyle           = lipgloss.NewStyle().Padding(0, 1)
	SegmentOnStyle             = SegmentBaseStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	SegmentOffStyle            = SegmentBaseStyle.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236"))
)

// PulseColors cycle the tracking indicator while a fix is being waited on.
var PulseColors = []lipgloss.Color{"10", "34", "28", "34"}

func PulseColor(phase int) lipgloss.Color {
	if phase < 0 {
		phase = -phase
	}
	return PulseColors[(phase/3)%len(PulseColors)]
}
