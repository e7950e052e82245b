package view

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"gpslogger/internal/ui/headless/keyboard"
)

const (
	TabLog = iota
	TabEvents
	TabSettings
	tabCount
)

const (
	consumerKeyInput = iota
	consumerSecretInput
	accessKeyInput
	accessSecretInput
	inputCount
)

const (
	defaultInputCharLimit = 256
	defaultInputWidth     = 60
	defaultLogViewWidth   = 80
	defaultLogViewHeight  = 20
	defaultSettingsHeight = 12
	maxAnimPhaseValue     = 1_000_000_000
	maxToasts             = 3
)

// Draft mirrors the settings form. It is compared against the last saved
// copy to decide whether Save and Cancel are enabled.
type Draft struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
	DebugMode      bool
}

type Toast struct {
	Title string
	Body  string
	Until time.Time
}

type State struct {
	Inputs []textinput.Model
	Focus  int
	Tab    int

	HelpView help.Model
	Keys     keyboard.Map

	SettingsDirty bool
	FollowLogs    bool
	FollowEvents  bool

	LogText      string
	EventText    string
	LogView      viewport.Model
	EventView    viewport.Model
	SettingsView viewport.Model

	Width     int
	Height    int
	AnimPhase int

	InfoTitle      string
	InfoText       string
	ErrorModalText string
	Toasts         []Toast
	HoverZone      string

	SavedSettings Draft
	DraftSettings Draft
}

func NewState(saved Draft) State {
	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = defaultInputCharLimit
		inputs[i].Width = defaultInputWidth
		inputs[i].Prompt = ""
	}
	inputs[consumerKeyInput].Placeholder = "Consumer key"
	inputs[consumerSecretInput].Placeholder = "Consumer secret"
	inputs[accessKeyInput].Placeholder = "Access token"
	inputs[accessSecretInput].Placeholder = "Access token secret"
	for _, i := range []int{consumerSecretInput, accessSecretInput} {
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '•'
	}

	helpView := help.New()
	helpView.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpView.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpView.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpView.Styles.FullDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpView.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpView.Styles.FullSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpView.Styles.Ellipsis = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	s := State{
		Inputs:        inputs,
		Tab:           TabLog,
		HelpView:      helpView,
		Keys:          keyboard.New(),
		FollowLogs:    true,
		FollowEvents:  true,
		LogView:       viewport.New(defaultLogViewWidth, defaultLogViewHeight),
		EventView:     viewport.New(defaultLogViewWidth, defaultLogViewHeight),
		SettingsView:  viewport.New(defaultLogViewWidth, defaultSettingsHeight),
		SavedSettings: saved,
		DraftSettings: saved,
	}
	return s.WithDraftAppliedToControls()
}

func (s State) WithWindowSize(width int, height int) State {
	s.Width = width
	s.Height = height
	return s
}

// WithTick advances the animation phase and drops expired toasts.
func (s State) WithTick(now time.Time) State {
	s.AnimPhase++
	if s.AnimPhase > maxAnimPhaseValue {
		s.AnimPhase = 0
	}
	return s.WithoutExpiredToasts(now)
}

func (s State) WithToast(title, body string, until time.Time) State {
	toasts := append(append([]Toast(nil), s.Toasts...), Toast{Title: title, Body: body, Until: until})
	if len(toasts) > maxToasts {
		toasts = toasts[len(toasts)-maxToasts:]
	}
	s.Toasts = toasts
	return s
}

func (s State) WithoutExpiredToasts(now time.Time) State {
	if len(s.Toasts) == 0 {
		return s
	}
	kept := make([]Toast, 0, len(s.Toasts))
	for _, toast := range s.Toasts {
		if now.Before(toast.Until) {
			kept = append(kept, toast)
		}
	}
	s.Toasts = kept
	return s
}

func (s State) WithInfo(title, text string) State {
	s.InfoTitle = title
	s.InfoText = text
	return s
}

func (s State) ModalOpen() bool {
	return s.ErrorModalText != "" || s.InfoText != ""
}
