package view

import (
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gpslogger/internal/ui/headless/theme"
)

// Controls on the log tab, in focus order.
const (
	toggleControl = iota
	clearControl
	reloadControl
	exportControl
	postControl
	quitControl
	logControlCount
)

// Controls after the inputs on the settings tab.
const (
	debugControl = iota
	saveControl
	cancelControl
	settingsControlCount
)

const (
	minPageWidth            = 24
	logPanelHorizontalInset = 8
	minLogViewportWidth     = 20
	minLogViewportHeight    = 3
	nonLogLayoutReserve     = 22
	minViewportDimension    = 1
	settingsFrameInset      = 4
)

func (s *State) ApplyFocus() {
	for i := range s.Inputs {
		if s.Tab == TabSettings && i == s.Focus {
			s.Inputs[i].Focus()
		} else {
			s.Inputs[i].Blur()
		}
	}
}

func (s State) FocusCount() int {
	switch s.Tab {
	case TabLog:
		return logControlCount
	case TabSettings:
		return len(s.Inputs) + settingsControlCount
	default:
		return 1
	}
}

func (s State) ToggleIndex() int { return toggleControl }
func (s State) ClearIndex() int  { return clearControl }
func (s State) ReloadIndex() int { return reloadControl }
func (s State) ExportIndex() int { return exportControl }
func (s State) PostIndex() int   { return postControl }
func (s State) QuitIndex() int   { return quitControl }
func (s State) DebugIndex() int  { return len(s.Inputs) + debugControl }
func (s State) SaveIndex() int   { return len(s.Inputs) + saveControl }
func (s State) CancelIndex() int { return len(s.Inputs) + cancelControl }

func (s State) WithTab(tab int) State {
	s.Tab = ((tab % tabCount) + tabCount) % tabCount
	s.Focus = 0
	s.ApplyFocus()
	return s
}

func (s State) ContentWidth() int {
	width := max(s.Width, 1)
	// Some Windows terminals wrap when a styled line lands on the last column.
	if runtime.GOOS == "windows" && width > 1 {
		width--
	}
	return width
}

func (s State) PageWidth() int {
	return max(s.ContentWidth()-theme.PanelStyle.GetHorizontalFrameSize(), minPageWidth)
}

func (s *State) Resize() {
	w := max(s.PageWidth()-logPanelHorizontalInset, minLogViewportWidth)
	h := max(s.Height-nonLogLayoutReserve, minLogViewportHeight)
	s.LogView.Width = w
	s.LogView.Height = h
	s.EventView.Width = w
	s.EventView.Height = h
	s.SettingsView.Width = max(s.PageWidth()-settingsFrameInset, minViewportDimension)
	s.SettingsView.Height = max(defaultSettingsHeight, len(s.Inputs)+settingsControlCount+4)
	s.SetLogViewportContent()
	s.SetEventViewportContent()
}

// FitLogViewportHeight shrinks the active log viewport so the whole frame
// fits the window.
func (s *State) FitLogViewportHeight(nonLogSections []string) {
	if s.Height <= 0 {
		return
	}
	nonLogHeight := lipgloss.Height(strings.Join(nonLogSections, "\n\n"))
	// frame borders, gaps and the panel's own border and title
	available := max(s.Height-nonLogHeight-2-2-3, minLogViewportHeight)
	if s.LogView.Height > available {
		s.LogView.Height = available
	}
	if s.EventView.Height > available {
		s.EventView.Height = available
	}
}

func (s *State) SetLogText(text string) {
	wasAtBottom := s.LogView.AtBottom()
	s.LogText = text
	s.SetLogViewportContent()
	if s.FollowLogs || wasAtBottom {
		s.LogView.GotoBottom()
		s.FollowLogs = true
	}
}

func (s *State) AppendEvent(line string, limit int) {
	wasAtBottom := s.EventView.AtBottom()
	s.EventText = AppendLinesWithLimit(s.EventText, line, limit)
	s.SetEventViewportContent()
	if s.FollowEvents || wasAtBottom {
		s.EventView.GotoBottom()
		s.FollowEvents = true
	}
}

func (s *State) SetLogViewportContent() {
	width := max(s.LogView.Width, minViewportDimension)
	s.LogView.SetContent(wrapLogText(s.LogText, width))
}

func (s *State) SetEventViewportContent() {
	width := max(s.EventView.Width, minViewportDimension)
	s.EventView.SetContent(wrapLogText(s.EventText, width))
}

func (s State) WithDraftFromControls() State {
	s.DraftSettings.ConsumerKey = strings.TrimSpace(s.Inputs[consumerKeyInput].Value())
	s.DraftSettings.ConsumerSecret = strings.TrimSpace(s.Inputs[consumerSecretInput].Value())
	s.DraftSettings.AccessKey = strings.TrimSpace(s.Inputs[accessKeyInput].Value())
	s.DraftSettings.AccessSecret = strings.TrimSpace(s.Inputs[accessSecretInput].Value())
	s.SettingsDirty = s.DraftSettings != s.SavedSettings
	return s
}

func (s State) WithDraftAppliedToControls() State {
	s.Inputs[consumerKeyInput].SetValue(s.DraftSettings.ConsumerKey)
	s.Inputs[consumerSecretInput].SetValue(s.DraftSettings.ConsumerSecret)
	s.Inputs[accessKeyInput].SetValue(s.DraftSettings.AccessKey)
	s.Inputs[accessSecretInput].SetValue(s.DraftSettings.AccessSecret)
	return s
}

func (s State) WithSaveCommitted() State {
	s.SavedSettings = s.DraftSettings
	s.SettingsDirty = false
	return s
}

func (s State) WithCancelDraft() State {
	s.DraftSettings = s.SavedSettings
	s = s.WithDraftAppliedToControls()
	s.SettingsDirty = false
	return s
}

func AppendLinesWithLimit(current string, next string, limit int) string {
	if limit <= 0 {
		return ""
	}
	lines := splitLines(current)
	lines = append(lines, splitLines(next)...)
	if len(lines) > limit {
		lines = append([]string(nil), lines[len(lines)-limit:]...)
	}
	return strings.Join(lines, "\n")
}

func splitLines(input string) []string {
	if input == "" {
		return nil
	}
	normalized := strings.ReplaceAll(input, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func wrapLogText(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}
	return ansi.Wrap(text, width, "")
}
