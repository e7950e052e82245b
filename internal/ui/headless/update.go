package headless

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gpslogger/internal/logging"
	headlessview "gpslogger/internal/ui/headless/view"
)

// toastLifetime is how long a delivered notification stays on screen.
const toastLifetime = 6 * time.Second

func (m *headlessModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		if _, ok := msg.(quitNowMsg); ok {
			m.cleanup()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = m.ui.WithWindowSize(msg.Width, msg.Height)
		m.ui.Resize()
		return m, nil
	case eventMsg:
		m.ui.AppendEvent(string(msg), headlessEventLineLimit)
		return m, waitForEvent(m.eventCh)
	case logTextMsg:
		m.ui.SetLogText(string(msg))
		return m, waitForText(m.textCh)
	case stateChangedMsg:
		m.refreshRuntime()
		return m, waitForState(m.stateCh)
	case toastMsg:
		m.ui = m.ui.WithToast(msg.title, msg.body, time.Now().Add(toastLifetime))
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.ui.ErrorModalText = msg.err.Error()
			m.logger.Warn("action failed", logging.Field("action", msg.action), logging.Field("error", msg.err))
		}
		if msg.action == actionClear || msg.action == actionReload {
			m.ui.SetLogText(m.app.View().Text())
		}
		m.refreshRuntime()
		return m, nil
	case exportDoneMsg:
		m.applyExportResult(msg)
		return m, nil
	case postDoneMsg:
		m.applyPostResult(msg)
		return m, nil
	case settingsSavedMsg:
		if msg.err != nil {
			m.ui.ErrorModalText = msg.err.Error()
			return m, nil
		}
		if m.ui.DraftSettings == msg.draft {
			m.ui = m.ui.WithSaveCommitted()
		}
		m.refreshRuntime()
		return m, nil
	case tickMsg:
		m.ui = m.ui.WithTick(time.Now())
		m.status = m.statusFn()
		return m, tickCmd()
	case tea.MouseMsg:
		return m.updateMouseMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	next, cmd, ok := headlessview.ReduceInput(m.ui, msg)
	if ok {
		m.ui = next
		return m, cmd
	}
	return m, nil
}

func (m *headlessModel) updateMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	next, cmd, effect := headlessview.ReduceMouse(m.ui, msg)
	m.ui = next
	if effect == headlessview.MouseEffectActivateFocused {
		return m, tea.Batch(cmd, m.activateFocusedControl())
	}
	return m, cmd
}

func (m *headlessModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, effect := headlessview.ReduceKey(m.ui, msg)
	m.ui = next
	switch effect {
	case headlessview.KeyEffectRequestQuit:
		return m, m.beginQuitCmd()
	case headlessview.KeyEffectSaveSettings:
		return m, m.saveSettingsCmd()
	case headlessview.KeyEffectActivateFocused:
		return m, m.activateFocusedControl()
	case headlessview.KeyEffectToggleTracking:
		return m, m.toggleCmd()
	case headlessview.KeyEffectClear:
		return m, m.clearCmd()
	case headlessview.KeyEffectReload:
		return m, m.reloadCmd()
	case headlessview.KeyEffectExport:
		return m, m.exportCmd()
	case headlessview.KeyEffectPost:
		return m, m.postCmd()
	default:
		nextState, cmd, ok := headlessview.ReduceInput(m.ui, msg)
		if ok {
			m.ui = nextState
			return m, cmd
		}
		return m, nil
	}
}

func (m *headlessModel) activateFocusedControl() tea.Cmd {
	next, effect := headlessview.ReduceActivate(m.ui, m.tracking)
	m.ui = next
	switch effect {
	case headlessview.ActivateEffectStartTracking:
		return m.startCmd()
	case headlessview.ActivateEffectStopTracking:
		return m.stopCmd()
	case headlessview.ActivateEffectClear:
		return m.clearCmd()
	case headlessview.ActivateEffectReload:
		return m.reloadCmd()
	case headlessview.ActivateEffectExport:
		return m.exportCmd()
	case headlessview.ActivateEffectPost:
		return m.postCmd()
	case headlessview.ActivateEffectRequestQuit:
		return m.beginQuitCmd()
	case headlessview.ActivateEffectSaveSettings:
		return m.saveSettingsCmd()
	default:
		return nil
	}
}

func (m *headlessModel) beginQuitCmd() tea.Cmd {
	m.quitting = true
	return quitProgramCmd()
}

func quitProgramCmd() tea.Cmd {
	return tea.Sequence(func() tea.Msg {
		return tea.DisableMouse()
	}, waitForMouseDrainCmd(), func() tea.Msg {
		return quitNowMsg{}
	})
}

func waitForMouseDrainCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(120 * time.Millisecond)
		return nil
	}
}
