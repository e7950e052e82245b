package headless

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"gpslogger/internal/app"
	"gpslogger/internal/export"
	"gpslogger/internal/logging"
	"gpslogger/internal/social"
)

const (
	actionStart  = "start"
	actionStop   = "stop"
	actionClear  = "clear"
	actionReload = "reload"

	busyPosting = "Posting..."
)

// refreshRuntime reloads everything the frame shows from the app.
func (m *headlessModel) refreshRuntime() {
	m.tracking = m.app.IsLogging()
	m.status = m.statusFn()
	m.banner = m.app.Banner()
}

func (m *headlessModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: actionStart, err: m.app.Start()}
	}
}

func (m *headlessModel) stopCmd() tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: actionStop, err: m.app.Stop()}
	}
}

func (m *headlessModel) toggleCmd() tea.Cmd {
	if m.app.Affordances().Stop {
		return m.stopCmd()
	}
	return m.startCmd()
}

func (m *headlessModel) clearCmd() tea.Cmd {
	return func() tea.Msg {
		m.app.Clear()
		return actionDoneMsg{action: actionClear}
	}
}

func (m *headlessModel) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		m.app.Reload()
		return actionDoneMsg{action: actionReload}
	}
}

func (m *headlessModel) exportCmd() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.app.Export()
		return exportDoneMsg{record: rec, err: err}
	}
}

// postCmd runs the post off the UI loop. Only one post runs at a time.
func (m *headlessModel) postCmd() tea.Cmd {
	if m.busy != "" {
		return nil
	}
	m.busy = busyPosting
	ctx := m.rootCtx
	return func() tea.Msg {
		return postDoneMsg{result: m.app.PostLocation(ctx)}
	}
}

func (m *headlessModel) saveSettingsCmd() tea.Cmd {
	if !m.ui.SettingsDirty {
		return nil
	}
	m.ui = m.ui.WithDraftFromControls()
	draft := m.ui.DraftSettings
	return func() tea.Msg {
		err := m.app.SaveSettings(app.Settings{
			Credentials: social.Credentials{
				ConsumerKey:    draft.ConsumerKey,
				ConsumerSecret: draft.ConsumerSecret,
				AccessKey:      draft.AccessKey,
				AccessSecret:   draft.AccessSecret,
			},
			DebugMode: draft.DebugMode,
		})
		return settingsSavedMsg{draft: draft, err: err}
	}
}

func (m *headlessModel) applyExportResult(msg exportDoneMsg) {
	switch {
	case msg.err == nil:
		m.ui = m.ui.WithInfo(export.ConfirmationTitle, msg.record.ConfirmationMessage())
	case errors.Is(msg.err, app.ErrNoLogs):
		m.logger.Debug("export skipped: no logs")
	default:
		m.ui.ErrorModalText = msg.err.Error()
	}
}

// applyPostResult clears the busy marker. Feedback arrives as a toast or,
// for failures, only in the event log.
func (m *headlessModel) applyPostResult(msg postDoneMsg) {
	m.busy = ""
	if msg.result.Outcome == app.PostFailed {
		m.logger.Debug("post finished without notification", logging.Field("outcome", msg.result.Outcome.String()))
	}
}

func (m *headlessModel) cleanup() {
	m.cleanupOnce.Do(func() {
		m.logger.Debug("headless cleanup started")
		for _, unsubscribe := range m.unsubscribe {
			if unsubscribe != nil {
				unsubscribe()
			}
		}
		if m.rootCancel != nil {
			m.rootCancel()
		}
		m.logger.Debug("headless cleanup complete")
	})
}
