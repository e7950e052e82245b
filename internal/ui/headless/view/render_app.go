package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gpslogger/internal/ui/headless/render"
	"gpslogger/internal/ui/headless/theme"
)

// Runtime is the per-frame snapshot of application state the view needs.
type Runtime struct {
	Version  string
	Tracking bool
	Status   string
	Banner   string
	// Busy names an action still running in the background.
	Busy string
}

const (
	dialogHorizontalInset = 8
	infoDialogWidth       = 72
	errorDialogWidth      = 78
	settingsLabelWidth    = 16
	settingsControlMin    = 16
	toastBodyMaxWidth     = 60
	emptyLogPlaceholder   = "No entries yet. Press s to start tracking."
)

var settingsLabels = [inputCount]string{
	consumerKeyInput:    "Consumer Key",
	consumerSecretInput: "Consumer Secret",
	accessKeyInput:      "Access Key",
	accessSecretInput:   "Access Secret",
}

func RenderApp(state *State, rt Runtime) string {
	if state.Width == 0 {
		return "initializing..."
	}

	base := renderBase(state, rt)
	switch {
	case state.ErrorModalText != "":
		return zone.Scan(renderModalOverlay(state, base, renderErrorDialog(state)))
	case state.InfoText != "":
		return zone.Scan(renderModalOverlay(state, base, renderInfoDialog(state)))
	}
	return zone.Scan(base)
}

func renderBase(state *State, rt Runtime) string {
	title := "GPS Logger"
	if rt.Version != "" {
		title += " (" + rt.Version + ")"
	}
	header := theme.TitleStyle.Render(title)
	if rt.Banner != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", theme.BannerStyle.Render(rt.Banner))
	}
	tabs := RenderTabs(state.Tab, state.HoverZone)

	helpText := state.HelpView.View(state.Keys)
	if state.Tab == TabSettings {
		helpText = "tab next • enter activate • ctrl+s save • ctrl+left/right tabs • ctrl+c quit"
	}
	help := theme.HelpStyle.Render(helpText)

	sections := []string{header, tabs}
	switch state.Tab {
	case TabLog:
		controls := renderLogControls(state, rt)
		toasts := renderToasts(state)
		nonLog := []string{header, tabs, controls, help}
		if toasts != "" {
			nonLog = append(nonLog, toasts)
		}
		state.FitLogViewportHeight(nonLog)
		sections = append(sections, controls, renderLogPanel(state, "Log", state.LogView.View(), state.LogView.Height, state.LogView.ScrollPercent(), state.LogText == ""))
		if toasts != "" {
			sections = append(sections, toasts)
		}
	case TabEvents:
		toasts := renderToasts(state)
		nonLog := []string{header, tabs, help}
		if toasts != "" {
			nonLog = append(nonLog, toasts)
		}
		state.FitLogViewportHeight(nonLog)
		sections = append(sections, renderLogPanel(state, "Events", state.EventView.View(), state.EventView.Height, state.EventView.ScrollPercent(), false))
		if toasts != "" {
			sections = append(sections, toasts)
		}
	case TabSettings:
		sections = append(sections, renderSettings(state))
	}

	sections = append(sections, help)
	return renderFrame(strings.Join(sections, "\n\n"), state.ContentWidth())
}

func renderFrame(content string, width int) string {
	return render.Frame(content, width, theme.PanelStyle)
}

func renderLogControls(state *State, rt Runtime) string {
	focused := func(i int) bool { return state.Focus == i }
	hovered := func(i int) bool { return state.HoverZone == logControlZones[i] }
	segments := []string{
		RenderToggle(logControlZones[toggleControl], rt.Tracking, focused(toggleControl), hovered(toggleControl)),
		RenderButton(logControlZones[clearControl], "Clear", focused(clearControl), hovered(clearControl), false),
		RenderButton(logControlZones[reloadControl], "Reload", focused(reloadControl), hovered(reloadControl), false),
		RenderButton(logControlZones[exportControl], "Export", focused(exportControl), hovered(exportControl), false),
		RenderButton(logControlZones[postControl], "Post Location", focused(postControl), hovered(postControl), rt.Busy != ""),
		RenderButton(logControlZones[quitControl], "Quit", focused(quitControl), hovered(quitControl), false),
	}
	status := "Status: " + RenderStatus(rt.Status, state.AnimPhase)
	if rt.Busy != "" {
		status += "  " + theme.HelpStyle.Render(rt.Busy)
	}
	return status + "\n" + RenderActionsRow(segments, state.PageWidth())
}

func renderLogPanel(state *State, title string, content string, height int, percent float64, empty bool) string {
	if empty {
		content = theme.HelpStyle.Render(emptyLogPlaceholder)
	}
	width := max(state.PageWidth()-logPanelHorizontalInset, minLogViewportWidth)
	toolbar := lipgloss.JoinHorizontal(lipgloss.Center, theme.TitleStyle.Render(title), "  ", theme.HelpStyle.Render("ctrl+f follow"))
	return renderFrame(toolbar+"\n"+WithScrollBar(content, width, height, percent), state.PageWidth())
}

func renderToasts(state *State) string {
	if len(state.Toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(state.Toasts))
	for _, toast := range state.Toasts {
		body := render.TruncateDisplayWidth(toast.Body, min(toastBodyMaxWidth, state.PageWidth()))
		parts = append(parts, theme.ToastStyle.Render(theme.TitleStyle.Render(toast.Title)+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderSettings(state *State) string {
	rows := make([]string, 0, len(state.Inputs)+settingsControlCount+2)
	controlWidth := max(state.SettingsView.Width-settingsLabelWidth-2, settingsControlMin)
	for i := range state.Inputs {
		label := settingsLabels[i]
		if state.Focus == i {
			label = theme.FocusStyle.Render("-> " + label)
		}
		state.Inputs[i].Width = controlWidth
		row := fmt.Sprintf("%-*s %s", settingsLabelWidth, label+":", state.Inputs[i].View())
		rows = append(rows, zone.Mark(zoneSettingsInput(i), row))
	}

	debug := "[ ] Debug mode"
	if state.DraftSettings.DebugMode {
		debug = "[x] Debug mode"
	}
	debugLabel := "Diagnostics"
	if state.Focus == state.DebugIndex() {
		debugLabel = theme.FocusStyle.Render("-> " + debugLabel)
	}
	rows = append(rows, zone.Mark(zoneDebug, fmt.Sprintf("%-*s %s", settingsLabelWidth, debugLabel+":", debug)))

	save := RenderButton(zoneSave, "Save", state.Focus == state.SaveIndex(), state.HoverZone == zoneSave, !state.SettingsDirty)
	cancel := RenderButton(zoneCancel, "Cancel", state.Focus == state.CancelIndex(), state.HoverZone == zoneCancel, !state.SettingsDirty)
	rows = append(rows, "", lipgloss.JoinHorizontal(lipgloss.Left, save, " ", cancel))
	if state.SettingsDirty {
		rows = append(rows, theme.HelpStyle.Render("unsaved changes"))
	}

	state.SettingsView.SetContent(strings.Join(rows, "\n"))
	return renderFrame(state.SettingsView.View(), state.PageWidth())
}

func renderInfoDialog(state *State) string {
	width := min(state.ContentWidth()-dialogHorizontalInset, infoDialogWidth)
	ok := zone.Mark(zoneModalDone, theme.ButtonFocusedStyle.Render("OK"))
	body := strings.Join([]string{
		theme.TitleStyle.Render(state.InfoTitle),
		state.InfoText,
		lipgloss.NewStyle().Width(max(width-4, 1)).AlignHorizontal(lipgloss.Center).Render(ok),
	}, "\n")
	return renderFrame(body, width)
}

func renderErrorDialog(state *State) string {
	body := strings.Join([]string{
		theme.ErrorStyle.Render("Error"),
		state.ErrorModalText,
		zone.Mark(zoneModalDone, theme.HelpStyle.Render("Press Enter or Esc to close")),
	}, "\n")
	return renderFrame(body, min(state.ContentWidth()-dialogHorizontalInset, errorDialogWidth))
}

func renderModalOverlay(state *State, base string, dialog string) string {
	faded := theme.ModalBackdrop.Render(base)
	overlay := lipgloss.Place(state.Width, state.Height, lipgloss.Center, lipgloss.Center, dialog)
	return faded + "\n" + overlay
}
