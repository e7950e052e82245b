package view

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

type MouseEffect int

const (
	MouseEffectNone MouseEffect = iota
	MouseEffectActivateFocused
)

// ReduceMouse scrolls the visible log, tracks hover and turns a left click
// on a marked control into focus plus activation.
func ReduceMouse(state State, msg tea.MouseMsg) (State, tea.Cmd, MouseEffect) {
	var cmd tea.Cmd
	switch state.Tab {
	case TabLog:
		state.LogView, cmd = state.LogView.Update(msg)
		state.FollowLogs = state.LogView.AtBottom()
	case TabEvents:
		state.EventView, cmd = state.EventView.Update(msg)
		state.FollowEvents = state.EventView.AtBottom()
	}

	hit := hitZone(state)
	state.HoverZone = ""
	for _, id := range hit {
		if zone.Get(id).InBounds(msg) {
			state.HoverZone = id
			break
		}
	}

	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft || state.HoverZone == "" {
		return state, cmd, MouseEffectNone
	}
	if state.ModalOpen() {
		if state.HoverZone == zoneModalDone {
			state.ErrorModalText = ""
			state.InfoTitle, state.InfoText = "", ""
		}
		return state, cmd, MouseEffectNone
	}

	for tab := range tabCount {
		if state.HoverZone == tabZone(tab) {
			return state.WithTab(tab), cmd, MouseEffectNone
		}
	}
	if state.Tab == TabLog {
		for i, id := range logControlZones {
			if state.HoverZone == id {
				state.Focus = i
				return state, cmd, MouseEffectActivateFocused
			}
		}
	}
	if state.Tab == TabSettings {
		for i := range state.Inputs {
			if state.HoverZone == zoneSettingsInput(i) {
				state.Focus = i
				state.ApplyFocus()
				return state, cmd, MouseEffectNone
			}
		}
		switch state.HoverZone {
		case zoneDebug:
			state.Focus = state.DebugIndex()
		case zoneSave:
			state.Focus = state.SaveIndex()
		case zoneCancel:
			state.Focus = state.CancelIndex()
		default:
			return state, cmd, MouseEffectNone
		}
		state.ApplyFocus()
		return state, cmd, MouseEffectActivateFocused
	}
	return state, cmd, MouseEffectNone
}

func hitZone(state State) []string {
	if state.ModalOpen() {
		return []string{zoneModalDone}
	}
	ids := []string{zoneTabLog, zoneTabEvents, zoneTabSettings}
	switch state.Tab {
	case TabLog:
		ids = append(ids, logControlZones[:]...)
	case TabSettings:
		for i := range state.Inputs {
			ids = append(ids, zoneSettingsInput(i))
		}
		ids = append(ids, zoneDebug, zoneSave, zoneCancel)
	}
	return ids
}
