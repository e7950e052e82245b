package view

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyEffect int

const (
	KeyEffectNone KeyEffect = iota
	KeyEffectRequestQuit
	KeyEffectActivateFocused
	KeyEffectSaveSettings
	KeyEffectToggleTracking
	KeyEffectClear
	KeyEffectReload
	KeyEffectExport
	KeyEffectPost
)

func ReduceKey(state State, msg tea.KeyMsg) (State, KeyEffect) {
	if state.ModalOpen() {
		if key.Matches(msg, state.Keys.Close) || msg.String() == " " {
			state.ErrorModalText = ""
			state.InfoTitle, state.InfoText = "", ""
		}
		return state, KeyEffectNone
	}

	if msg.String() == "ctrl+c" {
		return state, KeyEffectRequestQuit
	}
	if state.Tab != TabSettings {
		switch {
		case key.Matches(msg, state.Keys.Quit):
			return state, KeyEffectRequestQuit
		case key.Matches(msg, state.Keys.Toggle):
			return state, KeyEffectToggleTracking
		case key.Matches(msg, state.Keys.Clear):
			return state, KeyEffectClear
		case key.Matches(msg, state.Keys.Reload):
			return state, KeyEffectReload
		case key.Matches(msg, state.Keys.Export):
			return state, KeyEffectExport
		case key.Matches(msg, state.Keys.Post):
			return state, KeyEffectPost
		case key.Matches(msg, state.Keys.Follow):
			if state.Tab == TabEvents {
				state.FollowEvents = true
				state.EventView.GotoBottom()
			} else {
				state.FollowLogs = true
				state.LogView.GotoBottom()
			}
			return state, KeyEffectNone
		}
	}

	switch {
	case msg.String() == "ctrl+s" && state.Tab == TabSettings:
		return state, KeyEffectSaveSettings
	case key.Matches(msg, state.Keys.PrevTab):
		return state.WithTab(state.Tab - 1), KeyEffectNone
	case key.Matches(msg, state.Keys.NextTab):
		return state.WithTab(state.Tab + 1), KeyEffectNone
	case key.Matches(msg, state.Keys.NextFocus):
		state.Focus = (state.Focus + 1) % state.FocusCount()
		state.ApplyFocus()
		return state, KeyEffectNone
	case key.Matches(msg, state.Keys.PrevFocus):
		state.Focus = (state.Focus + state.FocusCount() - 1) % state.FocusCount()
		state.ApplyFocus()
		return state, KeyEffectNone
	case key.Matches(msg, state.Keys.Activate):
		if state.Tab == TabLog || (state.Tab == TabSettings && state.Focus >= len(state.Inputs)) {
			return state, KeyEffectActivateFocused
		}
	}

	return state, KeyEffectNone
}
