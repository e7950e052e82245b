package view

type ActivateEffect int

const (
	ActivateEffectNone ActivateEffect = iota
	ActivateEffectStartTracking
	ActivateEffectStopTracking
	ActivateEffectClear
	ActivateEffectReload
	ActivateEffectExport
	ActivateEffectPost
	ActivateEffectRequestQuit
	ActivateEffectSaveSettings
)

// ReduceActivate resolves the focused control. tracking selects which half
// of the start/stop toggle is live.
func ReduceActivate(state State, tracking bool) (State, ActivateEffect) {
	switch state.Tab {
	case TabLog:
		switch state.Focus {
		case state.ToggleIndex():
			if tracking {
				return state, ActivateEffectStopTracking
			}
			return state, ActivateEffectStartTracking
		case state.ClearIndex():
			return state, ActivateEffectClear
		case state.ReloadIndex():
			return state, ActivateEffectReload
		case state.ExportIndex():
			return state, ActivateEffectExport
		case state.PostIndex():
			return state, ActivateEffectPost
		case state.QuitIndex():
			return state, ActivateEffectRequestQuit
		}
	case TabSettings:
		switch state.Focus {
		case state.DebugIndex():
			state.DraftSettings.DebugMode = !state.DraftSettings.DebugMode
			state.SettingsDirty = state.DraftSettings != state.SavedSettings
			return state, ActivateEffectNone
		case state.SaveIndex():
			if !state.SettingsDirty {
				return state, ActivateEffectNone
			}
			return state, ActivateEffectSaveSettings
		case state.CancelIndex():
			if !state.SettingsDirty {
				return state, ActivateEffectNone
			}
			return state.WithCancelDraft(), ActivateEffectNone
		}
	}
	return state, ActivateEffectNone
}
