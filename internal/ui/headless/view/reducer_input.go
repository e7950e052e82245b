package view

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ReduceInput feeds msg to the focused credential field. It reports false
// when no field takes input, so the caller can try other reducers.
func ReduceInput(state State, msg tea.Msg) (State, tea.Cmd, bool) {
	if state.Tab != TabSettings || state.ModalOpen() || state.Focus >= len(state.Inputs) {
		return state, nil, false
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.Paste {
		// Secrets are single-line; pasted line breaks would never match.
		key.Runes = []rune(strings.NewReplacer("\r", "", "\n", "").Replace(string(key.Runes)))
		msg = key
	}
	updated, cmd := state.Inputs[state.Focus].Update(msg)
	state.Inputs[state.Focus] = updated
	return state.WithDraftFromControls(), cmd, true
}
