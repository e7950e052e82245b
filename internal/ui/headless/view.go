package headless

import headlessview "gpslogger/internal/ui/headless/view"

// runtimeView projects mutable runtime state into the render DTO consumed by the view package.
func (m *headlessModel) runtimeView() headlessview.Runtime {
	return headlessview.Runtime{
		Version:  m.buildVersion,
		Tracking: m.tracking,
		Status:   m.status,
		Banner:   m.banner,
		Busy:     m.busy,
	}
}

func (m *headlessModel) View() string {
	return headlessview.RenderApp(&m.ui, m.runtimeView())
}
