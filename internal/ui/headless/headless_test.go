package headless

import (
	"context"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"gpslogger/internal/app"
	"gpslogger/internal/config"
	"gpslogger/internal/export"
	"gpslogger/internal/logging"
	"gpslogger/internal/notify"
	"gpslogger/internal/state"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newTestModel(t *testing.T) (*headlessModel, *app.Components) {
	t.Helper()
	opts := config.ApplyDefaults(config.Options{
		Store:     config.StoreMemory,
		DataDir:   t.TempDir(),
		ExportDir: t.TempDir(),
	})
	logger := logging.NewDiscard()
	toasts := newToastService()
	t.Cleanup(toasts.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	comps, err := app.Build(ctx, opts, toasts, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = comps.Close() })

	m := newHeadlessModel(ctx, cancel, "test", comps.App, comps.Tracker.Status, logger)
	t.Cleanup(m.cleanup)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, comps
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends a key and feeds the resulting command's message back.
func press(t *testing.T, m *headlessModel, r rune) {
	t.Helper()
	_, cmd := m.Update(runeKey(r))
	require.NotNil(t, cmd, "key %q produced no command", r)
	m.Update(cmd())
}

func TestToggleKeyStartsAndStopsTracking(t *testing.T) {
	m, _ := newTestModel(t)
	require.False(t, m.tracking)

	press(t, m, 's')
	require.True(t, m.tracking)

	press(t, m, 's')
	require.False(t, m.tracking)
}

func TestReloadShowsEntries(t *testing.T) {
	m, comps := newTestModel(t)
	require.NoError(t, state.SetStrings(comps.Store, state.KeyLogs, []string{"2026/10/17 09:00:00 Start"}))

	press(t, m, 'r')
	require.Equal(t, "2026/10/17 09:00:00 Start", m.ui.LogText)

	press(t, m, 'c')
	require.Empty(t, m.ui.LogText)
}

func TestExportShowsConfirmation(t *testing.T) {
	m, comps := newTestModel(t)
	require.NoError(t, state.SetStrings(comps.Store, state.KeyLogs, []string{"x"}))

	press(t, m, 'e')
	require.Equal(t, export.ConfirmationTitle, m.ui.InfoTitle)
	require.Contains(t, m.ui.InfoText, "Exported to file export_")
}

func TestExportWithoutLogsIsSilent(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, 'e')
	require.False(t, m.ui.ModalOpen())
}

func TestPostWithoutCredentialsClearsBusy(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runeKey('p'))
	require.NotNil(t, cmd)
	require.Equal(t, busyPosting, m.busy)

	_, second := m.Update(runeKey('p'))
	require.Nil(t, second, "a second post must wait for the first")

	msg := cmd()
	done, ok := msg.(postDoneMsg)
	require.True(t, ok)
	require.Equal(t, app.PostSkipped, done.result.Outcome)
	m.Update(msg)
	require.Empty(t, m.busy)
}

func TestToastMessageShown(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(toastMsg{title: app.TitleTweeted, body: "Shinjuku"})
	require.Len(t, m.ui.Toasts, 1)
	require.Contains(t, m.View(), "Shinjuku")
}

func TestToastServiceDeliversAfterDelay(t *testing.T) {
	svc := newToastService()
	defer svc.Stop()
	got := make(chan tea.Msg, 1)
	svc.attach(func(msg tea.Msg) { got <- msg })

	granted, err := svc.RequestPermission(context.Background())
	require.NoError(t, err)
	require.True(t, granted)
	require.NoError(t, svc.Schedule(notify.Request{ID: "a", Title: "Warning", Body: "b", Delay: 10 * time.Millisecond}))

	select {
	case msg := <-got:
		require.Equal(t, toastMsg{title: "Warning", body: "b"}, msg)
	case <-time.After(time.Second):
		t.Fatal("toast not delivered")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	require.True(t, m.quitting)

	_, cmd = m.Update(quitNowMsg{})
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}
