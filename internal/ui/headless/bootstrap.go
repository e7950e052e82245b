package headless

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gpslogger/internal/app"
	"gpslogger/internal/config"
	"gpslogger/internal/logging"
	"gpslogger/internal/runctx"
	headlessview "gpslogger/internal/ui/headless/view"
)

const (
	eventChannelBufferSize = 512
	updateTickInterval     = 120 * time.Millisecond
	runErrorExitCode       = 1
)

func Run(rootCtx context.Context, buildVersion string, opts config.Options) {
	defer forceDisableMouseTracking()

	logger := logging.New(opts.Debug)
	if logger == nil {
		panic("headless.Run: logging.New returned nil")
	}
	defer func() { _ = logger.Close() }()
	if err := logger.EnableFilePersistence(0); err != nil {
		logger.Warn("failed to enable file log persistence", logging.Field("error", err))
	}
	logger.SetTerminalOutputEnabled(false)
	logger.Info("starting gps logger TUI", logging.Field("version", buildVersion), logging.Field("store", opts.Store))

	runCtx, runCancel := context.WithCancel(rootCtx)
	defer runCancel()

	toasts := newToastService()
	defer toasts.Stop()
	comps, err := app.Build(runCtx, opts, toasts, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(runErrorExitCode)
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logger.Warn("close components failed", logging.Field("error", err))
		}
	}()

	m := newHeadlessModel(runCtx, runCancel, buildVersion, comps.App, comps.Tracker.Status, logger)
	zone.NewGlobal()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(runCtx))
	m.program = program
	toasts.attach(program.Send)

	go func() {
		if err := comps.Run(runCtx); err != nil {
			logger.Warn("background components stopped", logging.Field("error", err))
		}
	}()

	result, runErr := program.Run()
	if model, ok := result.(*headlessModel); ok && model != nil {
		model.cleanup()
	}
	if runErr != nil && runCtx.Err() == nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(runErrorExitCode)
	}
}

func forceDisableMouseTracking() {
	_, _ = os.Stdout.WriteString("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l\x1b[?1015l")
}

func newHeadlessModel(ctx context.Context, cancel context.CancelFunc, buildVersion string, a *app.App, statusFn func() string, logger *logging.Logger) *headlessModel {
	if a == nil {
		panic("headless.newHeadlessModel: app must not be nil")
	}
	if logger == nil {
		panic("headless.newHeadlessModel: logger must not be nil")
	}
	if statusFn == nil {
		statusFn = a.Status
	}

	saved, err := a.Settings()
	if err != nil {
		logger.Warn("load settings failed", logging.Field("error", err))
	}

	m := &headlessModel{
		buildVersion: buildVersion,
		modelDeps: modelDeps{
			app:        a,
			statusFn:   statusFn,
			logger:     logger,
			rootCtx:    ctx,
			rootCancel: cancel,
		},
		modelChannels: modelChannels{
			eventCh: make(chan string, eventChannelBufferSize),
			textCh:  make(chan string, 1),
			stateCh: make(chan struct{}, 1),
		},
		ui: headlessview.NewState(draftFromSettings(saved)),
	}
	m.refreshRuntime()

	m.unsubscribe = append(m.unsubscribe,
		logger.Subscribe(func(event logging.Event) {
			runctx.PushLatest(m.eventCh, logging.FormatEventANSI(event))
		}),
		a.View().Subscribe(func(text string) {
			runctx.ReplaceLatest(m.textCh, text)
		}),
		a.ObserveTracking(func(bool) { runctx.Signal(m.stateCh) }),
		a.ObserveDebugMode(func(bool) { runctx.Signal(m.stateCh) }),
	)
	return m
}

func draftFromSettings(s app.Settings) headlessview.Draft {
	return headlessview.Draft{
		ConsumerKey:    s.Credentials.ConsumerKey,
		ConsumerSecret: s.Credentials.ConsumerSecret,
		AccessKey:      s.Credentials.AccessKey,
		AccessSecret:   s.Credentials.AccessSecret,
		DebugMode:      s.DebugMode,
	}
}

func (m *headlessModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.eventCh),
		waitForText(m.textCh),
		waitForState(m.stateCh),
		tickCmd(),
		m.reloadCmd(),
	)
}

func waitForEvent(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(line)
	}
}

func waitForText(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return logTextMsg(text)
	}
}

func waitForState(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(updateTickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
