package headless

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gpslogger/internal/app"
	"gpslogger/internal/export"
	"gpslogger/internal/logging"
	headlessview "gpslogger/internal/ui/headless/view"
)

const headlessEventLineLimit = 2_000

type eventMsg string
type logTextMsg string
type stateChangedMsg struct{}
type tickMsg struct{}
type quitNowMsg struct{}

type toastMsg struct {
	title string
	body  string
}

type actionDoneMsg struct {
	action string
	err    error
}

type exportDoneMsg struct {
	record export.Record
	err    error
}

type postDoneMsg struct {
	result app.PostResult
}

type settingsSavedMsg struct {
	draft headlessview.Draft
	err   error
}

type modelDeps struct {
	app         *app.App
	statusFn    func() string
	logger      *logging.Logger
	unsubscribe []func()
	rootCtx     context.Context
	rootCancel  context.CancelFunc
	program     *tea.Program
}

type modelChannels struct {
	eventCh chan string
	textCh  chan string
	stateCh chan struct{}
}

type modelRuntime struct {
	tracking bool
	status   string
	banner   string
	busy     string
	quitting bool
}

type headlessModel struct {
	buildVersion string
	modelDeps
	modelChannels
	modelRuntime
	cleanupOnce sync.Once
	ui          headlessview.State
}
