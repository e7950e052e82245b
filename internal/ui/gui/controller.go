//go:build !headless

package gui

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"gpslogger/internal/app"
	"gpslogger/internal/config"
	"gpslogger/internal/logging"
	"gpslogger/internal/runstatus"
)

const (
	appID               = "io.gpslogger.desktop"
	windowTitle         = "GPS Logger"
	statusRefreshRate   = 500 * time.Millisecond
	tooltipCursorGap    = 10
	emptyLogPlaceholder = "No entries yet. Press Start to begin tracking."
)

var (
	statusStoppedColor  = color.NRGBA{R: 145, G: 145, B: 145, A: 255}
	statusLocatingColor = color.NRGBA{R: 72, G: 189, B: 109, A: 255}
	statusWaitingColor  = color.NRGBA{R: 219, G: 167, B: 74, A: 255}
	bannerColor         = color.NRGBA{R: 220, G: 84, B: 84, A: 255}
)

type controller struct {
	app     fyne.App
	win     fyne.Window
	logger  *logging.Logger
	core    *app.App
	comps   *app.Components
	notify  *desktopNotifier
	version string

	saved app.Settings
	draft app.Settings

	banner      *canvas.Text
	statusBadge *statusBadge
	statusText  *widget.Label
	startButton *widget.Button
	stopButton  *widget.Button
	postButton  *widget.Button
	logLabel    *widget.Label
	logScroll   *container.Scroll

	consumerKey    *widget.Entry
	consumerSecret *widget.Entry
	accessKey      *widget.Entry
	accessSecret   *widget.Entry
	debugMode      *sliderToggle
	saveSettings   *widget.Button
	cancelSettings *widget.Button

	eventsWindow  fyne.Window
	eventsOpen    bool
	eventsGrid    *widget.TextGrid
	eventsScroll  *container.Scroll
	eventsBuffer  *ansiLogBuffer
	eventCols     int
	followButton  *widget.Button
	followEnabled bool
	followJumping bool

	hoverTipLayer *fyne.Container
	hoverTipCard  *fyne.Container
	hoverTipLabel *widget.Label

	cleanupOnce  sync.Once
	quitOnce     sync.Once
	bgWG         sync.WaitGroup
	unsubscribe  []func()
	appCtx       context.Context
	appCancel    context.CancelFunc
	shuttingDown bool
	posting      bool
	stopping     bool
}

func Run(rootCtx context.Context, buildVersion string, opts config.Options) {
	logger := logging.New(opts.Debug)
	if logger == nil {
		panic("gui.Run: logging.New returned nil")
	}
	defer func() { _ = logger.Close() }()
	if err := logger.EnableFilePersistence(0); err != nil {
		logger.Warn("failed to enable file log persistence", logging.Field("error", err))
	}
	logger.Info("starting gps logger UI", logging.Field("version", buildVersion), logging.Field("store", opts.Store))

	if rootCtx == nil {
		rootCtx = context.Background()
	}
	appCtx, appCancel := context.WithCancel(rootCtx)
	defer appCancel()

	uiApp := fyneapp.NewWithID(appID)
	uiApp.Settings().SetTheme(newLoggerTheme())
	notifier := newDesktopNotifier(uiApp)
	defer notifier.Stop()

	comps, err := app.Build(appCtx, opts, notifier, logger)
	if err != nil {
		logger.Error("build components failed", logging.Field("error", err))
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logger.Warn("close components failed", logging.Field("error", err))
		}
	}()

	c := newController(appCtx, appCancel, uiApp, comps, notifier, logger, buildVersion)
	c.run()
}

func newController(ctx context.Context, cancel context.CancelFunc, uiApp fyne.App, comps *app.Components, notifier *desktopNotifier, logger *logging.Logger, version string) *controller {
	if comps == nil || comps.App == nil {
		panic("gui.newController: components must not be nil")
	}
	saved, err := comps.App.Settings()
	if err != nil {
		logger.Warn("load settings failed", logging.Field("error", err))
	}
	c := &controller{
		app:       uiApp,
		logger:    logger,
		core:      comps.App,
		comps:     comps,
		notify:    notifier,
		version:   version,
		saved:     saved,
		draft:     saved,
		appCtx:    ctx,
		appCancel: cancel,
	}

	uiApp.SetIcon(loggerIconResource())
	c.win = uiApp.NewWindow(windowTitle + " (" + version + ")")
	c.win.SetMaster()
	c.win.Resize(fyne.NewSize(520, 480))
	c.buildUI()
	c.bindLogs()
	c.bindState()
	c.setupTray()
	c.app.Lifecycle().SetOnStopped(func() {
		c.logger.Debug("app lifecycle OnStopped hook triggered")
		c.cleanup()
	})
	return c
}

func (c *controller) run() {
	c.refreshRuntime()
	c.startBackgroundLoop("components", func(ctx context.Context) {
		if err := c.comps.Run(ctx); err != nil {
			c.logger.Warn("background components stopped", logging.Field("error", err))
		}
	})
	c.startStatusLoop()
	go func() {
		<-c.appCtx.Done()
		fyne.Do(func() {
			if c.shuttingDown {
				return
			}
			c.logger.Info("root context canceled; shutting down UI")
			c.quitApp()
		})
	}()
	c.win.SetCloseIntercept(func() {
		c.logger.Debug("main window close intercepted: requesting quit")
		c.requestQuit()
	})
	c.win.Show()
	c.core.Reload()
	c.app.Run()
}

func (c *controller) buildUI() {
	c.banner = canvas.NewText("", bannerColor)
	c.banner.TextStyle = fyne.TextStyle{Bold: true}
	c.banner.Alignment = fyne.TextAlignCenter

	c.statusBadge = newStatusBadge(statusBadgeHandlers{
		Show: c.showHoverTooltip,
		Move: c.moveHoverTooltip,
		Hide: c.hideHoverTooltip,
	})
	c.statusText = widget.NewLabel(runstatus.Stopped)

	c.startButton = widget.NewButton("Start", c.startTracking)
	c.stopButton = widget.NewButton("Stop", c.stopTracking)
	clearButton := widget.NewButton("Clear", c.clearLogs)
	reloadButton := widget.NewButton("Reload", c.reloadLogs)
	exportButton := widget.NewButton("Export", c.exportLogs)
	c.postButton = widget.NewButton("Post Location", c.postLocation)
	eventsButton := widget.NewButton("Events", func() {
		c.setEventsVisibility(true)
		c.refreshTrayMenu()
	})

	c.logLabel = widget.NewLabel(emptyLogPlaceholder)
	c.logLabel.Wrapping = fyne.TextWrapWord
	c.logLabel.TextStyle = fyne.TextStyle{Monospace: true}
	c.logScroll = container.NewVScroll(c.logLabel)

	trackingRow := container.NewHBox(
		c.startButton,
		c.stopButton,
		c.horizontalGap(12),
		widget.NewLabel("Status:"),
		container.NewHBox(c.statusBadge, c.statusText),
	)
	logActions := container.NewHBox(clearButton, reloadButton, exportButton, layout.NewSpacer(), c.postButton, eventsButton)
	top := container.NewVBox(c.banner, trackingRow, logActions)

	pad := func(obj fyne.CanvasObject) fyne.CanvasObject {
		return container.NewPadded(container.NewPadded(obj))
	}
	logTab := container.NewTabItem("Log", pad(container.NewBorder(top, nil, nil, nil, c.logScroll)))
	settingsTab := container.NewTabItem("Settings", pad(c.buildSettingsForm()))
	tabs := container.NewAppTabs(logTab, settingsTab)
	tabs.SetTabLocation(container.TabLocationTop)

	minAnchor := canvas.NewRectangle(color.Transparent)
	minAnchor.SetMinSize(fyne.NewSize(500, 400))
	c.hoverTipLabel = widget.NewLabel("")
	c.hoverTipLabel.Wrapping = fyne.TextWrapOff
	tipBG := canvas.NewRectangle(color.NRGBA{R: 44, G: 44, B: 44, A: 250})
	c.hoverTipCard = container.NewStack(tipBG, container.NewPadded(c.hoverTipLabel))
	c.hoverTipCard.Hide()
	c.hoverTipLayer = container.NewWithoutLayout(c.hoverTipCard)

	c.initEventsWindow()
	c.win.SetContent(container.NewStack(minAnchor, tabs, c.hoverTipLayer))
	c.refreshSettingsActions()
}

func (c *controller) buildSettingsForm() fyne.CanvasObject {
	c.consumerKey = widget.NewEntry()
	c.consumerSecret = widget.NewPasswordEntry()
	c.accessKey = widget.NewEntry()
	c.accessSecret = widget.NewPasswordEntry()
	c.applyDraftToControls()

	bind := func(entry *widget.Entry, set func(string)) {
		entry.OnChanged = func(v string) {
			set(strings.TrimSpace(v))
			c.refreshSettingsActions()
		}
	}
	bind(c.consumerKey, func(v string) { c.draft.Credentials.ConsumerKey = v })
	bind(c.consumerSecret, func(v string) { c.draft.Credentials.ConsumerSecret = v })
	bind(c.accessKey, func(v string) { c.draft.Credentials.AccessKey = v })
	bind(c.accessSecret, func(v string) { c.draft.Credentials.AccessSecret = v })

	c.debugMode = newSliderToggle(func(v bool) {
		c.draft.DebugMode = v
		c.refreshSettingsActions()
	})
	c.debugMode.SetChecked(c.draft.DebugMode)

	c.saveSettings = widget.NewButton("Save", c.saveDraftSettings)
	c.cancelSettings = widget.NewButton("Cancel", c.cancelDraftSettings)

	form := container.NewVBox(
		widget.NewLabel("Consumer Key"),
		c.consumerKey,
		widget.NewLabel("Consumer Secret"),
		c.consumerSecret,
		c.verticalGap(8),
		widget.NewLabel("Access Key"),
		c.accessKey,
		widget.NewLabel("Access Secret"),
		c.accessSecret,
	)
	return container.NewVBox(
		form,
		c.verticalGap(12),
		container.NewBorder(nil, nil, widget.NewLabel("Debug mode"), c.debugMode, nil),
		c.verticalGap(8),
		container.NewHBox(c.saveSettings, c.cancelSettings),
	)
}

func (c *controller) applyDraftToControls() {
	creds := c.draft.Credentials
	c.consumerKey.SetText(creds.ConsumerKey)
	c.consumerSecret.SetText(creds.ConsumerSecret)
	c.accessKey.SetText(creds.AccessKey)
	c.accessSecret.SetText(creds.AccessSecret)
	if c.debugMode != nil {
		c.debugMode.SetChecked(c.draft.DebugMode)
	}
}

func (c *controller) settingsDirty() bool {
	return c.draft != c.saved
}

func (c *controller) refreshSettingsActions() {
	if c.saveSettings == nil || c.cancelSettings == nil {
		return
	}
	if c.settingsDirty() {
		c.saveSettings.Enable()
		c.cancelSettings.Enable()
		return
	}
	c.saveSettings.Disable()
	c.cancelSettings.Disable()
}

func (c *controller) saveDraftSettings() {
	next := c.draft
	if err := c.core.SaveSettings(next); err != nil {
		c.showError(err)
		return
	}
	c.saved = next
	c.draft = next
	c.refreshSettingsActions()
	c.refreshRuntime()
}

func (c *controller) cancelDraftSettings() {
	c.draft = c.saved
	c.applyDraftToControls()
	c.refreshSettingsActions()
}

func (c *controller) verticalGap(height float32) fyne.CanvasObject {
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(1, height))
	return spacer
}

func (c *controller) horizontalGap(width float32) fyne.CanvasObject {
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(width, 1))
	return spacer
}

// trackingButtons reports which of Start and Stop accept clicks. Both stay
// off while a stop is still waiting for the fix source to drain.
func trackingButtons(aff app.Affordances, stopping bool) (start, stop bool) {
	if stopping {
		return false, false
	}
	return aff.Start, aff.Stop
}

// refreshRuntime pulls tracking state, status and the debug banner from the
// app into the window. It must run on the UI goroutine.
func (c *controller) refreshRuntime() {
	start, stop := trackingButtons(c.core.Affordances(), c.stopping)
	if start {
		c.startButton.Enable()
	} else {
		c.startButton.Disable()
	}
	if stop {
		c.stopButton.Enable()
	} else {
		c.stopButton.Disable()
	}
	if c.posting {
		c.postButton.Disable()
	} else {
		c.postButton.Enable()
	}
	c.applyStatus(c.core.Status())
	if text := c.core.Banner(); text != c.banner.Text {
		c.banner.Text = text
		c.banner.Refresh()
	}
}

func (c *controller) applyStatus(status string) {
	if c.statusText.Text != status {
		c.statusText.SetText(status)
	}
	switch runstatus.Key(status) {
	case runstatus.KeyLocating:
		c.statusBadge.SetStatus(statusLocatingColor, "Tracking is on and waiting for fixes.", true)
	case runstatus.KeyWaiting:
		c.statusBadge.SetStatus(statusWaitingColor, "The fix file does not exist yet.", true)
	default:
		c.statusBadge.SetStatus(statusStoppedColor, "Tracking is off.", false)
	}
}

func (c *controller) setLogText(text string) {
	if text == "" {
		text = emptyLogPlaceholder
	}
	c.logLabel.SetText(text)
	c.logScroll.ScrollToBottom()
}

func (c *controller) showHoverTooltip(text string, anchor fyne.Position) {
	if c.hoverTipCard == nil {
		return
	}
	c.hoverTipLabel.SetText(text)
	size := c.hoverTipCard.MinSize()
	c.hoverTipCard.Resize(size)
	c.hoverTipCard.Move(c.hoverTooltipPosition(anchor, size))
	c.hoverTipCard.Show()
	c.hoverTipLayer.Refresh()
}

func (c *controller) moveHoverTooltip(anchor fyne.Position) {
	if c.hoverTipCard == nil || !c.hoverTipCard.Visible() {
		return
	}
	c.hoverTipCard.Move(c.hoverTooltipPosition(anchor, c.hoverTipCard.Size()))
	c.hoverTipLayer.Refresh()
}

func (c *controller) hideHoverTooltip() {
	if c.hoverTipCard == nil {
		return
	}
	c.hoverTipCard.Hide()
	c.hoverTipLayer.Refresh()
}

func (c *controller) hoverTooltipPosition(anchor fyne.Position, size fyne.Size) fyne.Position {
	const pad = float32(4)
	canvasSize := c.win.Canvas().Size()
	maxX := max(pad, canvasSize.Width-size.Width-pad)
	maxY := max(pad, canvasSize.Height-size.Height-pad)
	x := min(max(pad, anchor.X+tooltipCursorGap), maxX)
	y := min(max(pad, anchor.Y+tooltipCursorGap), maxY)
	return fyne.NewPos(x, y)
}
