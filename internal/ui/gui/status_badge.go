//go:build !headless

package gui

import (
	"image/color"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	badgeDotSize      = float32(12)
	badgeHoverTarget  = float32(24)
	badgeTooltipDelay = 180 * time.Millisecond
	badgePulsePeriod  = 900 * time.Millisecond
)

// statusBadge is a coloured dot that can pulse while work is in flight and
// shows a tooltip after the pointer rests on it.
type statusBadge struct {
	widget.BaseWidget

	fill    color.NRGBA
	tooltip string
	dot     *canvas.Circle
	pulse   *fyne.Animation

	handlers statusBadgeHandlers

	hoverTimer *time.Timer
	hoverSeq   atomic.Uint64
	shown      bool
	hoverPos   fyne.Position
}

var _ desktop.Hoverable = (*statusBadge)(nil)

type statusBadgeHandlers struct {
	Show func(string, fyne.Position)
	Move func(fyne.Position)
	Hide func()
}

func newStatusBadge(handlers statusBadgeHandlers) *statusBadge {
	b := &statusBadge{fill: statusStoppedColor, handlers: handlers}
	b.dot = canvas.NewCircle(b.fill)
	b.ExtendBaseWidget(b)
	return b
}

func (b *statusBadge) SetStatus(fill color.NRGBA, tooltip string, pulsing bool) {
	b.fill = fill
	b.tooltip = tooltip
	b.setPulsing(pulsing)
	b.dot.FillColor = fill
	b.dot.Refresh()
	if tooltip == "" {
		b.hideTooltip()
		return
	}
	if b.shown && b.handlers.Show != nil {
		b.handlers.Show(tooltip, b.hoverPos)
	}
}

func (b *statusBadge) setPulsing(on bool) {
	if !on {
		if b.pulse != nil {
			b.pulse.Stop()
			b.pulse = nil
		}
		return
	}
	if b.pulse != nil {
		return
	}
	dim := color.NRGBA{R: b.fill.R / 3, G: b.fill.G / 3, B: b.fill.B / 3, A: b.fill.A}
	b.pulse = canvas.NewColorRGBAAnimation(b.fill, dim, badgePulsePeriod, func(c color.Color) {
		b.dot.FillColor = c
		b.dot.Refresh()
	})
	b.pulse.AutoReverse = true
	b.pulse.RepeatCount = fyne.AnimationRepeatForever
	b.pulse.Start()
}

func (b *statusBadge) MinSize() fyne.Size {
	return fyne.NewSize(badgeHoverTarget, badgeHoverTarget)
}

func (b *statusBadge) CreateRenderer() fyne.WidgetRenderer {
	anchor := canvas.NewRectangle(color.Transparent)
	anchor.SetMinSize(b.MinSize())
	dot := container.NewGridWrap(fyne.NewSize(badgeDotSize, badgeDotSize), b.dot)
	return widget.NewSimpleRenderer(container.NewStack(anchor, container.NewCenter(dot)))
}

func (b *statusBadge) MouseIn(ev *desktop.MouseEvent) {
	b.trackPointer(ev)
	b.scheduleTooltip()
}

func (b *statusBadge) MouseMoved(ev *desktop.MouseEvent) {
	b.trackPointer(ev)
	if b.shown {
		if b.handlers.Move != nil {
			b.handlers.Move(b.hoverPos)
		}
		return
	}
	b.scheduleTooltip()
}

func (b *statusBadge) MouseOut() {
	b.hoverSeq.Add(1)
	if b.hoverTimer != nil {
		b.hoverTimer.Stop()
		b.hoverTimer = nil
	}
	b.hideTooltip()
}

func (b *statusBadge) trackPointer(ev *desktop.MouseEvent) {
	if ev != nil {
		b.hoverPos = ev.AbsolutePosition
	}
}

func (b *statusBadge) scheduleTooltip() {
	if b.tooltip == "" || b.shown || b.hoverTimer != nil {
		return
	}
	seq := b.hoverSeq.Add(1)
	b.hoverTimer = time.AfterFunc(badgeTooltipDelay, func() {
		fyne.Do(func() {
			b.hoverTimer = nil
			if b.hoverSeq.Load() != seq || b.tooltip == "" {
				return
			}
			if b.handlers.Show != nil {
				b.handlers.Show(b.tooltip, b.hoverPos)
			}
			b.shown = true
		})
	})
}

func (b *statusBadge) hideTooltip() {
	if b.shown && b.handlers.Hide != nil {
		b.handlers.Hide()
	}
	b.shown = false
}
