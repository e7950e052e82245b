//go:build !headless

package gui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	sliderToggleWidth  = float32(44)
	sliderToggleHeight = float32(24)
	sliderThumbInset   = float32(2)
	sliderSlideTime    = 120 * time.Millisecond
)

var sliderTrackOffColor = color.NRGBA{R: 115, G: 115, B: 115, A: 255}

// sliderToggle is a switch-style boolean control. The thumb slides between
// ends when toggled by the user and jumps when set programmatically.
type sliderToggle struct {
	widget.DisableableWidget

	Checked   bool
	OnChanged func(bool)

	track *canvas.Rectangle
	thumb *canvas.Circle
	slide *fyne.Animation
}

func newSliderToggle(onChanged func(bool)) *sliderToggle {
	t := &sliderToggle{
		OnChanged: onChanged,
		track:     canvas.NewRectangle(sliderTrackOffColor),
		thumb:     canvas.NewCircle(color.NRGBA{R: 245, G: 245, B: 245, A: 255}),
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *sliderToggle) SetChecked(checked bool) {
	if t.Checked == checked {
		return
	}
	t.Checked = checked
	if t.OnChanged != nil {
		t.OnChanged(checked)
	}
	t.Refresh()
}

func (t *sliderToggle) MinSize() fyne.Size {
	return fyne.NewSize(sliderToggleWidth, sliderToggleHeight)
}

func (t *sliderToggle) Tapped(*fyne.PointEvent) {
	if t.Disabled() {
		return
	}
	from := t.thumbPos(t.Size())
	t.SetChecked(!t.Checked)
	to := t.thumbPos(t.Size())
	if t.slide != nil {
		t.slide.Stop()
	}
	t.slide = canvas.NewPositionAnimation(from, to, sliderSlideTime, t.thumb.Move)
	t.slide.Start()
}

func (t *sliderToggle) TappedSecondary(*fyne.PointEvent) {}

func (t *sliderToggle) trackHeight(size fyne.Size) float32 {
	return min(max(size.Height, 16), sliderToggleHeight)
}

func (t *sliderToggle) thumbDiameter(size fyne.Size) float32 {
	return max(t.trackHeight(size)-2*sliderThumbInset, 10)
}

func (t *sliderToggle) thumbPos(size fyne.Size) fyne.Position {
	height := t.trackHeight(size)
	width := max(size.Width, sliderToggleWidth)
	d := t.thumbDiameter(size)
	x := sliderThumbInset
	if t.Checked {
		x = width - d - sliderThumbInset
	}
	return fyne.NewPos(x, (height-d)/2)
}

func (t *sliderToggle) CreateRenderer() fyne.WidgetRenderer {
	return &sliderToggleRenderer{toggle: t, objs: []fyne.CanvasObject{t.track, t.thumb}}
}

type sliderToggleRenderer struct {
	toggle *sliderToggle
	objs   []fyne.CanvasObject
}

func (r *sliderToggleRenderer) Layout(size fyne.Size) {
	t := r.toggle
	height := t.trackHeight(size)
	t.track.CornerRadius = height / 2
	t.track.Resize(fyne.NewSize(max(size.Width, sliderToggleWidth), height))
	t.track.Move(fyne.NewPos(0, 0))

	d := t.thumbDiameter(size)
	t.thumb.Resize(fyne.NewSize(d, d))
	if t.slide == nil {
		t.thumb.Move(t.thumbPos(size))
	}
}

func (r *sliderToggleRenderer) MinSize() fyne.Size {
	return r.toggle.MinSize()
}

func (r *sliderToggleRenderer) Refresh() {
	t := r.toggle
	t.slide = nil
	r.Layout(t.Size())
	switch {
	case t.Disabled():
		t.track.FillColor = theme.Color(theme.ColorNameDisabledButton)
	case t.Checked:
		t.track.FillColor = theme.Color(theme.ColorNamePrimary)
	default:
		t.track.FillColor = sliderTrackOffColor
	}
	t.thumb.FillColor = theme.Color(theme.ColorNameForeground)
	canvas.Refresh(t.track)
	canvas.Refresh(t.thumb)
}

func (r *sliderToggleRenderer) Objects() []fyne.CanvasObject {
	return r.objs
}

func (r *sliderToggleRenderer) Destroy() {}
