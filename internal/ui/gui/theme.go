//go:build !headless

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	themePrimaryColor = color.NRGBA{R: 72, G: 189, B: 109, A: 255}
	themeFocusColor   = color.NRGBA{R: 72, G: 189, B: 109, A: 120}
)

// loggerTheme tints the default theme green and renders log text in the
// monospace face.
type loggerTheme struct {
	base fyne.Theme
}

func newLoggerTheme() fyne.Theme {
	return &loggerTheme{base: theme.DefaultTheme()}
}

func (t *loggerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return themePrimaryColor
	case theme.ColorNameFocus:
		return themeFocusColor
	}
	return t.base.Color(name, variant)
}

func (t *loggerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *loggerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *loggerTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return t.base.Size(name) - 1
	}
	return t.base.Size(name)
}
