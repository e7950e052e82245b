package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"gpslogger/internal/runstatus"
	"gpslogger/internal/ui/headless/theme"
)

const (
	minComponentWidth = 1
	scrollbarMinThumb = 0
)

var tabLabels = [tabCount]string{
	TabLog:      " Log ",
	TabEvents:   " Events ",
	TabSettings: " Settings ",
}

func RenderTabs(activeTab int, hoverZone string) string {
	parts := make([]string, 0, tabCount)
	for tab := range tabCount {
		id := tabZone(tab)
		style := theme.TabInactiveStyle
		switch {
		case tab == activeTab:
			style = theme.TabActiveStyle
		case hoverZone == id:
			style = theme.TabHoverStyle
		}
		parts = append(parts, zone.Mark(id, style.Render(tabLabels[tab])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

// RenderStatus colors the tracker status. While waiting for a fix the dot
// pulses with the animation phase.
func RenderStatus(status string, phase int) string {
	switch runstatus.Key(status) {
	case runstatus.KeyLocating:
		dot := lipgloss.NewStyle().Foreground(theme.PulseColor(phase)).Render("●")
		return dot + " " + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(status)
	case runstatus.KeyWaiting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("● " + status)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("○ " + status)
	}
}

func RenderButton(id string, label string, focused bool, hovered bool, disabled bool) string {
	style := theme.ButtonStyle
	switch {
	case disabled && focused:
		style = theme.ButtonDisabledFocusedStyle
	case disabled:
		style = theme.ButtonDisabledStyle
	case focused:
		style = theme.ButtonFocusedStyle
	case hovered:
		style = theme.ButtonHoverStyle
	}
	return zone.Mark(id, style.Render(label))
}

// RenderToggle draws the start/stop pair. Only the half that can be
// pressed is highlighted.
func RenderToggle(id string, tracking bool, focused bool, hovered bool) string {
	start := theme.SegmentOnStyle.Render("Start")
	stop := theme.SegmentOffStyle.Render("Stop")
	if tracking {
		start = theme.SegmentOffStyle.Render("Start")
		stop = theme.SegmentOnStyle.Render("Stop")
	}
	content := start + theme.SegmentBaseStyle.Render("|") + stop
	style := theme.ButtonStyle
	switch {
	case focused:
		style = theme.ButtonFocusedStyle
	case hovered:
		style = theme.ButtonHoverStyle
	}
	return zone.Mark(id, style.Render(content))
}

func RenderActionsRow(segments []string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = minComponentWidth
	}
	lines := make([]string, 0, len(segments))
	rowParts := make([]string, 0, len(segments))
	joinRow := func(parts []string) string {
		if len(parts) == 0 {
			return ""
		}
		row := parts[0]
		for i := 1; i < len(parts); i++ {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, " ", parts[i])
		}
		return row
	}
	for _, seg := range segments {
		if len(rowParts) == 0 {
			rowParts = append(rowParts, seg)
			continue
		}
		candidateParts := append(append([]string(nil), rowParts...), seg)
		if lipgloss.Width(joinRow(candidateParts)) <= maxWidth {
			rowParts = candidateParts
			continue
		}
		lines = append(lines, joinRow(rowParts))
		rowParts = []string{seg}
	}
	if len(rowParts) > 0 {
		lines = append(lines, joinRow(rowParts))
	}
	return strings.Join(lines, "\n")
}

func WithScrollBar(content string, width int, height int, percent float64) string {
	if height <= 0 {
		return content
	}
	width = max(width, minComponentWidth)
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	thumb := max(int(percent*float64(height-1)), scrollbarMinThumb)
	if thumb >= height {
		thumb = height - 1
	}
	barInactive := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("┊")
	barActive := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("▯")

	out := make([]string, 0, height)
	for i := range height {
		bar := barInactive
		if i == thumb {
			bar = barActive
		}
		text := ansi.Cut(lines[i], 0, width)
		if pad := width - ansi.StringWidth(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		out = append(out, text+" "+bar)
	}
	return strings.Join(out, "\n")
}
