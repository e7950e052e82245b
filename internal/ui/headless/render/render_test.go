package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestTruncateDisplayWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "Shinjuku", width: 10, want: "Shinjuku"},
		{name: "clipped", in: "Shinjuku", width: 5, want: "Shin…"},
		{name: "one column", in: "Shinjuku", width: 1, want: "…"},
		{name: "zero", in: "Shinjuku", width: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TruncateDisplayWidth(tt.in, tt.width))
		})
	}
}

func TestFrameKeepsContentAndEvenLines(t *testing.T) {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	out := Frame("Start\nLocation: 35.0,139.0", 40, style)
	require.Contains(t, out, "Location: 35.0,139.0")
	lines := strings.Split(out, "\n")
	want := ansi.StringWidth(lines[0])
	for _, line := range lines[1:] {
		require.Equal(t, want, ansi.StringWidth(line), "line %q", line)
	}
}
