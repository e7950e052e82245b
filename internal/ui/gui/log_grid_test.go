//go:build !headless

package gui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestANSILogBufferAppendTrimsOldest(t *testing.T) {
	buf := newANSILogBuffer(3)
	require.False(t, buf.Append(""))
	require.True(t, buf.Append("a\nb\n"))
	require.True(t, buf.Append("c\nd\n"))
	require.Equal(t, 3, buf.Len())
	require.Equal(t, "b\nc\nd", buf.PlainText())
}

func TestANSILogBufferPlainTextStripsEscapes(t *testing.T) {
	buf := newANSILogBuffer(0)
	buf.Append("\x1b[31mred\x1b[0m plain\n")
	require.Equal(t, "red plain", buf.PlainText())

	buf.Replace("")
	require.Zero(t, buf.Len())
}

func TestANSILogBufferRowsWrapAndColour(t *testing.T) {
	buf := newANSILogBuffer(0)
	buf.Append("\x1b[32mabcdef\x1b[0m\n\nxy\n")

	rows := buf.Rows(4)
	require.Len(t, rows, 4)

	runes := make([]rune, 0, len(rows[0].Cells))
	for _, cell := range rows[0].Cells {
		runes = append(runes, cell.Rune)
	}
	require.Equal(t, "abcd", string(runes))
	require.Equal(t, ansiBasicColor(2), ansiStyleFromState(applyANSIStyle("32", defaultANSIState())).TextColor())

	require.Len(t, rows[2].Cells, 1, "blank lines keep a placeholder cell")
	require.Equal(t, ' ', rows[2].Cells[0].Rune)
}

func TestGridColumnsClamps(t *testing.T) {
	require.Equal(t, defaultGridCols, gridColumns(0, 8))
	require.Equal(t, minimumGridCols-2, gridColumns(80, 8))
	require.Equal(t, maximumGridCols-2, gridColumns(10000, 8))
	require.Equal(t, 98, gridColumns(800, 8))
}

func TestSplitLogLinesDropsTrailingNewline(t *testing.T) {
	require.Nil(t, splitLogLines(""))
	require.Equal(t, []string{"a", "b"}, splitLogLines("a\r\nb\n"))
}
