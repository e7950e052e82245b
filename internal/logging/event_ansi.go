package logging

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var forceLipglossColorOnce sync.Once

func ensureLipglossColorOutput() {
	forceLipglossColorOnce.Do(func() {
		lipgloss.SetColorProfile(termenv.TrueColor)
	})
}

var (
	tsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	msgStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	sepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func levelBadge(level slog.Level) (string, lipgloss.Style) {
	switch {
	case level >= slog.LevelError:
		return "ERROR", badgeStyle.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160"))
	case level >= slog.LevelWarn:
		return "WARN", badgeStyle.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214"))
	case level >= slog.LevelInfo:
		return "INFO", badgeStyle.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("42"))
	default:
		return "DEBUG", badgeStyle.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("61"))
	}
}

// FormatEventANSI renders one event with lipgloss styling. Structured
// fields are drawn as bordered JSON blocks below the line.
func FormatEventANSI(event Event) string {
	ensureLipglossColorOutput()
	ts := tsStyle.Render(event.Time.Format("15:04:05.000"))
	label, style := levelBadge(event.Level)
	line := lipgloss.JoinHorizontal(lipgloss.Center, ts, " ", style.Render(label), " ", msgStyle.Render(event.Message))
	if len(event.Fields) == 0 {
		return line + "\n"
	}

	inline := make([]string, 0, len(event.Fields))
	var blocks []string
	for _, key := range orderedFieldKeys(event.Fields) {
		if pretty, ok := prettyJSONString(event.Fields[key]); ok {
			blocks = append(blocks, renderJSONFieldBlock(key, pretty))
			continue
		}
		inline = append(inline, keyStyle.Render(key)+sepStyle.Render("=")+valStyle.Render(formatFieldValue(event.Fields[key])))
	}
	if len(inline) > 0 {
		line += "  " + strings.Join(inline, " ")
	}
	for _, block := range blocks {
		line += "\n  " + block
	}
	return line + "\n"
}

func renderJSONFieldBlock(key string, pretty string) string {
	header := keyStyle.Render(key) + sepStyle.Render("=")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("245")).
		Padding(0, 1).
		Render(colorizePrettyJSON(pretty))
	return header + "\n" + box
}

func colorizePrettyJSON(pretty string) string {
	lines := strings.Split(pretty, "\n")
	for i, line := range lines {
		lines[i] = colorizeJSONLine(line)
	}
	return strings.Join(lines, "\n")
}

func colorizeJSONLine(line string) string {
	var b strings.Builder
	inString := false
	escaped := false
	for _, r := range line {
		switch {
		case r == '"':
			b.WriteString(tsStyle.Render(`"`))
			if !escaped {
				inString = !inString
			}
			escaped = false
		case inString && r == '\\':
			b.WriteString(valStyle.Render(`\`))
			escaped = !escaped
		case !inString && strings.ContainsRune("{}[]:,", r):
			b.WriteString(tsStyle.Render(string(r)))
			escaped = false
		case r == ' ' || r == '\t':
			b.WriteRune(r)
			escaped = false
		default:
			b.WriteString(valStyle.Render(string(r)))
			escaped = false
		}
	}
	return b.String()
}
