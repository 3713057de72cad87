package linklog

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const DEFAULT_TIME_FORMAT = "15:04:05.000"

// StyleMap holds one lipgloss style per level, indexable by Level.
type StyleMap [_LVL_MAX_for_checks_only]lipgloss.Style

var DefaultLevelStyles = &StyleMap{
	lipgloss.NewStyle().Foreground(lipgloss.Color("240")),                                            //TRACE
	lipgloss.NewStyle().Foreground(lipgloss.Color("245")),                                            //DEBUG
	lipgloss.NewStyle().Foreground(lipgloss.Color("252")),                                            //INFO
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")),                                            //WARN
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),                                            //ERROR
	lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true).Background(lipgloss.Color("124")), //FATAL
}

// ConsoleBackend renders "time TAG name: message" lines with the level
// tag colored per severity.
type ConsoleBackend struct {
	mtx     sync.Mutex
	out     io.Writer
	name    string
	timefmt string
	styles  *StyleMap
	clock   Clock
}

func NewConsoleBackend(out io.Writer) *ConsoleBackend {
	if out == nil {
		out = io.Discard
	}
	return &ConsoleBackend{
		out:     out,
		timefmt: DEFAULT_TIME_FORMAT,
		styles:  DefaultLevelStyles,
		clock:   realClock{},
	}
}

// ForName sets the logger name shown before the message.
func (b *ConsoleBackend) ForName(name string) *ConsoleBackend {
	b.name = name
	return b
}

// WithTimeFormat sets the timestamp layout. Empty disables timestamps.
func (b *ConsoleBackend) WithTimeFormat(format string) *ConsoleBackend {
	b.timefmt = format
	return b
}

// WithStyles overrides the per-level tag styles.
func (b *ConsoleBackend) WithStyles(styles *StyleMap) *ConsoleBackend {
	if styles != nil {
		b.styles = styles
	}
	return b
}

func (b *ConsoleBackend) Emit(level Level, line string) {
	level = normLevel(level)
	var sb strings.Builder
	if b.timefmt != "" {
		sb.WriteString(b.clock.Now().Format(b.timefmt))
		sb.WriteByte(' ')
	}
	sb.WriteString(b.styles[level].Render(LevelShortNames[level]))
	sb.WriteByte(' ')
	if b.name != "" {
		sb.WriteString(b.name)
		sb.WriteString(": ")
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	b.mtx.Lock()
	defer b.mtx.Unlock()
	io.WriteString(b.out, sb.String())
}

func (b *ConsoleBackend) withClock(clk Clock) *ConsoleBackend {
	b.clock = clk
	return b
}
