package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const startMessage = "Play something on your piano..."

// Terminal shows each chord as a swatch in its first color.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	prompting bool
	started   bool
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Prompt prints the start message shown until the first note. Once playing
// has started it prints nothing.
func (t *Terminal) Prompt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	fmt.Fprint(t.out, lipgloss.NewStyle().Faint(true).Render(startMessage))
	t.prompting = true
}

// Start clears the start message.
func (t *Terminal) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = true
	if !t.prompting {
		return
	}
	// carriage return + erase line
	fmt.Fprint(t.out, "\r\x1b[2K")
	t.prompting = false
}

func (t *Terminal) Show(label string, background colorful.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, Swatch(label, background))
}

func Swatch(label string, background colorful.Color) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		Background(lipgloss.Color(background.Hex())).
		Foreground(lipgloss.Color(textColor(background)))
	return style.Render(label)
}

func textColor(background colorful.Color) string {
	l, _, _ := background.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}
