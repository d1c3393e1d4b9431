package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWrapWidth = 100

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// renderMarkdown styles markdown for a terminal. JSON and non-interactive
// output pass through unchanged.
func renderMarkdown(text string) string {
	if IsNonInteractive() || json.Valid([]byte(text)) {
		return text
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth()),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func wrapWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWrapWidth
	}
	return min(width, defaultWrapWidth)
}

func heading(text string) string {
	if IsNonInteractive() {
		return text
	}
	return headingStyle.Render(text)
}
