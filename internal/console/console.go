// Package console owns the terminal surface of the assistant: styled
// output, markdown rendering for model replies, and the yes/no prompt
// that gates every destructive operation.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196F3"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC107"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935"))
)

// isAffirmative reports whether an answer counts as "yes". Anything
// else, including an empty line, declines.
func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "是", "确认":
		return true
	}
	return false
}

// Console couples an input reader with a styled output writer. The
// zero value is not usable; construct with New.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	renderer *glamour.TermRenderer
}

// New builds a console over the given streams. Passing nil for either
// falls back to stdin/stdout.
func New(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	return &Console{in: bufio.NewReader(in), out: out, renderer: renderer}
}

// Confirm prints the prompt and reads one line. Only an explicit
// affirmative answer returns true; EOF and unrecognized input decline.
func (c *Console) Confirm(prompt string) bool {
	fmt.Fprint(c.out, promptStyle.Render(prompt))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return isAffirmative(line)
}

// ReadLine reads one trimmed input line, returning io.EOF when the
// stream ends.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, promptStyle.Render(prompt))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Banner prints the boxed startup banner.
func (c *Console) Banner(text string) {
	fmt.Fprintln(c.out, bannerStyle.Render(text))
}

// Markdown renders model output as terminal markdown. Rendering
// failures fall back to the raw text so a reply is never lost.
func (c *Console) Markdown(text string) {
	if c.renderer != nil {
		if rendered, err := c.renderer.Render(text); err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
	}
	fmt.Fprintln(c.out, text)
}

// Println writes a plain line.
func (c *Console) Println(text string) {
	fmt.Fprintln(c.out, text)
}

// Printf writes formatted plain text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Warnln writes a warning-styled line.
func (c *Console) Warnln(text string) {
	fmt.Fprintln(c.out, warnStyle.Render(text))
}

// Errorln writes an error-styled line.
func (c *Console) Errorln(text string) {
	fmt.Fprintln(c.out, errorStyle.Render(text))
}

// Writer exposes the underlying output stream for components that
// print their own summaries.
func (c *Console) Writer() io.Writer {
	return c.out
}
