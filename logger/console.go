package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Console prints human oriented status lines on top of a slog logger.
type Console struct {
	Logger    *slog.Logger
	Out       io.Writer
	Colorized bool
	JSON      bool
}

func NewConsole(opts *RichLoggerOptions) *Console {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Console{
		Logger:    NewRichLogger(opts),
		Out:       opts.Output,
		Colorized: opts.EnableColors && !opts.EnableJSON,
		JSON:      opts.EnableJSON,
	}
}

func (c *Console) color(code, msg string) string {
	if !c.Colorized {
		return msg
	}
	return code + msg + Reset
}

func (c *Console) StartTimer(name string) *Timer {
	return &Timer{
		Name:      name,
		StartTime: time.Now(),
		Console:   c,
	}
}

// Success prints a green line.
func (c *Console) Success(format string, args ...interface{}) {
	c.Logger.Info(c.color(Green, "✓ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Info(format string, args ...interface{}) {
	c.Logger.Info(c.color(Blue, "ℹ "+fmt.Sprintf(format, args...)))
}

// Log prints a line in the terminal's default color.
func (c *Console) Log(format string, args ...interface{}) {
	c.Logger.Info(fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...interface{}) {
	c.Logger.Warn(c.color(Yellow, "⚠ "+fmt.Sprintf(format, args...)))
}

// Error prints a red line.
func (c *Console) Error(format string, args ...interface{}) {
	c.Logger.Error(c.color(Red, "✖ "+fmt.Sprintf(format, args...)))
}

// Header prints label centered in a grey banner of DefaultBannerWidth.
func (c *Console) Header(label string) {
	c.Logger.Info(c.color(Grey, Banner(label, DefaultBannerWidth)))
}

// Blank prints an empty line. It is dropped in JSON mode.
func (c *Console) Blank() {
	if c.JSON {
		return
	}
	fmt.Fprintln(c.Out)
}

func (c *Console) NewTable(headers []string) *Table {
	return NewTable(headers, c.Out)
}

func (c *Console) Box(title string, content string) {
	lines := strings.Split(content, "\n")
	maxWidth := len(title)

	for _, line := range lines {
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}

	maxWidth += 4

	fmt.Fprintln(c.Out, "┌─"+title+"─"+strings.Repeat("─", maxWidth-len(title)-2)+"┐")
	for _, line := range lines {
		fmt.Fprintln(c.Out, "│ "+line+strings.Repeat(" ", maxWidth-len(line))+" │")
	}
	fmt.Fprintln(c.Out, "└"+strings.Repeat("─", maxWidth+2)+"┘")
}
