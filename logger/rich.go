package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Grey   = "\033[90m"
)

var ansiPattern = regexp.MustCompile("\033\\[[0-9;]*m")

// StripANSI removes color escape sequences.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type RichLoggerOptions struct {
	Output     io.Writer
	TimeFormat string
	Level      slog.Level
	// ShowTime and ShowLevel prefix text lines with a timestamp and level name.
	ShowTime     bool
	ShowLevel    bool
	EnableJSON   bool
	EnableColors bool
	CompactJSON  bool
}

func DefaultOptions() *RichLoggerOptions {
	return &RichLoggerOptions{
		Level:        slog.LevelInfo,
		EnableColors: true,
		TimeFormat:   "2006-01-02 15:04:05.000",
		Output:       os.Stdout,
		CompactJSON:  true,
	}
}

// RichHandler is a slog.Handler writing either plain console lines or one
// JSON object per record.
type RichHandler struct {
	opts  *RichLoggerOptions
	mu    *sync.Mutex
	attrs []slog.Attr
}

func NewRichHandler(opts *RichLoggerOptions) *RichHandler {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &RichHandler{
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *RichHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

func (h *RichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := &RichHandler{
		opts:  h.opts,
		mu:    h.mu,
		attrs: make([]slog.Attr, 0, len(h.attrs)+len(attrs)),
	}
	h2.attrs = append(h2.attrs, h.attrs...)
	h2.attrs = append(h2.attrs, attrs...)
	return h2
}

// WithGroup is a no-op, records are flat.
func (h *RichHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *RichHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.EnableJSON {
		return h.handleJSON(record)
	}
	return h.handleText(record)
}

func (h *RichHandler) handleJSON(record slog.Record) error {
	jsonMap := map[string]interface{}{
		"time":  record.Time.Format(h.opts.TimeFormat),
		"level": record.Level.String(),
		"msg":   StripANSI(record.Message),
	}

	add := func(a slog.Attr) bool {
		jsonMap[a.Key] = a.Value.Any()
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(add)

	var (
		data []byte
		err  error
	)
	if h.opts.CompactJSON {
		data, err = json.Marshal(jsonMap)
	} else {
		data, err = json.MarshalIndent(jsonMap, "", "  ")
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(h.opts.Output, string(data))
	return err
}

var levelColors = map[slog.Level]string{
	slog.LevelDebug: Cyan,
	slog.LevelInfo:  Green,
	slog.LevelWarn:  Yellow,
	slog.LevelError: Red,
}

func (h *RichHandler) paint(b *strings.Builder, color, s string) {
	if h.opts.EnableColors {
		b.WriteString(color)
		b.WriteString(s)
		b.WriteString(Reset)
		return
	}
	b.WriteString(s)
}

func (h *RichHandler) handleText(record slog.Record) error {
	var b strings.Builder

	if h.opts.ShowTime {
		h.paint(&b, Blue, record.Time.Format(h.opts.TimeFormat))
		b.WriteString(" ")
	}
	if h.opts.ShowLevel {
		h.paint(&b, levelColors[record.Level]+Bold, fmt.Sprintf("%-5s", strings.ToUpper(record.Level.String())))
		b.WriteString(" ")
	}

	msg := record.Message
	if !h.opts.EnableColors {
		msg = StripANSI(msg)
	}
	b.WriteString(msg)

	attrs := func(a slog.Attr) bool {
		b.WriteString(" ")
		h.paint(&b, Grey, a.Key+"="+a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		attrs(a)
	}
	record.Attrs(attrs)

	_, err := fmt.Fprintln(h.opts.Output, b.String())
	return err
}

func NewRichLogger(opts *RichLoggerOptions) *slog.Logger {
	if opts == nil {
		opts = DefaultOptions()
	}
	return slog.New(NewRichHandler(opts))
}
