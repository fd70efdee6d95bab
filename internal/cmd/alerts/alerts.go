// Package alerts prints one-line status notifications such as startup checks.
package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/devicemap/internal/cmd/emoji"
)

// Level is the severity of an alert.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

var styles = [...]struct{ name, icon, color string }{
	LevelError:   {"error", emoji.Error, "\033[31m"},
	LevelWarning: {"warning", emoji.Warning, "\033[33m"},
	LevelInfo:    {"info", emoji.Info, "\033[36m"},
	LevelSuccess: {"success", emoji.Success, "\033[32m"},
}

const reset = "\033[0m"

func (l Level) known() bool { return l >= 0 && int(l) < len(styles) }

func (l Level) String() string {
	if !l.known() {
		return fmt.Sprintf("unknown(%d)", int(l))
	}
	return styles[l].name
}

// Icon is the glyph printed in front of the message.
func (l Level) Icon() string {
	if !l.known() {
		return emoji.Unknown
	}
	return styles[l].icon
}

func (l Level) color() string {
	if !l.known() {
		return reset
	}
	return styles[l].color
}

// Alert is a one-line status notification with optional indented details.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

func NewError(message string) *Alert   { return New(LevelError, message) }
func NewWarning(message string) *Alert { return New(LevelWarning, message) }
func NewInfo(message string) *Alert    { return New(LevelInfo, message) }
func NewSuccess(message string) *Alert { return New(LevelSuccess, message) }

// WithError appends err to the printed line.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds lines printed indented under the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the icon, message and error on one line.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer prints alerts, colored when writing to a terminal.
type Writer struct {
	out   io.Writer
	color bool
}

// NewWriter creates a Writer on out. Color is used only when out is a
// terminal and noColor is false.
func NewWriter(out io.Writer, noColor bool) *Writer {
	return &Writer{out: out, color: !noColor && isTerminal(out)}
}

// Write prints a on one line followed by its indented details.
func (w *Writer) Write(a *Alert) error {
	line := a.String()
	if w.color {
		line = a.Level.color() + line + reset
	}
	if _, err := fmt.Fprintln(w.out, line); err != nil {
		return err
	}
	for _, detail := range a.Details {
		if _, err := fmt.Fprintf(w.out, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
