// Package output handles console messages for imagelinks, including verbose
// notes and an in-place progress line on terminals.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// Output writes user-facing messages. It is meant for a single sequential
// run and is not safe for concurrent use.
type Output struct {
	config Config

	progressActive bool
	progressTotal  int
	progressWidth  int // Length of the last progress line, for clearing
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{
		config: config,
	}
}

// DefaultConfig returns a Config writing to stdout/stderr with TTY detection.
func DefaultConfig() Config {
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Discard returns an Output that drops every message. Useful in tests.
func Discard() *Output {
	return New(Config{Writer: io.Discard, ErrWriter: io.Discard})
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.println(o.config.Writer, "", format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.println(o.config.Writer, "", format, args...)
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, "Warning: ", format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.println(o.config.ErrWriter, "", format, args...)
}

func (o *Output) println(w io.Writer, prefix, format string, args ...interface{}) {
	o.clearProgressLine()
	msg := prefix + fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

// clearProgressLine blanks the current progress line if one is showing.
func (o *Output) clearProgressLine() {
	if o.progressActive && o.config.IsTTY && o.progressWidth > 0 {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", o.progressWidth)+"\r")
		o.progressWidth = 0
	}
}

// progressEnabled reports whether progress lines may be drawn at all.
// Verbose mode prints a line per file instead.
func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int) {
	if !o.progressEnabled() {
		return
	}
	o.progressActive = true
	o.progressTotal = total
	o.progressWidth = 0
}

// UpdateProgress redraws the progress line. An empty label selects
// "Indexing image".
func (o *Output) UpdateProgress(current int, label string) {
	if !o.progressEnabled() || !o.progressActive {
		return
	}
	if label == "" {
		label = "Indexing image"
	}
	line := fmt.Sprintf("%s %d/%d...", label, current, o.progressTotal)
	o.clearProgressLine()
	fmt.Fprint(o.config.Writer, "\r"+line)
	o.progressWidth = len(line)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if !o.progressEnabled() || !o.progressActive {
		return
	}
	o.clearProgressLine()
	o.progressActive = false
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}
