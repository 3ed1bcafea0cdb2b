// Package ui holds terminal output helpers for the command line.
package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color sequences, skipped when stdout is not a terminal.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiRed    = "\033[31m"
)

// Terminal wraps a writer with optional color and quiet handling.
type Terminal struct {
	out   io.Writer
	color bool
	quiet bool
}

// New creates a Terminal writing to stdout. Colors are enabled only
// when stdout is a real terminal.
func New(quiet bool) *Terminal {
	return &Terminal{
		out:   os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
		quiet: quiet,
	}
}

// NewWriter creates a Terminal writing to w without colors, for tests.
func NewWriter(w io.Writer) *Terminal {
	return &Terminal{out: w}
}

// Banner prints the startup banner.
func (t *Terminal) Banner() {
	if t.quiet {
		return
	}
	t.println(t.paint(ansiCyan, "============================================"))
	t.println(t.paint(ansiCyan+ansiBold, "        微博数据采集与分析系统"))
	t.println(t.paint(ansiCyan, "============================================"))
}

// Info prints a normal progress line.
func (t *Terminal) Info(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	t.println(fmt.Sprintf(format, args...))
}

// Success prints a green completion line.
func (t *Terminal) Success(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	t.println(t.paint(ansiGreen, fmt.Sprintf(format, args...)))
}

// Warn prints a yellow warning line.
func (t *Terminal) Warn(format string, args ...interface{}) {
	if t.quiet {
		return
	}
	t.println(t.paint(ansiYellow, fmt.Sprintf(format, args...)))
}

// Error prints a red error line, even in quiet mode.
func (t *Terminal) Error(format string, args ...interface{}) {
	t.println(t.paint(ansiRed, fmt.Sprintf(format, args...)))
}

func (t *Terminal) paint(color, s string) string {
	if !t.color {
		return s
	}
	return color + s + ansiReset
}

func (t *Terminal) println(s string) {
	fmt.Fprintln(t.out, s)
}
