package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"harextract/internal/workflow"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusWriter prints aligned "label: value" lines, coloured only on a
// terminal.
type statusWriter struct {
	out    io.Writer
	color  bool
	width  int
	indent string
}

func newStatusWriter(out io.Writer, width int, indent string) *statusWriter {
	return &statusWriter{out: out, color: shouldColorize(out), width: width, indent: indent}
}

func (w *statusWriter) section(title string) {
	fmt.Fprintln(w.out, w.paint(statusInfo, fmt.Sprintf("== %s ==", strings.TrimSpace(title))))
}

// field prints a plain value; info fields are never coloured.
func (w *statusWriter) field(label, value string, kind statusKind) {
	line := fmt.Sprintf("%s%-*s %s", w.indent, w.width, label+":", value)
	if kind == statusInfo {
		fmt.Fprintln(w.out, line)
		return
	}
	fmt.Fprintln(w.out, w.paint(kind, line))
}

// check prints a bracketed verdict such as "[OK] /usr/bin/ffmpeg".
func (w *statusWriter) check(label string, passed bool, detail string) {
	kind, tag := statusOK, "[OK]"
	if !passed {
		kind, tag = statusError, "[ERROR]"
	}
	if detail != "" {
		tag += " " + detail
	}
	w.field(label, tag, kind)
}

func (w *statusWriter) paint(kind statusKind, text string) string {
	if !w.color {
		return text
	}
	var color string
	switch kind {
	case statusOK:
		color = ansiGreen
	case statusWarn:
		color = ansiYellow
	case statusError:
		color = ansiRed
	default:
		color = ansiBlue
	}
	return color + text + ansiReset
}

func outcomeKind(o workflow.Outcome) statusKind {
	switch o {
	case workflow.OutcomeProceeded:
		return statusOK
	case workflow.OutcomeProceededWithWarnings:
		return statusWarn
	default:
		return statusError
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
