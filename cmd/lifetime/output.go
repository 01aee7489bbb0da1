package main

import (
	"bytes"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/lifetime/internal/config"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// colorEnabled decides whether to colour output written to w.
func colorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// diagWriter writes diagnostic lines, coloured red on terminals.
type diagWriter struct {
	out   io.Writer
	color bool
}

func newDiagWriter(out io.Writer, mode string) *diagWriter {
	return &diagWriter{out: out, color: colorEnabled(out, mode)}
}

func (w *diagWriter) Write(p []byte) (int, error) {
	if !w.color {
		return w.out.Write(p)
	}
	var buf bytes.Buffer
	for _, line := range bytes.SplitAfter(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		body := bytes.TrimSuffix(line, []byte("\n"))
		buf.WriteString(ansiRed)
		buf.Write(body)
		buf.WriteString(ansiReset)
		if len(body) < len(line) {
			buf.WriteByte('\n')
		}
	}
	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
