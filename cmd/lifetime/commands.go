package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/funvibe/lifetime/internal/config"
	"github.com/funvibe/lifetime/internal/ledger"
	"github.com/funvibe/lifetime/internal/lexer"
	"github.com/funvibe/lifetime/internal/parser"
	"github.com/funvibe/lifetime/internal/pipeline"
	"github.com/funvibe/lifetime/internal/prettyprinter"
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  lifetime [flags] <file%[1]s>   run a program (reads stdin when no file or "-")
  lifetime fmt <file%[1]s>       print the program in canonical form
  lifetime runs <ledger.db>     list runs recorded in a ledger
  lifetime help                 show this help

Flags:
  --trace            log scope and ownership events to stderr
  --ledger <db>      record ownership events in an SQLite ledger
  --config <yaml>    settings file (default: %[2]s next to the program)
  --max-depth <n>    evaluation depth limit (default %[3]d)
  --native           allow programs to call builtins such as puts
`, config.SourceFileExt, config.SettingsFileName, config.DefaultMaxDepth)
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "help", "-help", "--help", "-h":
		printUsage(os.Stdout)
		return true
	}
	return false
}

// handleFmt prints the canonical form of a program. Exit status 1 on
// compile errors.
func handleFmt() bool {
	if len(os.Args) < 2 || os.Args[1] != "fmt" {
		return false
	}
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s fmt <file>\n", os.Args[0])
		os.Exit(2)
	}

	path := os.Args[2]
	source, err := readInput(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path
	printer := pipeline.ProcessorFunc(func(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
		if !ctx.HasErrors() {
			fmt.Print(prettyprinter.Print(ctx.AstRoot))
		}
		return ctx
	})
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, printer).Run(ctx)
	if ctx.HasErrors() {
		for _, err := range ctx.Errors {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
	return true
}

// handleRuns lists the runs stored in a ledger.
func handleRuns() bool {
	if len(os.Args) < 2 || os.Args[1] != "runs" {
		return false
	}
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s runs <ledger.db>\n", os.Args[0])
		os.Exit(2)
	}

	if err := listRuns(os.Stdout, os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return true
}

// listRuns writes one table row per recorded run. The ledger is closed
// before returning.
func listRuns(w io.Writer, path string) error {
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	runs, err := l.Runs()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tFILE\tSTARTED\tALLOCATED\tRELEASED\tLIVE\tVALUE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.File, r.StartedAt, r.Allocated, r.Released, r.Live, r.Value)
	}
	return tw.Flush()
}
