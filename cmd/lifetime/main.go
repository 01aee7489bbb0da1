package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/funvibe/lifetime/internal/backend"
	"github.com/funvibe/lifetime/internal/config"
	"github.com/funvibe/lifetime/internal/evaluator"
	"github.com/funvibe/lifetime/internal/ledger"
	"github.com/funvibe/lifetime/internal/lexer"
	"github.com/funvibe/lifetime/internal/parser"
	"github.com/funvibe/lifetime/internal/pipeline"
)

// options are the host flags; everything else on the command line is the
// program path.
type options struct {
	trace       bool
	ledger      string
	configPath  string
	maxDepth    int
	nativeCalls bool
	file        string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			if eq := strings.IndexByte(arg, '='); eq >= 0 {
				return arg[eq+1:], nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s needs a value", arg)
			}
			i++
			return args[i], nil
		}

		name := arg
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			name = arg[:eq]
		}
		switch name {
		case "-trace", "--trace":
			opts.trace = true
		case "-native", "--native":
			opts.nativeCalls = true
		case "-ledger", "--ledger":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.ledger = v
		case "-config", "--config":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		case "-max-depth", "--max-depth":
			v, err := value()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("--max-depth expects a positive integer, got %q", v)
			}
			opts.maxDepth = n
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, fmt.Errorf("unknown flag %s", arg)
			}
			if opts.file != "" {
				return nil, fmt.Errorf("unexpected argument %s", arg)
			}
			opts.file = arg
		}
	}
	return opts, nil
}

// loadSettings merges the settings file with the command line.
func loadSettings(opts *options) (*config.Settings, error) {
	var (
		s   *config.Settings
		err error
	)
	switch {
	case opts.configPath != "":
		s, err = config.LoadSettings(opts.configPath)
	case opts.file != "" && opts.file != "-":
		s, err = config.FindSettings(filepath.Dir(opts.file))
	default:
		s = config.DefaultSettings()
	}
	if err != nil {
		return nil, err
	}

	if opts.trace {
		s.Trace = true
	}
	if opts.ledger != "" {
		s.Ledger = opts.ledger
	}
	if opts.maxDepth > 0 {
		s.MaxDepth = opts.maxDepth
	}
	if opts.nativeCalls {
		s.NativeCalls = true
	}
	return s, nil
}

// runPipeline runs one program and returns the process exit code.
func runPipeline(ctx context.Context, sourceCode, filePath string, s *config.Settings) int {
	diag := newDiagWriter(os.Stderr, s.Color)

	runID := uuid.NewString()
	logger := newLogger(os.Stderr, s, runID)

	if filePath != "<stdin>" && !config.IsSourceFile(filePath) {
		logger.Warn().Str("file", filePath).Msg("unrecognized source file extension")
	}

	b := backend.NewTreeWalk()
	b.Configure(s)
	b.Context = ctx
	b.Diag = diag
	if s.Trace {
		b.Observers = append(b.Observers, evaluator.NewLogObserver(logger))
	}

	if s.Ledger != "" {
		l, err := ledger.Open(s.Ledger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
		defer l.Close()
		b.Ledger = l
		b.RunID = runID
	}

	initialContext := pipeline.NewPipelineContext(sourceCode)
	initialContext.FilePath = filePath

	exec := backend.NewExecutionProcessor(b)
	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		exec,
	)
	finalContext := processingPipeline.Run(initialContext)

	if res := exec.Result; res != nil {
		logger.Debug().
			Str("value", res.Value).
			Uint64("allocated", res.Stats.Allocated).
			Uint64("released", res.Stats.Released).
			Int("live", res.Stats.Live).
			Str("ledger_run", res.RunID).
			Msg("run finished")
		if res.Stats.Live != 0 || res.Stats.DoubleReleases != 0 {
			logger.Warn().
				Int("live", res.Stats.Live).
				Uint64("double_releases", res.Stats.DoubleReleases).
				Msg("heap not balanced")
		}
	}

	if len(finalContext.Errors) > 0 {
		for _, err := range finalContext.Errors {
			fmt.Fprintln(diag, err.Error())
		}
		return 1
	}
	return 0
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if os.Getenv("LIFETIME_TEST_MODE") == "1" {
		config.IsTestMode = true
	}

	if handleHelp() {
		return
	}
	if handleFmt() {
		return
	}
	if handleRuns() {
		return
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	sourceCode, err := readInput(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	filePath := "<stdin>"
	if opts.file != "" && opts.file != "-" {
		filePath = opts.file
		if config.IsTestMode {
			filePath = filepath.Base(opts.file)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runPipeline(ctx, sourceCode, filePath, settings)
	stop()
	os.Exit(code)
}

func readInput(path string) (string, error) {
	var input []byte
	var err error

	if path == "" || path == "-" {
		stat, _ := os.Stdin.Stat()
		if path == "" && stat != nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("usage: lifetime <file%s> or pipe from stdin", config.SourceFileExt)
		}
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(input), nil
}

// newLogger builds the trace logger. Without --trace only warnings are
// shown.
func newLogger(out io.Writer, s *config.Settings, runID string) zerolog.Logger {
	level := zerolog.WarnLevel
	if s.Trace {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !colorEnabled(out, s.Color),
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	}
	ctx := zerolog.New(cw).Level(level).With()
	if !config.IsTestMode {
		ctx = ctx.Str("run", runID)
	}
	return ctx.Logger()
}
