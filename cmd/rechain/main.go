package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/rechain/pkg/config"
	"github.com/Veraticus/rechain/pkg/display"
)

const (
	name    = "rechain"
	version = "0.1.0"
)

// Exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInterrupt = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// After the first signal, a second one kills the process even if a
		// write to stdout is blocked.
		<-ctx.Done()
		stop()
	}()
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, display.NewStderrReporter(name))
	stop()
	os.Exit(code)
}

// run parses args, executes the filter and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, reporter *display.Reporter) int {
	cfg := config.DefaultConfig()

	var (
		help        bool
		showVersion bool
	)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.StringArrayVarP(&cfg.Patterns, "regex", "e", cfg.Patterns, "Regular expression to match against text (repeatable, applied in order)")
	fs.BoolVarP(&cfg.Multiline, "multiline", "m", false, "Flip split behavior: split files line-by-line, keep URLs whole")
	fs.StringVarP(&cfg.PatternFile, "regex-file", "f", "", "YAML file of patterns applied before any -e patterns")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "HTTP timeout for URLs (0 waits forever)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log diagnostics to stderr")
	fs.BoolVarP(&help, "help", "h", false, "Show help message")
	fs.BoolVarP(&showVersion, "version", "V", false, "Show version")

	if err := fs.Parse(args); err != nil {
		reporter.Error(err)
		_, _ = fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", name)
		return exitUsage
	}

	if help {
		printUsage(stdout, fs)
		return exitOK
	}
	if showVersion {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", name, version)
		return exitOK
	}

	switch fs.NArg() {
	case 0:
		reporter.Errorf("missing FILE_OR_URL")
		_, _ = fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", name)
		return exitUsage
	case 1:
		cfg.Target = fs.Arg(0)
	default:
		reporter.Errorf("unexpected argument %q", fs.Arg(1))
		_, _ = fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", name)
		return exitUsage
	}

	if err := cfg.Finalize(); err != nil {
		reporter.Error(err)
		return exitFailure
	}

	deps, err := NewDependencies(cfg, stdout, stderr)
	if err != nil {
		reporter.Error(err)
		return exitFailure
	}
	defer deps.Close()

	app := NewApplication(deps)
	if err := app.Run(ctx); err != nil {
		reporter.Error(err)
		if errors.Is(err, context.Canceled) {
			return exitInterrupt
		}
		return exitFailure
	}

	return exitOK
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, "%s - filter text from a file or URL through a chain of regular expressions\n", name)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Usage: %s [OPTIONS] FILE_OR_URL\n", name)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Options:")
	_, _ = fmt.Fprint(w, fs.FlagUsages())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Every expression must match for text to be printed. Include a capture group")
	_, _ = fmt.Fprintln(w, "named \"out\", e.g. (?P<out>\\d+), to match the next expressions against only")
	_, _ = fmt.Fprintln(w, "that captured string; the last capture is what gets printed.")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Files are matched as a whole document and URLs line by line unless")
	_, _ = fmt.Fprintln(w, "--multiline is given. Without expressions the text is printed unchanged.")
}
