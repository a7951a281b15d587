// Command fquuidgen prints freshly generated UUIDs, one per line.
//
// Usage:
//
//	fquuidgen [-4|-7] [-n count] [-i] [--upper] [--braces] [--source name]
//
// The entropy source defaults to $FQUUID_SOURCE, or crypto when unset.
// Diagnostics go to stderr at the level named by $FQUUID_LOG_LEVEL.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/gnuflag"

	"github.com/Lzww0608/fquuid"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	cancel()
	os.Exit(code)
}

type options struct {
	v4, v7   bool
	count    int
	infinite bool
	upper    bool
	braces   bool
	source   string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	logger := newLogger(stderr, getenv("FQUUID_LOG_LEVEL"))

	opts, err := parseArgs(args, stderr, getenv)
	if errors.Is(err, gnuflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		return exitUsage
	}

	src, closeSrc, err := openSource(opts.source)
	if err != nil {
		logger.Error("open entropy source", "source", opts.source, "error", err)
		return exitError
	}
	defer closeSrc()
	logger.Debug("generating", "source", opts.source, "v7", opts.v7, "count", opts.count, "infinite", opts.infinite)

	gen := fquuid.NewGenerator(fquuid.WithSource(src))
	next := gen.NewV4
	if opts.v7 {
		next = gen.NewV7
	}

	w := bufio.NewWriter(stdout)
	var line [fquuid.CanonicalLen + 3]byte
	for i := 0; opts.infinite || i < opts.count; i++ {
		if ctx.Err() != nil {
			logger.Debug("interrupted", "written", i)
			break
		}
		u, err := next()
		if err != nil {
			w.Flush()
			logger.Error("generate", "error", err)
			return exitError
		}
		if _, err := w.Write(formatLine(line[:0], u, opts.upper, opts.braces)); err != nil {
			logger.Error("write", "error", err)
			return exitError
		}
	}
	if err := w.Flush(); err != nil {
		logger.Error("write", "error", err)
		return exitError
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer, getenv func(string) string) (options, error) {
	var opts options
	defaultSource := getenv("FQUUID_SOURCE")
	if defaultSource == "" {
		defaultSource = "crypto"
	}

	fs := gnuflag.NewFlagSet("fquuidgen", gnuflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.v4, "4", false, "generate UUIDv4 (default)")
	fs.BoolVar(&opts.v7, "7", false, "generate UUIDv7")
	fs.IntVar(&opts.count, "n", 1, "number of UUIDs to print")
	fs.BoolVar(&opts.infinite, "i", false, "print until interrupted")
	fs.BoolVar(&opts.upper, "upper", false, "print hex digits in upper case")
	fs.BoolVar(&opts.braces, "braces", false, "wrap each UUID in {}")
	fs.StringVar(&opts.source, "source", defaultSource, "entropy source: crypto, getrandom or urandom")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fquuidgen [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(true, args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.v4 && opts.v7 {
		return opts, errors.New("-4 and -7 are mutually exclusive")
	}
	if opts.count < 0 {
		return opts, fmt.Errorf("-n must not be negative, got %d", opts.count)
	}
	switch opts.source {
	case "crypto", "getrandom", "urandom":
	default:
		return opts, fmt.Errorf("unknown source %q", opts.source)
	}
	return opts, nil
}

func openSource(name string) (fquuid.Source, func(), error) {
	switch name {
	case "getrandom":
		return fquuid.NewSystemSource(), func() {}, nil
	case "urandom":
		dev, err := fquuid.OpenDeviceSource("/dev/urandom")
		if err != nil {
			return nil, nil, err
		}
		return dev, func() { dev.Close() }, nil
	default:
		return fquuid.DefaultSource, func() {}, nil
	}
}

// formatLine appends u and a newline to dst.
func formatLine(dst []byte, u fquuid.UUID, upper, braces bool) []byte {
	if braces {
		dst = append(dst, '{')
	}
	start := len(dst)
	dst, _ = u.AppendText(dst)
	if upper {
		for i := start; i < len(dst); i++ {
			if c := dst[i]; 'a' <= c && c <= 'f' {
				dst[i] = c - 'a' + 'A'
			}
		}
	}
	if braces {
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
