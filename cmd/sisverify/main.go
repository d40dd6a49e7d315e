// Command sisverify checks exported folder and voting documents against
// the verification codes anchored for them on the blockchain.
//
// Usage:
//
//	sisverify verify  [flags] FILE
//	sisverify inspect [flags] FILE
//	sisverify hash    [-doc FILE] FILE...
//	sisverify code    -category C -type T [-key K] [-version V] field=value...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"github.com/meigma/sisverify"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailed   = 1 // mismatch or local verification failure
	exitUsage    = 2 // bad flags or configuration
	exitNotValid = 3 // the document could not be loaded
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

type env struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e env, args []string) int
}

var commands = []command{
	{"verify", "verify a document against its anchored codes", runVerify},
	{"inspect", "show the contents of a document", runInspect},
	{"hash", "compute SHA-256 hashes of files", runHash},
	{"code", "compute a verification code from field values", runCode},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	e := env{stdout: stdout, stderr: stderr, getenv: getenv}
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(ctx, e, args[1:])
		}
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stdout)
		return exitOK
	}
	fmt.Fprintf(stderr, "sisverify: unknown command %q\n", args[0])
	usage(stderr)
	return exitUsage
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: sisverify <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
}

// globalFlags are shared by commands that load documents.
type globalFlags struct {
	configPath  string
	nodeURL     string
	cacheDir    string
	timeout     time.Duration
	concurrency int
	codeVersion string
	logLevel    string
	noColor     bool
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "YAML config file")
	fs.StringVar(&g.nodeURL, "node-url", "", "override the blockchain node URL")
	fs.StringVar(&g.cacheDir, "cache-dir", "", "cache anchored codes in this directory")
	fs.DurationVar(&g.timeout, "timeout", 0, "HTTP timeout for node requests (e.g. 10s)")
	fs.IntVar(&g.concurrency, "concurrency", 0, "parallel node requests")
	fs.StringVar(&g.codeVersion, "code-version", "", "verification code version suffix")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&g.noColor, "no-color", false, "disable colored output")
}

// config resolves the effective configuration; flags set on the command
// line win over the file and environment.
func (g *globalFlags) config(fs *flag.FlagSet, getenv func(string) string) (Config, error) {
	path := g.configPath
	if path == "" {
		path = getenv(envPrefix + "CONFIG")
	}
	cfg, err := loadConfig(path, getenv)
	if err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "node-url":
			cfg.NodeURL = g.nodeURL
		case "cache-dir":
			cfg.CacheDir = g.cacheDir
		case "timeout":
			cfg.Timeout = g.timeout
		case "concurrency":
			cfg.Concurrency = g.concurrency
		case "code-version":
			cfg.CodeVersion = g.codeVersion
		case "log-level":
			cfg.LogLevel = g.logLevel
		case "no-color":
			cfg.NoColor = g.noColor
		}
	})
	return cfg, cfg.validate()
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newClient builds a verification client from cfg.
func newClient(cfg Config, logger *slog.Logger) (*sisverify.Client, error) {
	opts := []sisverify.Option{
		sisverify.WithLogger(logger),
		sisverify.WithHTTPClient(&nethttp.Client{Timeout: cfg.Timeout}),
		sisverify.WithConcurrency(cfg.Concurrency),
		sisverify.WithCodeVersion(cfg.CodeVersion),
		sisverify.WithHeader("User-Agent", "sisverify"),
	}
	if cfg.NodeURL != "" {
		opts = append(opts, sisverify.WithNodeURL(cfg.NodeURL))
	}
	if cfg.CacheDir != "" {
		opts = append(opts, sisverify.WithCacheDirSize(cfg.CacheDir, cfg.CacheMaxBytes))
	}
	return sisverify.NewClient(opts...)
}

// parseArgs parses args into fs, reporting usage errors to stderr.
func parseArgs(fs *flag.FlagSet, e env, args []string) bool {
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return false
	}
	return true
}

// loadDocument resolves configuration and loads the single FILE argument.
func loadDocument(ctx context.Context, e env, fs *flag.FlagSet, g *globalFlags) (*sisverify.Client, *sisverify.Document, Config, int) {
	if fs.NArg() != 1 {
		fmt.Fprintf(e.stderr, "sisverify %s: expected exactly one FILE argument\n", fs.Name())
		return nil, nil, Config{}, exitUsage
	}
	cfg, err := g.config(fs, e.getenv)
	if err != nil {
		fmt.Fprintf(e.stderr, "sisverify: %v\n", err)
		return nil, nil, cfg, exitUsage
	}
	client, err := newClient(cfg, newLogger(cfg, e.stderr))
	if err != nil {
		fmt.Fprintf(e.stderr, "sisverify: %v\n", err)
		return nil, nil, cfg, exitUsage
	}
	doc, err := client.LoadFile(ctx, fs.Arg(0))
	if err != nil {
		p := newPrinter(e.stdout, cfg.NoColor)
		p.fail("document is not valid: %s", describeLoadError(err))
		return nil, nil, cfg, exitNotValid
	}
	return client, doc, cfg, exitOK
}

func describeLoadError(err error) string {
	switch {
	case errors.Is(err, sisverify.ErrChecksumMismatch):
		return "checksum mismatch, the document was modified (" + err.Error() + ")"
	case errors.Is(err, sisverify.ErrMissingChecksum):
		return "the document has no checksum"
	case errors.Is(err, sisverify.ErrMissingAttachment):
		return "the PDF does not include metadata.json"
	case errors.Is(err, sisverify.ErrInvalidVariant):
		return "unknown document type"
	case errors.Is(err, sisverify.ErrUnsupportedVersion):
		return "unsupported metadata format version"
	default:
		return err.Error()
	}
}
