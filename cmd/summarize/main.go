// Command summarize summarizes meeting files from the command line or from a
// watched inbox folder.
package main

import (
	"context"
	stdErrors "errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/app"
	ucerrors "github.com/johnquangdev/meeting-summarizer/internal/usecase/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/watcher"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
	"github.com/johnquangdev/meeting-summarizer/pkg/jwt"
)

// Exit codes
const (
	exitOK           = 0
	exitFailure      = 1
	exitNoTranscript = 2
)

type options struct {
	title      string
	text       string
	format     string
	save       bool
	transcript bool
	watchDir   string
	concurrent int
	issueToken string
	files      []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.title, "title", "", "meeting title")
	fs.StringVar(&opts.text, "text", "", "transcript text, used when no files are given")
	fs.StringVar(&opts.format, "format", formatYAML, "output format: yaml or json")
	fs.BoolVar(&opts.save, "save", false, "save the result to the configured database")
	fs.BoolVar(&opts.transcript, "transcript", false, "include the transcript in the output")
	fs.StringVar(&opts.watchDir, "watch", "", "watch a folder and write <name>.summary.yaml next to every new file")
	fs.IntVar(&opts.concurrent, "concurrency", 2, "files summarized at once in watch mode")
	fs.StringVar(&opts.issueToken, "issue-token", "", "print an API token for the given subject and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: summarize [flags] [file ...]   (use - to read stdin)")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()

	if opts.format != formatYAML && opts.format != formatJSON {
		return nil, fmt.Errorf("unknown -format %q", opts.format)
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if stdErrors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitFailure
	}

	if opts.issueToken != "" {
		return issueToken(cfg, opts.issueToken, stdout, stderr)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()

	// the CLI owns stdout; bootstrap progress goes to stderr
	log.SetOutput(stderr)
	if !opts.save {
		cfg.Database.Driver = "memory"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize: %v\n", err)
		return exitFailure
	}
	defer a.Close(context.Background())

	if opts.watchDir != "" {
		return watch(ctx, a, opts, stderr)
	}

	in, err := buildInput(opts, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	return summarizeOnce(ctx, a.Meetings, cfg, opts, in, stdout, stderr)
}

func issueToken(cfg *config.Config, subject string, stdout, stderr io.Writer) int {
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(stderr, "JWT_SECRET is not set")
		return exitFailure
	}
	token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer).Generate(subject)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to issue token: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, token)
	return exitOK
}

// buildInput reads the file arguments; "-" reads stdin as text
func buildInput(opts *options, stdin io.Reader) (meeting.Input, error) {
	in := meeting.Input{Title: opts.title, Text: opts.text}
	for _, name := range opts.files {
		if name == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return in, fmt.Errorf("failed to read stdin: %w", err)
			}
			in.Files = append(in.Files, ingest.Source{Name: "stdin.txt", Data: data})
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", name, err)
		}
		in.Files = append(in.Files, ingest.Source{Name: filepath.Base(name), Data: data})
	}
	if in.Title == "" && len(opts.files) == 1 && opts.files[0] != "-" {
		in.Title = titleFromPath(opts.files[0])
	}
	return in, nil
}

func summarizeOnce(ctx context.Context, svc meeting.Service, cfg *config.Config, opts *options, in meeting.Input, stdout, stderr io.Writer) int {
	ctx, cancel := jobcontext.Begin(ctx, jobcontext.KindCLI, cfg.Server.RequestTimeout)
	defer cancel()

	process := svc.Summarize
	if opts.save {
		process = svc.Process
	}
	result, err := process(ctx, in)
	if err != nil {
		if stdErrors.Is(err, ucerrors.ErrEmptyTranscript) {
			fmt.Fprintln(stderr, "No transcript found")
			return exitNoTranscript
		}
		fmt.Fprintf(stderr, "Failed to summarize: %v\n", err)
		return exitFailure
	}

	out, err := render(result, opts.format, opts.transcript)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to render result: %v\n", err)
		return exitFailure
	}
	stdout.Write(out)
	return exitOK
}

func watch(ctx context.Context, a *app.App, opts *options, stderr io.Writer) int {
	handle := func(ctx context.Context, path string) error {
		return summarizeFile(ctx, a.Meetings, a.Config, opts.save, path, a.Logger)
	}

	w, err := watcher.New(opts.watchDir, handle, ingest.Supported, watcher.DefaultDebounce, opts.concurrent, a.Logger)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to watch %s: %v\n", opts.watchDir, err)
		return exitFailure
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && !stdErrors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Watcher stopped: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// summarizeFile summarizes one settled inbox file and writes the YAML next to it
func summarizeFile(ctx context.Context, svc meeting.Service, cfg *config.Config, save bool, path string, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx, cancel := jobcontext.Begin(ctx, jobcontext.KindWatch, cfg.Server.RequestTimeout)
	defer cancel()

	in := meeting.Input{
		Title: titleFromPath(path),
		Files: []ingest.Source{{Name: filepath.Base(path), Data: data}},
	}
	process := svc.Summarize
	if save {
		process = svc.Process
	}
	result, err := process(ctx, in)
	if err != nil {
		return err
	}

	out, err := render(result, formatYAML, false)
	if err != nil {
		return err
	}
	target := summaryPath(path)
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if logger != nil {
		logger.Info("📝 Summary written", zap.String("path", target))
	}
	return nil
}

// summaryPath maps notes/standup.txt to notes/standup.summary.yaml
func summaryPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".summary.yaml"
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
