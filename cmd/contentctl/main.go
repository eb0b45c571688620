// Package main provides contentctl, the operator CLI of the blog content repository.
// Usage: contentctl <command> [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/samber/do/v2"

	"blog-content/internal/config"
	"blog-content/internal/di"
	"blog-content/internal/observability/logging"
	"blog-content/internal/usecase/content"
	pkgconfig "blog-content/pkg/config"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// env is what every command runs against.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	injector do.Injector
	svc      *content.Service
}

type command struct {
	summary string
	// raw commands get no initialised content service (migrate needs the schema first).
	raw bool
	run func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"init":        {summary: "seed absent reference data", run: runInit},
	"migrate":     {summary: "create (or with -down drop) the remote schema", raw: true, run: runMigrate},
	"list":        {summary: "list posts", run: runList},
	"get":         {summary: "show one post by -id or -slug", run: runGet},
	"create":      {summary: "create a post", run: runCreate},
	"update":      {summary: "update fields of a post", run: runUpdate},
	"delete":      {summary: "delete a post", run: runDelete},
	"categories":  {summary: "list categories", run: runCategories},
	"tags":        {summary: "list tags", run: runTags},
	"export":      {summary: "dump all content as a seed document", run: runExport},
	"publish-due": {summary: "publish scheduled posts whose time has come", run: runPublishDue},
}

// usageError marks bad invocations; they exit with status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	name, cmdArgs := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", name)
		printUsage(stderr)
		return exitUsage
	}

	if err := pkgconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger := logging.NewTextLogger(stderr)

	cfg, err := config.LoadContentConfig()
	if err != nil {
		logger.Error("failed to load content configuration", slog.Any("error", err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	injector := di.NewContainer(cfg, logger)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.Warn("shutdown error", slog.Any("error", err))
		}
	}()

	e := &env{stdout: stdout, stderr: stderr, logger: logger, injector: injector}
	if !cmd.raw {
		e.svc, err = di.ContentService(injector)
		if err == nil {
			err = e.svc.Initialize(ctx)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}

	if err := cmd.run(ctx, e, cmdArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var uerr *usageError
		if errors.As(err, &uerr) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: contentctl <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  contentctl list -status published -limit 5")
	fmt.Fprintln(w, "  contentctl create -title \"Hello\" -excerpt \"Hi\" -content-file post.md -category 1 -tags 1,4")
	fmt.Fprintln(w, "  contentctl export -format yaml > backup.yaml")
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parseFlags parses args and rejects stray positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}
