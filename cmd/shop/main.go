// Command shop is a terminal front end for the storefront backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/and161185/shopfront/internal/app"
	"github.com/and161185/shopfront/internal/config"
	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/format"
	"github.com/and161185/shopfront/internal/route"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// loginHint is printed when a held session expires or a view needs a login.
const loginHint = "session expired or missing, please log in: shop login -e <email> -p <password>"

func usage(w io.Writer) {
	fmt.Fprintf(w, `shop CLI
Usage:
  shop [-api URL] [-timeout 15s] [-debug] <cmd> [args]

Commands:
`)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-22s %s\n", name, commands[name].help)
	}
	fmt.Fprintf(w, "  %-22s %s\n", "version", "print version")
}

// command is one subcommand. view is the storefront path it renders; the
// route guard for that path runs before the handler.
type command struct {
	help string
	view func(args []string) string
	run  func(ctx context.Context, r *runner, args []string) error
}

func at(path string) func([]string) string { return func([]string) string { return path } }

// runner carries what every handler needs.
type runner struct {
	app *app.App
	out io.Writer
	err io.Writer
	fmt *format.Formatter
}

func (r *runner) printJSON(v any) {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (r *runner) println(a ...any) { fmt.Fprintln(r.out, a...) }

func (r *runner) printf(f string, a ...any) { fmt.Fprintf(r.out, f, a...) }

// fail prints err the way a user should see it and returns the exit code.
// An expired session has already been reported by OnSessionExpired.
func (r *runner) fail(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
	case errors.Is(err, errs.ErrNotAuthenticated):
		fmt.Fprintln(r.err, loginHint)
	case errs.Classify(err) == errs.KindTimeout:
		fmt.Fprintln(r.err, "request timed out, try again")
	case errs.Classify(err) == errs.KindNetwork:
		fmt.Fprintln(r.err, "backend unreachable:", err)
	default:
		fmt.Fprintln(r.err, errs.Message(err, ""))
	}
	return 1
}

func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, o app.Options) int {
	global := flag.NewFlagSet("shop", flag.ContinueOnError)
	global.SetOutput(stderr)
	apiURL := global.String("api", o.Config.APIURL, "backend base URL")
	timeout := global.Duration("timeout", o.Config.Timeout, "per-request timeout")
	debug := global.Bool("debug", o.Config.Debug, "debug logging")
	global.Usage = func() { usage(stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() < 1 {
		usage(stderr)
		return 2
	}
	o.Config.APIURL, o.Config.Timeout, o.Config.Debug = *apiURL, *timeout, *debug

	name, rest := global.Arg(0), global.Args()[1:]
	if name == "version" {
		fmt.Fprintf(stdout, "shop %s (%s)\n", version, buildDate)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		usage(stderr)
		return 2
	}
	if err := o.Config.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if o.Logger == nil {
		o.Logger = newLogger(*debug)
		defer func() { _ = o.Logger.Sync() }()
	}
	if o.Navigator == nil {
		o.Navigator = route.NewHistory(route.Home, nil)
	}
	if o.OnSessionExpired == nil {
		o.OnSessionExpired = func() { fmt.Fprintln(stderr, loginHint) }
	}
	a, err := app.New(ctx, o)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer a.Close()

	r := &runner{app: a, out: stdout, err: stderr, fmt: format.New(language.English)}
	if cmd.view != nil {
		if path := cmd.view(rest); path != "" {
			if d := a.Visit(path); !d.Allowed {
				if d.Redirect == route.Home {
					fmt.Fprintln(stderr, "admin access required")
				}
				return 1
			}
		}
	}
	if err := cmd.run(ctx, r, rest); err != nil {
		return r.fail(err)
	}
	return 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, app.Options{Config: cfg})
	stop()
	os.Exit(code)
}
