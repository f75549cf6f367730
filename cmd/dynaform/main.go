package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitConfigError = 3
)

const usage = `usage: dynaform [-config file] <command> [flags]

commands:
  serve     serve the form over HTTP
  fill      fill the form in the terminal
  render    render the form as HTML or JSON
  openapi   print the OpenAPI document for the form
  values    print the persisted values
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("dynaform", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "Path to config file")
	showVersion := global.Bool("version", false, "Print version and exit")
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := global.Parse(args); err != nil {
		return ExitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "dynaform %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return ExitUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", rest[0], usage)
		return ExitUsage
	}

	app, err := newApp(*configPath, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, app, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitUsage
		}
		app.logger.Error(err.Error())
		fmt.Fprintf(stderr, "dynaform %s: %v\n", rest[0], err)
		return ExitError
	}
	return ExitSuccess
}

type command func(ctx context.Context, app *app, args []string) error

var commands = map[string]command{
	"serve":   serveCommand,
	"fill":    fillCommand,
	"render":  renderCommand,
	"openapi": openapiCommand,
	"values":  valuesCommand,
}
