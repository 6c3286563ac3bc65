package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/junction"
	"github.com/xy-planning-network/junction/logger"
	"github.com/xy-planning-network/junction/manifest"
	"github.com/xy-planning-network/junction/route"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorMsg(os.Stderr, "%s", err)
		os.Exit(1)
	}
}

// rootOptions holds the flags every command shares.
type rootOptions struct {
	manifest string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := new(rootOptions)

	cmd := &cobra.Command{
		Use:   "junction",
		Short: "Resolve and navigate declarative route trees",
		Long: `Junction resolves destinations against a tree of routes
declared in a TOML manifest and keeps a navigation history of the calls it dispatches.

Use it to inspect a manifest, rehearse a sequence of navigations
or serve the HTTP control surface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.manifest, "manifest", "m", os.Getenv("ROUTE_MANIFEST"), "Route manifest to load")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log resolution details")

	cmd.AddCommand(
		routesCmd(opts),
		pathCmd(opts),
		resolveCmd(opts),
		navigateCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)

	return cmd
}

func (o *rootOptions) loadManifest() (manifest.Manifest, error) {
	if o.manifest == "" {
		return manifest.Manifest{}, fmt.Errorf("%w: --manifest or ROUTE_MANIFEST", junction.ErrMissingData)
	}
	return manifest.LoadFile(o.manifest)
}

// router builds the manifest's routes.
// Every handler echoes the calls it receives to w.
func (o *rootOptions) router(w, errw io.Writer) (*route.Router, error) {
	m, err := o.loadManifest()
	if err != nil {
		return nil, err
	}

	handlers := make(manifest.Handlers)
	for _, name := range m.HandlerNames() {
		handlers[name] = echo(w, name)
	}

	return m.Build(handlers, route.WithLogger(o.logger(errw)))
}

func (o *rootOptions) logger(w io.Writer) logger.Logger {
	lvl := logger.LogLevelError
	if o.verbose {
		lvl = logger.LogLevelDebug
	}
	return logger.New(logger.WithLevel(lvl), logger.WithLogger(log.New(w, "", 0)))
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	green.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	yellow.Fprint(w, "⚠ ")
	fmt.Fprintf(w, format+"\n", args...)
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	red.Fprint(w, "✗ ")
	fmt.Fprintf(w, format+"\n", args...)
}
