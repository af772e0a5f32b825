// Command blogctl is a terminal client for the blog articles API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/quillpress/blog-client/internal/app"
	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/pkg/config"
	"github.com/quillpress/blog-client/internal/ui"
	"github.com/quillpress/blog-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &cli{out: os.Stdout, errOut: os.Stderr, now: time.Now, lookuper: envconfig.OsLookuper()}
	os.Exit(c.run(ctx, os.Args[1:]))
}

// cli holds what every command shares. The application context is built once
// before the first command runs.
type cli struct {
	out      io.Writer
	errOut   io.Writer
	now      func() time.Time
	lookuper envconfig.Lookuper
	// storage replaces the configured backend when set.
	storage ports.KeyValueStore

	app *app.App
}

func (c *cli) run(ctx context.Context, args []string) int {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(context.Background()); cerr != nil {
			log := logger.Get()
			log.Warn().Err(cerr).Msg("close storage")
		}
		c.app = nil
	}
	if err == nil {
		return 0
	}
	c.report(err)
	return 1
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Read, write and curate blog articles from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}

	root.AddCommand(c.articleCommands()...)
	root.AddCommand(c.sessionCommands()...)
	root.AddCommand(c.themeCommand())
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	cfg, err := config.LoadFrom(ctx, c.lookuper)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: c.errOut, App: "blogctl"})

	a, err := app.New(ctx, cfg, app.Options{Out: c.out, Storage: c.storage, Logger: log})
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) palette() ui.Palette {
	if c.app == nil {
		return ui.Light()
	}
	return c.app.View.Palette()
}

// notifiedError wraps a failure the article store already showed to the user.
type notifiedError struct{ err error }

func (e *notifiedError) Error() string { return e.err.Error() }

func (e *notifiedError) Unwrap() error { return e.err }

// notified marks err as already shown. Prompts are never shown by the store.
func notified(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := ui.IsPrompt(err); ok {
		return err
	}
	return &notifiedError{err: err}
}

func (c *cli) report(err error) {
	var shown *notifiedError
	if errors.As(err, &shown) {
		return
	}

	p := c.palette()
	if prompt, ok := ui.IsPrompt(err); ok {
		_, _ = p.Accent.Fprintf(c.errOut, "! %s\n", prompt.Message)
		return
	}
	var ve *ui.ValidationError
	if errors.As(err, &ve) {
		for _, f := range ve.Fields {
			_, _ = p.Error.Fprintf(c.errOut, "✗ %s\n", f.Message)
		}
		return
	}
	_, _ = p.Error.Fprintf(c.errOut, "✗ %s\n", domain.MessageOf(err))
}

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}
