// Command nowline prints the portfolio header line in a terminal, polling a
// running backend for the current activity.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emjjkk/portfolio-backend/src/lib/logging"
	"github.com/emjjkk/portfolio-backend/src/lib/presence"
)

type options struct {
	url       string
	timeZone  string
	fetch     time.Duration
	alternate time.Duration
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "nowline",
		Short:         "Print the clock and current activity line",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "http://localhost:3000", "base URL of the portfolio backend")
	flags.StringVar(&opts.timeZone, "tz", "Africa/Kigali", "IANA zone for the clock")
	flags.DurationVar(&opts.fetch, "fetch-interval", presence.DefaultFetchInterval, "how often to poll the activity endpoint")
	flags.DurationVar(&opts.alternate, "alternate-interval", presence.DefaultAlternateInterval, "how often to swap between clock and activity")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	return cmd
}

func run(ctx context.Context, opts options, out io.Writer) error {
	loc, err := time.LoadLocation(opts.timeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", opts.timeZone, err)
	}

	logger, err := logging.New(opts.logLevel, "console")
	if err != nil {
		return err
	}
	defer logger.Sync()

	display := presence.NewDisplay(presence.NewHTTPFetcher(opts.url, nil), presence.Options{
		Location:          loc,
		FetchInterval:     opts.fetch,
		AlternateInterval: opts.alternate,
		Logger:            logger,
		OnEvent: func(ev presence.Event) {
			if ev.Kind != presence.EventLine || !ev.Snapshot.Visible {
				return
			}
			fmt.Fprintln(out, formatLine(ev.Snapshot))
		},
	})

	fmt.Fprintln(out, formatLine(display.Snapshot()))
	if err := display.Start(ctx); err != nil {
		return err
	}
	logger.Debug("polling", zap.String("url", opts.url), zap.String("tz", loc.String()))

	<-ctx.Done()
	display.Stop()
	return nil
}

func formatLine(snap presence.Snapshot) string {
	if snap.Kind == presence.LineClock {
		return "local time: " + snap.Line
	}
	return snap.Line
}
