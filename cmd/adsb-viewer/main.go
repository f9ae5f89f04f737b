package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/unklstewy/adsb-viewer/internal/dashboard"
	vlog "github.com/unklstewy/adsb-viewer/internal/log"
	"github.com/unklstewy/adsb-viewer/pkg/config"
	"github.com/unklstewy/adsb-viewer/pkg/display"
	"github.com/unklstewy/adsb-viewer/pkg/feed"
)

var (
	// Version information (set by build flags)
	version = "dev"
	commit  = "unknown"
)

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "adsb-viewer: %v\n", err)
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("adsb-viewer version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		log.Fatalf("adsb-viewer: %v", err)
	}
}

// run wires the viewer together. The display has been restored by the time
// it returns.
func run(opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var lg *vlog.Logger
	if cfg.Log.Enabled {
		level, _ := config.ParseLevel(cfg.Log.Level)
		lg, err = vlog.New(level, cfg.Log.Dir)
		if err != nil {
			return err
		}
		defer lg.Close()
	}

	reference, err := cfg.ReferenceLocation()
	if err != nil {
		return err
	}

	if cfg.Display.Backend == display.BackendScreen && !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the screen backend needs a terminal; use -backend ansi")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	source, err := openSource(ctx, eg, opts, cfg, lg)
	if err != nil {
		if ctx.Err() != nil {
			// interrupted while connecting
			return nil
		}
		return err
	}
	defer source.Close()

	backend, err := display.New(cfg.Display.Backend, cancel)
	if err != nil {
		return err
	}

	dash := dashboard.New(source, backend, dashboard.Options{
		Reference:      reference,
		EmphasisWindow: cfg.EmphasisWindow(),
		TrendThreshold: cfg.Display.TrendThreshold,
		Logger:         lg,
	})

	lg.Info("viewer started",
		slog.String("backend", cfg.Display.Backend),
		slog.Bool("reference", reference != nil),
		slog.String("version", version))

	eg.Go(func() error {
		// Stop the replay pump, if any, once the table is gone.
		defer cancel()
		return dash.Run(ctx)
	})

	err = eg.Wait()
	st := dash.Stats()
	lg.Info("viewer stopped",
		slog.Int("lines", st.Lines),
		slog.Int("reports", st.Reports),
		slog.Int("decode_failures", st.DecodeFailures))

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openSource returns the line source selected on the command line: a
// recorded capture, optionally paced through a pipe, or the TCP feed.
func openSource(ctx context.Context, eg *errgroup.Group, opts *options, cfg *config.Config, lg *vlog.Logger) (feed.Source, error) {
	if opts.file == "" {
		fc := cfg.FeedSettings()
		fc.Retry.OnRetry = func(attempt int, err error, delay time.Duration) {
			lg.Warn("feed connect failed",
				slog.String("address", fc.Address()),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
				slog.Duration("retry_in", delay))
		}
		lg.Info("connecting to feed", slog.String("address", fc.Address()))
		return feed.Dial(ctx, fc)
	}

	var in io.ReadCloser = os.Stdin
	if opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("failed to open capture: %w", err)
		}
		in = f
	}
	if opts.replayRate <= 0 {
		return feed.NewReader(in), nil
	}

	pr, pw := io.Pipe()
	replayer := feed.NewReplayer(opts.replayRate, false)
	eg.Go(func() error {
		defer in.Close()
		n, err := replayer.Copy(ctx, pw, in)
		lg.Info("capture replayed", slog.Int("lines", n))
		// A cancelled replay ends the stream like EOF does.
		if errors.Is(err, context.Canceled) || errors.Is(err, io.ErrClosedPipe) {
			err = nil
		}
		pw.CloseWithError(err)
		return err
	})
	return feed.NewReader(pr), nil
}
