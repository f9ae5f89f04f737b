package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	// Version information (set by build flags)
	version = "dev"
	commit  = "unknown"
)

// sbs-replay serves a recorded SBS-1 capture over TCP the way dump1090 serves
// port 30003, for running the viewer without a receiver.
func main() {
	file := flag.String("f", "capture.sbs", "File containing SBS-1 lines")
	addr := flag.String("addr", ":30003", "Address to listen on")
	rate := flag.Float64("rate", 50, "Lines per second per client (0 = unpaced)")
	loop := flag.Bool("loop", false, "Loop the capture continuously")
	headless := flag.Bool("headless", false, "Log to stderr instead of showing the status view")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sbs-replay version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if _, err := os.Stat(*file); err != nil {
		log.Fatalf("Failed to open capture: %v", err)
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := newServer(*file, *rate, *loop)
	eg, ctx := errgroup.WithContext(ctx)

	if *headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		log.Printf("Replaying %s on %s (rate %.1f lines/s, loop %v)", *file, ln.Addr(), *rate, *loop)
	} else {
		p := tea.NewProgram(newModel(ln.Addr().String(), srv), tea.WithAltScreen(), tea.WithContext(ctx))
		srv.logf = func(format string, args ...any) {
			p.Send(logMsg(fmt.Sprintf(format, args...)))
		}
		eg.Go(func() error {
			defer cancel()
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		})
	}

	eg.Go(func() error {
		return srv.serve(ctx, ln)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Replay failed: %v", err)
	}
}
