package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unklstewy/adsb-viewer/pkg/feed"
)

// stats is shared between client goroutines and the status view.
type stats struct {
	started time.Time

	clients      atomic.Int64
	totalClients atomic.Int64
	lines        atomic.Int64

	mu       sync.Mutex
	lastLine string
	lastErr  error
}

func (s *stats) setLast(line string) {
	s.mu.Lock()
	s.lastLine = line
	s.mu.Unlock()
}

func (s *stats) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *stats) last() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLine, s.lastErr
}

// server replays a capture file to every client that connects, each client
// getting its own pass through the file.
type server struct {
	path  string
	rate  float64
	loop  bool
	stats *stats

	// logf reports client events; the status view replaces it
	logf func(format string, args ...any)
}

func newServer(path string, rate float64, loop bool) *server {
	return &server{
		path:  path,
		rate:  rate,
		loop:  loop,
		stats: &stats{started: time.Now()},
		logf:  log.Printf,
	}
}

// serve accepts clients until ctx is done.
func (s *server) serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleClient(ctx, conn)
		}()
	}
}

func (s *server) handleClient(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	s.stats.clients.Add(1)
	s.stats.totalClients.Add(1)
	defer s.stats.clients.Add(-1)

	remote := conn.RemoteAddr().String()
	s.logf("Client connected from %s", remote)

	// Closing the connection unblocks a write to a stalled client.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	f, err := os.Open(s.path)
	if err != nil {
		s.stats.setErr(err)
		s.logf("Failed to open capture: %v", err)
		return
	}
	defer f.Close()

	rp := feed.NewReplayer(s.rate, s.loop)
	rp.OnLine = func(n int, line string) {
		s.stats.lines.Add(1)
		s.stats.setLast(line)
	}

	n, err := rp.Copy(ctx, conn, f)
	switch {
	case err == nil:
		s.logf("Finished sending %d lines to %s", n, remote)
	case errors.Is(err, context.Canceled), errors.Is(err, io.ErrClosedPipe), errors.Is(err, net.ErrClosed):
		s.logf("Stopped after %d lines to %s", n, remote)
	default:
		s.stats.setErr(err)
		s.logf("Client %s dropped after %d lines: %v", remote, n, err)
	}
}
