// Package feed provides line-oriented sources of SBS-1 records, either from a
// TCP feed such as dump1090's port 30003 or from any reader.
package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// Feed defaults.
const (
	DefaultHost        = "localhost"
	DefaultPort        = 30003
	DefaultDialTimeout = 5 * time.Second

	// maxLineLength bounds a single record; SBS-1 lines are well under 200 bytes.
	maxLineLength = 64 * 1024
)

// ErrLineTooLong is returned by Next for a line that exceeds the record limit.
// The line is discarded and the next call continues after it.
var ErrLineTooLong = fmt.Errorf("feed line longer than %d bytes", maxLineLength)

// Source yields one record per call.
type Source interface {
	// Next returns the next non-blank line without its terminator, or io.EOF
	// at the end of the stream.
	Next() (string, error)

	// Close releases the source and unblocks a pending Next.
	Close() error
}

// Config describes a TCP feed.
type Config struct {
	Host        string
	Port        int
	DialTimeout time.Duration
	Retry       RetryConfig
}

// DefaultConfig returns a config for the local dump1090 BaseStation port.
func DefaultConfig() Config {
	return Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		DialTimeout: DefaultDialTimeout,
		Retry:       DefaultRetryConfig(),
	}
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Dial connects to the feed, retrying with exponential backoff.
func Dial(ctx context.Context, cfg Config) (Source, error) {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid feed port %d", cfg.Port)
	}

	addr := cfg.Address()
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := RetryWithBackoff(ctx, cfg.Retry, func() (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		return conn, classifyDialError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return NewReader(conn), nil
}

// classifyDialError marks failures that no amount of retrying will fix.
func classifyDialError(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return Permanent(err)
	}
	return err
}

// LineReader is a Source over any byte stream.
type LineReader struct {
	r      *bufio.Reader
	closer io.Closer
}

// NewReader creates a source reading lines from r. If r is an io.Closer,
// Close closes it.
func NewReader(r io.Reader) *LineReader {
	lr := &LineReader{r: bufio.NewReaderSize(r, 4096)}
	if c, ok := r.(io.Closer); ok {
		lr.closer = c
	}
	return lr
}

// Next returns the next non-blank line. A line longer than the limit is
// consumed and reported as ErrLineTooLong; the reader stays usable.
func (lr *LineReader) Next() (string, error) {
	for {
		line, err := lr.readLine()
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, nil
	}
}

func (lr *LineReader) readLine() (string, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		frag, err := lr.r.ReadSlice('\n')
		if !tooLong && len(buf)+len(frag) > maxLineLength {
			tooLong = true
			buf = nil
		}
		if !tooLong {
			buf = append(buf, frag...)
		}

		switch {
		case err == nil:
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong):
			// unterminated last line
		case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			return "", io.EOF
		default:
			return "", err
		}

		if tooLong {
			return "", ErrLineTooLong
		}
		return string(buf), nil
	}
}

// Close closes the underlying stream, if it can be closed.
func (lr *LineReader) Close() error {
	if lr.closer == nil {
		return nil
	}
	return lr.closer.Close()
}
