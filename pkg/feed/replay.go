package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// Replayer copies a recorded capture line by line, paced by a rate limiter.
type Replayer struct {
	// Limiter paces lines; nil copies as fast as the writer accepts them
	Limiter *rate.Limiter

	// Loop restarts from the beginning at end of input. The source must be
	// an io.Seeker.
	Loop bool

	// OnLine is called after each line is written
	OnLine func(n int, line string)
}

// NewReplayer creates a replayer sending at most linesPerSecond lines per
// second. A non-positive rate disables pacing.
func NewReplayer(linesPerSecond float64, loop bool) *Replayer {
	rp := &Replayer{Loop: loop}
	if linesPerSecond > 0 {
		burst := int(linesPerSecond)
		if burst < 1 {
			burst = 1
		}
		rp.Limiter = rate.NewLimiter(rate.Limit(linesPerSecond), burst)
	}
	return rp
}

// Copy writes every non-blank line of src to dst, newline terminated, until
// src is exhausted or ctx is done. It returns the number of lines written.
func (rp *Replayer) Copy(ctx context.Context, dst io.Writer, src io.Reader) (int, error) {
	n := 0
	for {
		err := rp.copyOnce(ctx, dst, src, &n)
		if err != nil {
			return n, err
		}
		if !rp.Loop {
			return n, nil
		}
		seeker, ok := src.(io.Seeker)
		if !ok {
			return n, errors.New("replay loop needs a seekable source")
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return n, fmt.Errorf("failed to rewind capture: %w", err)
		}
	}
}

func (rp *Replayer) copyOnce(ctx context.Context, dst io.Writer, src io.Reader, n *int) error {
	// No closer: the caller owns src.
	lr := &LineReader{r: bufio.NewReaderSize(src, 4096)}

	for {
		line, err := lr.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrLineTooLong):
			continue
		case err != nil:
			return fmt.Errorf("failed to read capture: %w", err)
		}

		if rp.Limiter != nil {
			if err := rp.Limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(dst, line+"\n"); err != nil {
			return fmt.Errorf("failed to write line %d: %w", *n+1, err)
		}
		*n++
		if rp.OnLine != nil {
			rp.OnLine(*n, line)
		}
	}
}
