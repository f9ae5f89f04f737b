// Package dashboard runs the live aircraft table: it reads SBS-1 records from
// a feed, folds them into tracks and redraws the affected rows.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/time/rate"

	"github.com/unklstewy/adsb-viewer/internal/log"
	"github.com/unklstewy/adsb-viewer/pkg/adsb"
	"github.com/unklstewy/adsb-viewer/pkg/coordinates"
	"github.com/unklstewy/adsb-viewer/pkg/display"
	"github.com/unklstewy/adsb-viewer/pkg/feed"
	"github.com/unklstewy/adsb-viewer/pkg/track"
)

// headerRow is the screen row of the column titles; aircraft start below it.
const headerRow = 0

// InternalError reports a defect that stopped the dashboard, such as a report
// kind the track store does not handle.
type InternalError struct {
	Value any
	Stack []byte
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Value)
}

// Options configures a Dashboard.
type Options struct {
	// Reference enables the distance and bearing columns when non-nil
	Reference *coordinates.Reference

	// EmphasisWindow is how long a row stays bold after its last contact
	EmphasisWindow time.Duration

	// TrendThreshold separates level flight from climbing or descending
	TrendThreshold float64

	// Decoder parses feed lines (default: a decoder with local time)
	Decoder *adsb.Decoder

	Logger *log.Logger
}

// Stats counts what the dashboard has processed.
type Stats struct {
	Lines          int
	Reports        int
	DecodeFailures int
	Repaints       int
}

// Dashboard owns all state of one viewer session: the tracks, their display
// order and the render backend. It is driven from a single goroutine.
type Dashboard struct {
	source    feed.Source
	backend   display.Backend
	store     *track.Store
	order     *track.Order
	formatter *display.Formatter
	decoder   *adsb.Decoder
	lg        *log.Logger

	header string

	// decodeLog throttles decode failure records on a noisy feed.
	decodeLog rate.Sometimes

	stats Stats
}

// New creates a dashboard reading from source and drawing on backend.
func New(source feed.Source, backend display.Backend, opts Options) *Dashboard {
	decoder := opts.Decoder
	if decoder == nil {
		decoder = &adsb.Decoder{}
	}
	formatter := display.NewFormatter(opts.Reference, opts.EmphasisWindow)

	return &Dashboard{
		source:    source,
		backend:   backend,
		store:     track.NewStore(opts.TrendThreshold),
		order:     track.NewOrder(),
		formatter: formatter,
		decoder:   decoder,
		lg:        opts.Logger.With(slog.String("component", "dashboard")),
		header:    formatter.Header(),
		decodeLog: rate.Sometimes{First: 10, Interval: 10 * time.Second},
	}
}

// Formatter returns the row formatter, e.g. to replace its clock in tests.
func (d *Dashboard) Formatter() *display.Formatter {
	return d.formatter
}

// Stats returns the counters so far.
func (d *Dashboard) Stats() Stats {
	return d.stats
}

// Run takes over the backend and processes the feed until it ends or ctx is
// cancelled, both of which return nil. The backend is torn down exactly once
// on every path once Init has succeeded. A panic inside the loop is returned
// as an *InternalError after teardown.
func (d *Dashboard) Run(ctx context.Context) (err error) {
	if err := d.backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer d.backend.Teardown()
	defer func() {
		if r := recover(); r != nil {
			ie := &InternalError{Value: r, Stack: debug.Stack()}
			d.lg.Error("dashboard stopped by internal error",
				slog.Any("panic", r),
				slog.String("stack", string(ie.Stack)))
			err = ie
		}
	}()

	// Closing the source is the only way to interrupt a blocked read.
	stop := context.AfterFunc(ctx, func() {
		if err := d.source.Close(); err != nil {
			d.lg.Debug("closing feed", slog.Any("error", err))
		}
	})
	defer stop()

	d.drawHeader()
	d.backend.Refresh()

	for {
		line, err := d.source.Next()
		if errors.Is(err, feed.ErrLineTooLong) {
			d.stats.Lines++
			d.skip("", err)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				d.lg.Info("feed ended",
					slog.Int("lines", d.stats.Lines),
					slog.Int("aircraft", d.store.Len()),
					slog.Int("decode_failures", d.stats.DecodeFailures))
				return nil
			}
			return fmt.Errorf("failed to read feed: %w", err)
		}
		d.HandleLine(line)
	}
}

// HandleLine processes one feed line: decode, update the track, redraw.
// Undecodable lines are logged and skipped without touching any state.
func (d *Dashboard) HandleLine(line string) {
	d.stats.Lines++

	report, err := d.decoder.Parse(line)
	if err != nil {
		d.skip(line, err)
		return
	}
	d.stats.Reports++

	d.store.Apply(report)
	index, wasNew := d.order.Touch(report.Aircraft())
	if wasNew {
		d.repaint()
	} else {
		d.drawRow(index)
	}
	d.drawHeader()
	d.backend.Refresh()
}

// skip records a line that produced no report.
func (d *Dashboard) skip(line string, err error) {
	d.stats.DecodeFailures++
	reason := err.Error()
	if de, ok := adsb.IsDecodeError(err); ok {
		reason = de.Reason
	}
	d.decodeLog.Do(func() {
		d.lg.Debug("skipping undecodable line",
			slog.String("line", line),
			slog.String("reason", reason),
			slog.Int("failures", d.stats.DecodeFailures))
	})
}

// repaint redraws every aircraft row in display order.
func (d *Dashboard) repaint() {
	d.stats.Repaints++
	for i := 0; i < d.order.Len(); i++ {
		d.drawRow(i)
	}
}

// drawRow erases and redraws the aircraft at display index i.
func (d *Dashboard) drawRow(i int) {
	t, ok := d.store.Get(d.order.At(i))
	if !ok {
		panic(fmt.Sprintf("dashboard: %s is ordered but has no track", d.order.At(i)))
	}

	y := headerRow + 1 + i
	width, _ := d.backend.Dimensions()
	d.backend.ClearRow(y, width)

	row := d.formatter.Render(t)
	d.backend.WriteRow(y, row.Text, row.Emphasize)
}

func (d *Dashboard) drawHeader() {
	d.backend.WriteRow(headerRow, d.header, false)
}
