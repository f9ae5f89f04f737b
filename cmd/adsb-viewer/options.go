package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/unklstewy/adsb-viewer/pkg/config"
	"github.com/unklstewy/adsb-viewer/pkg/coordinates"
)

// errUsage marks a command line the viewer cannot run with.
var errUsage = errors.New("usage error")

// options holds the command line. Zero values mean "not given", so the
// config file and environment decide.
type options struct {
	configPath  string
	host        string
	port        int
	backend     string
	logEnabled  bool
	logLevel    string
	file        string
	replayRate  float64
	showVersion bool

	// reference comes from the optional LAT LON positional arguments
	reference *coordinates.Reference
}

func newFlagSet(o *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("adsb-viewer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.configPath, "config", "configs/config.json", "Path to configuration file")
	fs.StringVar(&o.host, "host", "", "Feed host (default from config: localhost)")
	fs.IntVar(&o.port, "port", 0, "Feed port (default from config: 30003)")
	fs.StringVar(&o.backend, "backend", "", "Display backend: screen or ansi")
	fs.BoolVar(&o.logEnabled, "log", false, "Write a structured log file")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error (implies -log)")
	fs.StringVar(&o.file, "file", "", "Read a recorded SBS-1 capture instead of the network (- for stdin)")
	fs.Float64Var(&o.replayRate, "rate", 0, "Lines per second when reading -file (0 = as fast as possible)")
	fs.BoolVar(&o.showVersion, "version", false, "Show version information")
	fs.Usage = func() {
		fmt.Fprintln(output, "adsb-viewer - live table of aircraft from an SBS-1 (BaseStation) feed")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "USAGE:")
		fmt.Fprintln(output, "  adsb-viewer [options] [LAT LON]")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "LAT LON is the reference location for the distance and bearing columns.")
		fmt.Fprintln(output, "Put -- before them if LAT is negative.")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "OPTIONS:")
		fs.PrintDefaults()
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Press q, Esc or Ctrl+C to quit.")
	}
	return fs
}

// parseArgs parses the command line (without the program name).
func parseArgs(args []string, output io.Writer) (*options, error) {
	o := &options{}
	fs := newFlagSet(o, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 2:
		lat, err := strconv.ParseFloat(fs.Arg(0), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid latitude %q", errUsage, fs.Arg(0))
		}
		lon, err := strconv.ParseFloat(fs.Arg(1), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid longitude %q", errUsage, fs.Arg(1))
		}
		ref, err := coordinates.NewReference(lat, lon)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		o.reference = &ref
	default:
		return nil, fmt.Errorf("%w: expected no positional arguments or LAT LON, got %d", errUsage, fs.NArg())
	}

	if o.replayRate < 0 {
		return nil, fmt.Errorf("%w: -rate must not be negative", errUsage)
	}
	return o, nil
}

// apply overrides config values with the ones given on the command line.
func (o *options) apply(cfg *config.Config) {
	if o.host != "" {
		cfg.Feed.Host = o.host
	}
	if o.port != 0 {
		cfg.Feed.Port = o.port
	}
	if o.backend != "" {
		cfg.Display.Backend = o.backend
	}
	if o.logEnabled {
		cfg.Log.Enabled = true
	}
	if o.logLevel != "" {
		cfg.Log.Enabled = true
		cfg.Log.Level = o.logLevel
	}
	if o.reference != nil {
		cfg.Reference = config.ReferenceConfig{
			Enabled:   true,
			Latitude:  o.reference.Latitude,
			Longitude: o.reference.Longitude,
		}
	}
}
