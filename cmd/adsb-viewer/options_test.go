package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/unklstewy/adsb-viewer/pkg/config"
)

// TestParseArgs tests flags and the optional LAT LON pair.
func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   bool
		wantUsage bool
		check     func(t *testing.T, o *options)
	}{
		{
			name: "No arguments",
			args: nil,
			check: func(t *testing.T, o *options) {
				if o.reference != nil {
					t.Error("Expected no reference")
				}
				if o.configPath != "configs/config.json" {
					t.Errorf("Unexpected config path %s", o.configPath)
				}
			},
		},
		{
			name: "Reference location",
			args: []string{"51.47", "-0.45"},
			check: func(t *testing.T, o *options) {
				if o.reference == nil || o.reference.Latitude != 51.47 || o.reference.Longitude != -0.45 {
					t.Errorf("Unexpected reference %+v", o.reference)
				}
			},
		},
		{
			name: "Negative latitude after separator",
			args: []string{"-backend", "ansi", "--", "-33.94", "151.17"},
			check: func(t *testing.T, o *options) {
				if o.reference == nil || o.reference.Latitude != -33.94 {
					t.Errorf("Unexpected reference %+v", o.reference)
				}
				if o.backend != "ansi" {
					t.Errorf("Expected ansi backend, got %s", o.backend)
				}
			},
		},
		{
			name: "Flags",
			args: []string{"-host", "radar", "-port", "30005", "-log-level", "debug", "-file", "cap.sbs", "-rate", "20"},
			check: func(t *testing.T, o *options) {
				if o.host != "radar" || o.port != 30005 || o.logLevel != "debug" || o.file != "cap.sbs" || o.replayRate != 20 {
					t.Errorf("Unexpected options %+v", o)
				}
			},
		},
		{name: "Single positional", args: []string{"51.47"}, wantErr: true, wantUsage: true},
		{name: "Three positionals", args: []string{"1", "2", "3"}, wantErr: true, wantUsage: true},
		{name: "Bad latitude", args: []string{"north", "0"}, wantErr: true, wantUsage: true},
		{name: "Latitude out of range", args: []string{"95", "0"}, wantErr: true, wantUsage: true},
		{name: "Negative rate", args: []string{"-rate", "-1"}, wantErr: true, wantUsage: true},
		{name: "Unknown flag", args: []string{"-bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseArgs(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.wantUsage && !errors.Is(err, errUsage) {
				t.Errorf("Expected usage error, got %v", err)
			}
			if tt.check != nil {
				tt.check(t, o)
			}
		})
	}
}

// TestParseArgsHelp tests that -help is reported as flag.ErrHelp.
func TestParseArgsHelp(t *testing.T) {
	if _, err := parseArgs([]string{"-help"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
}

// TestApplyOptions tests that command line values override the config.
func TestApplyOptions(t *testing.T) {
	o, err := parseArgs([]string{"-host", "radar", "-backend", "ansi", "-log-level", "warn", "10", "20"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}

	cfg := config.DefaultConfig()
	o.apply(cfg)

	if cfg.Feed.Host != "radar" || cfg.Feed.Port != 30003 {
		t.Errorf("Unexpected feed %+v", cfg.Feed)
	}
	if cfg.Display.Backend != "ansi" {
		t.Errorf("Expected ansi backend, got %s", cfg.Display.Backend)
	}
	if !cfg.Log.Enabled || cfg.Log.Level != "warn" {
		t.Errorf("Unexpected log %+v", cfg.Log)
	}
	if !cfg.Reference.Enabled || cfg.Reference.Latitude != 10 || cfg.Reference.Longitude != 20 {
		t.Errorf("Unexpected reference %+v", cfg.Reference)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}
