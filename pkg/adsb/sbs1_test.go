package adsb

import (
	"errors"
	"testing"
	"time"
)

// TestParseSBS1 tests decoding of the MSG transmission types the viewer aggregates.
func TestParseSBS1(t *testing.T) {
	d := Decoder{Location: time.UTC}
	generated := time.Date(2024, 5, 1, 12, 34, 56, 789000000, time.UTC)

	t.Run("Identification", func(t *testing.T) {
		r, err := d.Parse("MSG,1,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,RYR12AB ,,,,,,,,,,,0\n")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		id, ok := r.(IdentificationReport)
		if !ok {
			t.Fatalf("Expected IdentificationReport, got %T", r)
		}
		if id.Identification != "RYR12AB" {
			t.Errorf("Expected callsign RYR12AB, got %q", id.Identification)
		}
		if id.Aircraft() != "4CA2D1" {
			t.Errorf("Expected id 4CA2D1, got %s", id.Aircraft())
		}
		if !id.Time().Equal(generated) {
			t.Errorf("Expected time %v, got %v", generated, id.Time())
		}
	})

	t.Run("Airborne position", func(t *testing.T) {
		r, err := d.Parse("MSG,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,37000,,,52.12345,-0.54321,,,0,0,0,0")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		pos, ok := r.(PositionReport)
		if !ok {
			t.Fatalf("Expected PositionReport, got %T", r)
		}
		if pos.Altitude != 37000 {
			t.Errorf("Expected altitude 37000, got %d", pos.Altitude)
		}
		if pos.Latitude != 52.12345 || pos.Longitude != -0.54321 {
			t.Errorf("Expected 52.12345,-0.54321, got %f,%f", pos.Latitude, pos.Longitude)
		}
	})

	t.Run("Airborne velocity", func(t *testing.T) {
		r, err := d.Parse("MSG,4,1,1,A12345,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,451,87,,,-640,,0,0,0,0")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		trk, ok := r.(TrackReport)
		if !ok {
			t.Fatalf("Expected TrackReport, got %T", r)
		}
		if trk.Velocity != 451 || trk.Heading != 87 || trk.VerticalSpeed != -640 {
			t.Errorf("Expected 451/87/-640, got %d/%d/%d", trk.Velocity, trk.Heading, trk.VerticalSpeed)
		}
	})

	t.Run("Velocity without vertical rate", func(t *testing.T) {
		r, err := d.Parse("MSG,4,1,1,A12345,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,451,87,,,,,0,0,0,0")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		trk := r.(TrackReport)
		if trk.Velocity != 451 || trk.Heading != 87 || trk.VerticalSpeed != 0 {
			t.Errorf("Expected 451/87/0, got %d/%d/%d", trk.Velocity, trk.Heading, trk.VerticalSpeed)
		}
	})

	t.Run("Other MSG subtypes", func(t *testing.T) {
		r, err := d.Parse("MSG,6,1,1,A12345,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,,,,,,7700,1,1,0,0")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		other, ok := r.(OtherReport)
		if !ok {
			t.Fatalf("Expected OtherReport, got %T", r)
		}
		if other.Kind != "MSG,6" {
			t.Errorf("Expected kind MSG,6, got %s", other.Kind)
		}
	})

	t.Run("Control characters stripped from callsign", func(t *testing.T) {
		r, err := d.Parse("MSG,1,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,A\x1b[2JB\x07,,,,,,,,,,,0")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		id, ok := r.(IdentificationReport)
		if !ok {
			t.Fatalf("Expected IdentificationReport, got %T", r)
		}
		if id.Identification != "A[2JB" {
			t.Errorf("Expected A[2JB, got %q", id.Identification)
		}
	})

	t.Run("Status record", func(t *testing.T) {
		r, err := d.Parse("STA,,1,1,A12345,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,RM")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if other, ok := r.(OtherReport); !ok || other.Kind != "STA" {
			t.Errorf("Expected STA OtherReport, got %#v", r)
		}
	})

	t.Run("Zero pads short hex idents", func(t *testing.T) {
		r, err := d.Parse("MSG,1,1,1,a1f3,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,N123,,,,,,,,,,,0")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if r.Aircraft() != "00A1F3" {
			t.Errorf("Expected 00A1F3, got %s", r.Aircraft())
		}
	})
}

// TestParseSBS1Incomplete tests that MSG 1/3/4 lines missing their payload
// still count as contacts.
func TestParseSBS1Incomplete(t *testing.T) {
	d := Decoder{Location: time.UTC}

	tests := []struct {
		name string
		line string
		kind string
	}{
		{"Identification without callsign", "MSG,1,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,,,,,,,,,,0", "MSG,1"},
		{"Blank callsign", "MSG,1,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,        ,,,,,,,,,,,0", "MSG,1"},
		{"Position without coordinates", "MSG,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,37000,,,,,,,0,0,0,0", "MSG,3"},
		{"Position without altitude", "MSG,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,,,52.1,0.5,,,0,0,0,0", "MSG,3"},
		{"Velocity without speed", "MSG,4,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,,87,,,0,,0,0,0,0", "MSG,4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := d.Parse(tt.line)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			other, ok := r.(OtherReport)
			if !ok {
				t.Fatalf("Expected OtherReport, got %T", r)
			}
			if other.Kind != tt.kind || other.Aircraft() != "4CA2D1" {
				t.Errorf("Expected %s for 4CA2D1, got %s for %s", tt.kind, other.Kind, other.Aircraft())
			}
		})
	}
}

// TestParseSBS1Location tests that receiver timestamps are read in the decoder's zone.
func TestParseSBS1Location(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*60*60)
	d := Decoder{Location: berlin}

	r, err := d.Parse("MSG,1,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,EZY1,,,,,,,,,,,0")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := time.Date(2024, 5, 1, 10, 34, 56, 789000000, time.UTC)
	if !r.Time().Equal(want) {
		t.Errorf("Expected %v, got %v", want, r.Time().UTC())
	}
}

// TestParseSBS1Missing tests that records without a timestamp fall back to the clock.
func TestParseSBS1Missing(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d := Decoder{Now: func() time.Time { return now }}

	r, err := d.Parse("AIR,,,,4CA2D1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !r.Time().Equal(now) {
		t.Errorf("Expected fallback time %v, got %v", now, r.Time())
	}
}

// TestParseSBS1Failures tests that malformed lines are reported as decode errors.
func TestParseSBS1Failures(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"Empty", ""},
		{"Whitespace", "   \r\n"},
		{"Too few fields", "MSG,3,1"},
		{"Unknown type", "FOO,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789"},
		{"Bad hex", "MSG,1,1,1,XYZ123,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,RYR1,,,,,,,,,,,0"},
		{"Hex too wide", "MSG,1,1,1,1234567,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,RYR1,,,,,,,,,,,0"},
		{"Bad timestamp", "MSG,1,1,1,4CA2D1,1,yesterday,noon,,,RYR1,,,,,,,,,,,0"},
		{"Truncated MSG", "MSG,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,37000"},
		{"Bad transmission type", "MSG,9,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,,,,,,,,,,0"},
		{"MSG without timestamp", "MSG,1,,,4CA2D1,,,,,,EZY1,,,,,,,,,,,"},
		{"Fractional speed", "MSG,4,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,,451.5,87,,,0,,0,0,0,0"},
		{"Position with bad altitude", "MSG,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,high,,,52.1,0.5,,,0,0,0,0"},
		{"Position out of range", "MSG,3,1,1,4CA2D1,1,2024/05/01,12:34:56.789,2024/05/01,12:34:56.790,,37000,,,95.0,0.5,,,0,0,0,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseSBS1(tt.line)
			if err == nil {
				t.Fatalf("Expected decode error, got report %#v", r)
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Expected error to wrap ErrDecode, got: %v", err)
			}
			de, ok := IsDecodeError(err)
			if !ok {
				t.Fatalf("Expected *DecodeError, got %T", err)
			}
			if de.Line != tt.line {
				t.Errorf("Expected line %q preserved, got %q", tt.line, de.Line)
			}
		})
	}
}
