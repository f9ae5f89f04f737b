package adsb

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	sky "github.com/skypies/adsb"
)

// ErrDecode is wrapped by every error ParseSBS1 returns.
var ErrDecode = errors.New("sbs1 decode failure")

// DecodeError describes a line that could not be turned into a Report.
type DecodeError struct {
	Line   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// IsDecodeError checks if an error is a decode failure.
func IsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Records other than MSG may be shorter than the 22 BaseStation fields.
const minFields = sky.SBS1Icao24 + 1

// MSG transmission types that map onto typed reports.
const (
	transmissionIdentification   = 1
	transmissionAirbornePosition = 3
	transmissionAirborneVelocity = 4
)

const (
	sbsDateLayout = "2006/01/02"
	sbsTimeLayout = "15:04:05.000"
)

// Clock supplies a timestamp for records that carry none.
type Clock func() time.Time

// Decoder turns SBS-1 lines, as served by dump1090 on port 30003, into reports.
//
// MSG records are parsed by skypies/adsb, which reads timestamps in
// adsb.TimeLocation. The decoder expects that to be left at its default of
// UTC and moves the wall clock into Location itself.
type Decoder struct {
	// Location interprets the receiver's zone-less timestamps (default time.Local)
	Location *time.Location

	// Now is used when a non-MSG record has no generated date/time (default time.Now)
	Now Clock
}

// ParseSBS1 decodes one line using a Decoder with default settings.
func ParseSBS1(line string) (Report, error) {
	var d Decoder
	return d.Parse(line)
}

// Parse decodes a single SBS-1 line.
//
// MSG 1, 3 and 4 become Identification, Position and Track reports when they
// carry the fields those reports need. Every other well-formed record about an
// aircraft, including MSG 1/3/4 lines missing those fields, is an OtherReport.
func (d *Decoder) Parse(line string) (Report, error) {
	raw := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(raw) == "" {
		return nil, d.fail(line, "empty line")
	}

	fields := strings.Split(raw, ",")
	if len(fields) < minFields {
		return nil, d.fail(line, fmt.Sprintf("expected at least %d fields, got %d", minFields, len(fields)))
	}

	kind := strings.TrimSpace(fields[sky.SBS1Message])
	switch kind {
	case "MSG":
		return d.parseMSG(line, raw, fields)
	case "SEL", "ID", "AIR", "STA", "CLK":
	default:
		return nil, d.fail(line, fmt.Sprintf("unknown message type %q", kind))
	}

	id, err := ParseIcaoID(fields[sky.SBS1Icao24])
	if err != nil {
		return nil, d.fail(line, err.Error())
	}
	generated, err := d.timestamp(fields)
	if err != nil {
		return nil, d.fail(line, err.Error())
	}
	return OtherReport{Header: Header{ID: id, Generated: generated}, Kind: kind}, nil
}

func (d *Decoder) parseMSG(line, raw string, fields []string) (Report, error) {
	var m sky.Msg
	if err := m.FromSBS1(raw); err != nil {
		return nil, d.fail(line, err.Error())
	}
	if m.SubType < 1 || m.SubType > 8 {
		return nil, d.fail(line, fmt.Sprintf("invalid transmission type %d", m.SubType))
	}

	id, err := ParseIcaoID(string(m.Icao24))
	if err != nil {
		return nil, d.fail(line, err.Error())
	}
	hdr := Header{ID: id, Generated: d.relocate(m.GeneratedTimestampUTC)}
	other := OtherReport{Header: hdr, Kind: fmt.Sprintf("MSG,%d", m.SubType)}

	switch m.SubType {
	case transmissionIdentification:
		callsign := strings.TrimSpace(printable(m.Callsign))
		if !m.HasCallsign() || callsign == "" {
			return other, nil
		}
		return IdentificationReport{Header: hdr, Identification: callsign}, nil

	case transmissionAirbornePosition:
		// The library has no presence flag for altitude.
		if !m.HasPosition() || strings.TrimSpace(fields[sky.SBS1Altitude]) == "" {
			return other, nil
		}
		lat, lon := m.Position.Lat, m.Position.Long
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, d.fail(line, fmt.Sprintf("position out of range: %f, %f", lat, lon))
		}
		return PositionReport{Header: hdr, Altitude: int(m.Altitude), Latitude: lat, Longitude: lon}, nil

	case transmissionAirborneVelocity:
		if !m.HasGroundSpeed() || !m.HasTrack() {
			return other, nil
		}
		vs := 0
		if m.HasVerticalRate() {
			vs = int(m.VerticalRate)
		}
		return TrackReport{Header: hdr, Velocity: int(m.GroundSpeed), Heading: int(m.Track), VerticalSpeed: vs}, nil
	}

	return other, nil
}

func (d *Decoder) fail(line, reason string) error {
	return &DecodeError{Line: line, Reason: reason}
}

func (d *Decoder) location() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

// relocate reads the wall clock of a UTC-parsed timestamp in the decoder's zone.
func (d *Decoder) relocate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), d.location())
}

func (d *Decoder) timestamp(fields []string) (time.Time, error) {
	if len(fields) <= sky.SBS1TimeGen {
		return d.now(), nil
	}
	date := strings.TrimSpace(fields[sky.SBS1DateGen])
	clock := strings.TrimSpace(fields[sky.SBS1TimeGen])
	if date == "" || clock == "" {
		return d.now(), nil
	}

	t, err := time.ParseInLocation(sbsDateLayout+" "+sbsTimeLayout, date+" "+clock, d.location())
	if err != nil {
		// Some feeders drop the milliseconds.
		t, err = time.ParseInLocation(sbsDateLayout+" 15:04:05", date+" "+clock, d.location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q %q", date, clock)
		}
	}
	return t, nil
}

func (d *Decoder) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// printable drops control and other non-printing runes.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}
