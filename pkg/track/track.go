// Package track aggregates decoded surveillance reports into per-aircraft
// state and keeps the display order of first contact.
package track

import (
	"time"

	"github.com/unklstewy/adsb-viewer/pkg/adsb"
)

// Trend is the climb/descend/level classification derived from recent altitudes.
type Trend int

const (
	// TrendUndefined means fewer than three position reports have been seen.
	TrendUndefined Trend = iota
	TrendLevel
	TrendClimbing
	TrendDescending
)

// String returns a human-readable name for a trend.
func (t Trend) String() string {
	switch t {
	case TrendLevel:
		return "level"
	case TrendClimbing:
		return "climbing"
	case TrendDescending:
		return "descending"
	default:
		return "undefined"
	}
}

// Glyph returns the single-cell symbol shown in the trend column.
func (t Trend) Glyph() string {
	switch t {
	case TrendLevel:
		return "0"
	case TrendClimbing:
		return "+"
	case TrendDescending:
		return "-"
	default:
		return " "
	}
}

// PositionSample is one entry of a track's position history.
type PositionSample struct {
	// Seq is the track's contact count when the report arrived
	Seq int

	Altitude  int
	Latitude  float64
	Longitude float64
}

// VelocitySample is one entry of a track's velocity history.
type VelocitySample struct {
	// Seq is the track's contact count when the report arrived
	Seq int

	Velocity      int
	Heading       int
	VerticalSpeed int
}

// Track is the accumulated state for one aircraft.
// History slices are append-only; nothing is edited retroactively.
type Track struct {
	ID          adsb.IcaoID
	Country     string
	CountryCode string

	// Identification is the last callsign seen, empty until one arrives
	Identification string

	Positions  []PositionSample
	Velocities []VelocitySample

	// Contacts counts every report applied, whatever its kind.
	// Always equal to len(ContactTimes).
	Contacts     int
	ContactTimes []time.Time

	Trend Trend
}

func newTrack(id adsb.IcaoID) *Track {
	return &Track{
		ID:          id,
		Country:     id.Country(),
		CountryCode: id.CountryCode(),
	}
}

// LastPosition returns the most recent position sample.
func (t *Track) LastPosition() (PositionSample, bool) {
	if len(t.Positions) == 0 {
		return PositionSample{}, false
	}
	return t.Positions[len(t.Positions)-1], true
}

// LastVelocity returns the most recent velocity sample.
func (t *Track) LastVelocity() (VelocitySample, bool) {
	if len(t.Velocities) == 0 {
		return VelocitySample{}, false
	}
	return t.Velocities[len(t.Velocities)-1], true
}

// LastSeen returns the timestamp of the latest report, or the zero time.
func (t *Track) LastSeen() time.Time {
	if len(t.ContactTimes) == 0 {
		return time.Time{}
	}
	return t.ContactTimes[len(t.ContactTimes)-1]
}
