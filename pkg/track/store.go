package track

import (
	"fmt"

	"github.com/unklstewy/adsb-viewer/pkg/adsb"
)

// DefaultTrendThreshold separates level flight from climbing or descending.
// Same unit as the altitude field of the feed.
const DefaultTrendThreshold = 100

// trendWindow is the number of altitude samples the trend is computed from.
const trendWindow = 3

// Store maps aircraft identifiers to their tracks. Tracks are created on the
// first report for an identifier and live for the lifetime of the store.
//
// Store is not safe for concurrent use; the dashboard loop is its only user.
type Store struct {
	tracks         map[adsb.IcaoID]*Track
	trendThreshold float64
}

// NewStore creates an empty store. A non-positive threshold selects
// DefaultTrendThreshold.
func NewStore(trendThreshold float64) *Store {
	if trendThreshold <= 0 {
		trendThreshold = DefaultTrendThreshold
	}
	return &Store{
		tracks:         make(map[adsb.IcaoID]*Track),
		trendThreshold: trendThreshold,
	}
}

// Apply folds one report into the track for its aircraft and reports whether
// the track was created by this call.
//
// Apply assumes a well-formed report from the decoder. A report type it does
// not know is a programming error and panics.
func (s *Store) Apply(r adsb.Report) (id adsb.IcaoID, isNew bool) {
	id = r.Aircraft()
	t, ok := s.tracks[id]
	if !ok {
		t = newTrack(id)
		s.tracks[id] = t
		isNew = true
	}

	switch r := r.(type) {
	case adsb.IdentificationReport:
		t.Identification = r.Identification
	case adsb.PositionReport:
		t.Positions = append(t.Positions, PositionSample{
			Seq:       t.Contacts,
			Altitude:  r.Altitude,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
		if len(t.Positions) >= trendWindow {
			t.Trend = s.trend(t.Positions[len(t.Positions)-trendWindow:])
		}
	case adsb.TrackReport:
		t.Velocities = append(t.Velocities, VelocitySample{
			Seq:           t.Contacts,
			Velocity:      r.Velocity,
			Heading:       r.Heading,
			VerticalSpeed: r.VerticalSpeed,
		})
	case adsb.OtherReport:
		// contact only
	default:
		panic(fmt.Sprintf("track: unhandled report type %T", r))
	}

	t.Contacts++
	t.ContactTimes = append(t.ContactTimes, r.Time())
	return id, isNew
}

// trend classifies the mean of the consecutive altitude differences.
func (s *Store) trend(window []PositionSample) Trend {
	var sum float64
	for i := 1; i < len(window); i++ {
		sum += float64(window[i].Altitude - window[i-1].Altitude)
	}
	mean := sum / float64(len(window)-1)

	switch {
	case mean > s.trendThreshold:
		return TrendClimbing
	case mean < -s.trendThreshold:
		return TrendDescending
	default:
		return TrendLevel
	}
}

// Get returns the track for an aircraft.
func (s *Store) Get(id adsb.IcaoID) (*Track, bool) {
	t, ok := s.tracks[id]
	return t, ok
}

// Len returns the number of aircraft seen so far.
func (s *Store) Len() int {
	return len(s.tracks)
}
