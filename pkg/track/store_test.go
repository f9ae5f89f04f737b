package track

import (
	"testing"
	"time"

	"github.com/unklstewy/adsb-viewer/pkg/adsb"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func hdr(id adsb.IcaoID, sec int) adsb.Header {
	return adsb.Header{ID: id, Generated: t0.Add(time.Duration(sec) * time.Second)}
}

func position(id adsb.IcaoID, sec, alt int) adsb.PositionReport {
	return adsb.PositionReport{Header: hdr(id, sec), Altitude: alt, Latitude: 52.1, Longitude: 13.4}
}

// TestApplyCreatesTrackOnce tests that a track is created on first report only.
func TestApplyCreatesTrackOnce(t *testing.T) {
	s := NewStore(0)

	id, isNew := s.Apply(adsb.IdentificationReport{Header: hdr("3C6444", 0), Identification: "DLH4AB"})
	if id != "3C6444" || !isNew {
		t.Fatalf("Expected new track 3C6444, got %s new=%v", id, isNew)
	}
	_, isNew = s.Apply(position("3C6444", 1, 12000))
	if isNew {
		t.Error("Expected second report to update existing track")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 track, got %d", s.Len())
	}

	tr, ok := s.Get("3C6444")
	if !ok {
		t.Fatal("Expected track to exist")
	}
	if tr.Country != "Germany" || tr.CountryCode != "DE" {
		t.Errorf("Expected Germany/DE, got %s/%s", tr.Country, tr.CountryCode)
	}
	if tr.Identification != "DLH4AB" {
		t.Errorf("Expected identification DLH4AB, got %q", tr.Identification)
	}
}

// TestApplyCountsEveryContact tests contact_count == len(contact_times) == N.
func TestApplyCountsEveryContact(t *testing.T) {
	s := NewStore(0)
	id := adsb.IcaoID("A12345")

	reports := []adsb.Report{
		adsb.IdentificationReport{Header: hdr(id, 0), Identification: "UAL1"},
		position(id, 1, 1000),
		adsb.TrackReport{Header: hdr(id, 2), Velocity: 250, Heading: 90, VerticalSpeed: 0},
		adsb.OtherReport{Header: hdr(id, 3), Kind: "MSG,6"},
		position(id, 4, 1100),
		adsb.IdentificationReport{Header: hdr(id, 5), Identification: "UAL2"},
	}
	for i, r := range reports {
		s.Apply(r)
		tr, _ := s.Get(id)
		if tr.Contacts != i+1 || len(tr.ContactTimes) != i+1 {
			t.Fatalf("after %d reports: contacts=%d times=%d", i+1, tr.Contacts, len(tr.ContactTimes))
		}
	}

	tr, _ := s.Get(id)
	if !tr.LastSeen().Equal(t0.Add(5 * time.Second)) {
		t.Errorf("Expected last seen %v, got %v", t0.Add(5*time.Second), tr.LastSeen())
	}
	if tr.Identification != "UAL2" {
		t.Errorf("Expected identification overwritten to UAL2, got %q", tr.Identification)
	}
	if len(tr.Positions) != 2 || len(tr.Velocities) != 1 {
		t.Errorf("Expected 2 positions / 1 velocity, got %d / %d", len(tr.Positions), len(tr.Velocities))
	}

	// Samples record the contact count at the time of arrival.
	if tr.Positions[0].Seq != 1 || tr.Positions[1].Seq != 4 {
		t.Errorf("Expected position seqs 1,4, got %d,%d", tr.Positions[0].Seq, tr.Positions[1].Seq)
	}
	if tr.Velocities[0].Seq != 2 {
		t.Errorf("Expected velocity seq 2, got %d", tr.Velocities[0].Seq)
	}
	v, ok := tr.LastVelocity()
	if !ok || v.Velocity != 250 || v.Heading != 90 {
		t.Errorf("Unexpected last velocity %+v", v)
	}
}

// TestTrend tests the climb/descend/level classification.
func TestTrend(t *testing.T) {
	tests := []struct {
		name      string
		altitudes []int
		want      Trend
	}{
		{"Undefined with one sample", []int{1000}, TrendUndefined},
		{"Undefined with two samples", []int{1000, 5000}, TrendUndefined},
		{"Climbing", []int{1000, 1300, 1700}, TrendClimbing},
		{"Level", []int{1000, 1000, 1000}, TrendLevel},
		{"Descending", []int{2000, 1700, 1300}, TrendDescending},
		{"Exactly at threshold is level", []int{1000, 1100, 1200}, TrendLevel},
		{"Just above threshold", []int{1000, 1100, 1202}, TrendClimbing},
		{"Only last three count", []int{9000, 1000, 1000, 1000}, TrendLevel},
		{"Mixed differences", []int{1000, 1500, 1400}, TrendClimbing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultTrendThreshold)
			for i, alt := range tt.altitudes {
				s.Apply(position("A12345", i, alt))
			}
			tr, _ := s.Get("A12345")
			if tr.Trend != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, tr.Trend)
			}
		})
	}
}

// TestTrendIgnoresOtherKinds tests that non-position reports do not reset the trend.
func TestTrendIgnoresOtherKinds(t *testing.T) {
	s := NewStore(0)
	for i, alt := range []int{1000, 1300, 1700} {
		s.Apply(position("A12345", i, alt))
	}
	s.Apply(adsb.TrackReport{Header: hdr("A12345", 9), Velocity: 300})
	tr, _ := s.Get("A12345")
	if tr.Trend != TrendClimbing {
		t.Errorf("Expected climbing to persist, got %s", tr.Trend)
	}
}

// TestCustomTrendThreshold tests a configured threshold.
func TestCustomTrendThreshold(t *testing.T) {
	s := NewStore(500)
	for i, alt := range []int{1000, 1300, 1700} {
		s.Apply(position("A12345", i, alt))
	}
	tr, _ := s.Get("A12345")
	if tr.Trend != TrendLevel {
		t.Errorf("Expected level with threshold 500, got %s", tr.Trend)
	}
}

type bogusReport struct{ adsb.Header }

// TestApplyUnknownKindPanics tests that an unhandled report type is a defect.
func TestApplyUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown report type")
		}
	}()
	s := NewStore(0)
	s.Apply(bogusReport{Header: hdr("A12345", 0)})
}

// TestTrendGlyphs tests the fixed three-symbol alphabet.
func TestTrendGlyphs(t *testing.T) {
	glyphs := map[Trend]string{
		TrendUndefined:  " ",
		TrendLevel:      "0",
		TrendClimbing:   "+",
		TrendDescending: "-",
	}
	for trend, want := range glyphs {
		if got := trend.Glyph(); got != want {
			t.Errorf("%s.Glyph() = %q, want %q", trend, got, want)
		}
	}
}
