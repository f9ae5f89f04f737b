package adsb

import "time"

// Report is one decoded surveillance message about an aircraft.
// The set of implementations is closed: IdentificationReport, PositionReport,
// TrackReport and OtherReport. Consumers switch on the concrete type.
type Report interface {
	// Aircraft returns the transponder address the report is about.
	Aircraft() IcaoID

	// Time returns when the report was generated by the receiver.
	Time() time.Time

	report()
}

// Header carries the fields common to every report kind.
type Header struct {
	// ID is the 24-bit ICAO aircraft address
	ID IcaoID

	// Generated is the receiver timestamp of the message
	Generated time.Time
}

// Aircraft implements Report.
func (h Header) Aircraft() IcaoID { return h.ID }

// Time implements Report.
func (h Header) Time() time.Time { return h.Generated }

func (Header) report() {}

// IdentificationReport announces the aircraft's callsign.
type IdentificationReport struct {
	Header

	// Identification is the flight number or registration, trimmed of padding
	Identification string
}

// PositionReport is an airborne position with barometric altitude.
type PositionReport struct {
	Header

	// Altitude as transmitted by the aircraft (feet for 1090ES feeds)
	Altitude int

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64
}

// TrackReport is an airborne velocity message.
type TrackReport struct {
	Header

	// Velocity is the ground speed
	Velocity int

	// Heading is the ground track in degrees (0-359)
	Heading int

	// VerticalSpeed is the vertical rate (positive = climbing)
	VerticalSpeed int
}

// OtherReport is any well-formed message that carries no field the viewer
// aggregates (surface positions, squawk changes, status records, ...).
// It still counts as a contact.
type OtherReport struct {
	Header

	// Kind is the record label, e.g. "MSG,6" or "STA"
	Kind string
}
