package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/unklstewy/adsb-viewer/pkg/coordinates"
	"github.com/unklstewy/adsb-viewer/pkg/track"
)

// DefaultEmphasisWindow is how long after its last contact a row is emphasized.
const DefaultEmphasisWindow = 60 * time.Second

// Column widths in terminal cells. Columns are separated by one space.
const (
	widthID       = 6
	widthCountry  = 2
	widthIdent    = 8
	widthPosition = 20
	widthAltitude = 6
	widthTrend    = 1
	widthContacts = 3
	widthSeen     = 8
	widthDistance = 9
	widthBearing  = 3

	maxContacts = 999

	// Altitudes outside the six-cell column are clamped to its limits.
	maxAltitude = 999999
	minAltitude = -99999
)

// Row is one formatted table line.
type Row struct {
	// Text is always exactly Formatter.Width() cells wide
	Text string

	// Emphasize marks a recently seen aircraft; the backend decides how to show it
	Emphasize bool
}

// Formatter renders tracks as fixed-width table rows.
type Formatter struct {
	reference *coordinates.Reference
	emphasis  time.Duration

	// Now returns the current time (default time.Now)
	Now func() time.Time
}

// NewFormatter creates a formatter. A nil reference omits the distance and
// bearing columns; a non-positive emphasis window selects DefaultEmphasisWindow.
func NewFormatter(reference *coordinates.Reference, emphasis time.Duration) *Formatter {
	if emphasis <= 0 {
		emphasis = DefaultEmphasisWindow
	}
	return &Formatter{
		reference: reference,
		emphasis:  emphasis,
		Now:       time.Now,
	}
}

// HasReference reports whether the distance and bearing columns are shown.
func (f *Formatter) HasReference() bool {
	return f.reference != nil
}

// Width returns the width of every row and of the header.
func (f *Formatter) Width() int {
	w := widthID + widthCountry + widthIdent + widthPosition + widthAltitude +
		widthTrend + widthContacts + widthSeen + 7
	if f.reference != nil {
		w += 1 + widthDistance + 1 + widthBearing
	}
	return w
}

// Header returns the column titles. The text depends only on whether a
// reference location was configured.
func (f *Formatter) Header() string {
	cols := []string{
		left("Hex", widthID),
		left("CC", widthCountry),
		left("Ident", widthIdent),
		left("Position", widthPosition),
		right("Alt", widthAltitude),
		left("T", widthTrend),
		right("#", widthContacts),
		left("Seen", widthSeen),
	}
	if f.reference != nil {
		cols = append(cols, right("Dist", widthDistance), right("Brg", widthBearing))
	}
	return strings.Join(cols, " ")
}

// Render formats one track.
func (f *Formatter) Render(t *track.Track) Row {
	id := string(t.ID)
	if len(id) < widthID {
		id = strings.Repeat("0", widthID-len(id)) + id
	}

	var position, altitude, distance, bearing string
	pos, hasPos := t.LastPosition()
	if hasPos {
		position = fmt.Sprintf("%.4f, %.4f", pos.Latitude, pos.Longitude)
		altitude = strconv.Itoa(min(max(pos.Altitude, minAltitude), maxAltitude))
	}

	contacts := t.Contacts
	if contacts > maxContacts {
		contacts = maxContacts
	}

	var seen string
	last := t.LastSeen()
	if !last.IsZero() {
		seen = last.Format("15:04:05")
	}

	cols := []string{
		left(id, widthID),
		left(t.CountryCode, widthCountry),
		left(t.Identification, widthIdent),
		right(position, widthPosition),
		right(altitude, widthAltitude),
		left(t.Trend.Glyph(), widthTrend),
		right(strconv.Itoa(contacts), widthContacts),
		left(seen, widthSeen),
	}

	if f.reference != nil {
		if hasPos {
			km, brg := f.reference.DistanceTo(pos.Latitude, pos.Longitude)
			distance = fmt.Sprintf("%.1fkm", km)
			bearing = strconv.Itoa(int(math.Round(brg)) % 360)
		}
		cols = append(cols, right(distance, widthDistance), right(bearing, widthBearing))
	}

	return Row{
		Text:      strings.Join(cols, " "),
		Emphasize: !last.IsZero() && f.now().Sub(last) < f.emphasis,
	}
}

func (f *Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// left truncates or blank-pads s on the right to exactly w cells.
func left(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(printable(s), w, ""), w)
}

// right truncates or blank-pads s on the left to exactly w cells.
func right(s string, w int) string {
	return runewidth.FillLeft(runewidth.Truncate(printable(s), w, ""), w)
}

// printable drops runes a terminal would interpret instead of display.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}
