package coordinates

import (
	"fmt"
	"math"

	"github.com/skypies/geo"
)

// Reference is a fixed observer location that distances and bearings are
// measured from. Uses the WGS84 coordinate system (same as GPS).
type Reference struct {
	// Latitude in decimal degrees (-90 to +90)
	// Positive = North, Negative = South
	Latitude float64

	// Longitude in decimal degrees (-180 to +180)
	// Positive = East, Negative = West
	Longitude float64
}

// NewReference validates a latitude/longitude pair.
func NewReference(lat, lon float64) (Reference, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Reference{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Reference{}, fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return Reference{Latitude: lat, Longitude: lon}, nil
}

// DistanceTo returns the distance in kilometres and initial bearing in degrees
// from the reference to the given position.
func (r Reference) DistanceTo(lat, lon float64) (km, bearing float64) {
	return DistanceAndBearing(r.Latitude, r.Longitude, lat, lon)
}

// DistanceAndBearing calculates the great-circle distance between two points
// and the initial bearing (forward azimuth) from the first towards the second.
// Returns distance in kilometres and bearing in degrees (0-360), where
// 0 = North, 90 = East, 180 = South, 270 = West.
func DistanceAndBearing(lat1, lon1, lat2, lon2 float64) (km, bearing float64) {
	from := geo.Latlong{Lat: lat1, Long: lon1}
	to := geo.Latlong{Lat: lat2, Long: lon2}

	km = from.DistKM(to)
	if km == 0 {
		return 0, 0
	}
	return km, NormalizeAzimuth(from.BearingTowards(to))
}

// NormalizeAzimuth ensures azimuth is in the range [0, 360).
func NormalizeAzimuth(azimuth float64) float64 {
	az := math.Mod(azimuth, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}
