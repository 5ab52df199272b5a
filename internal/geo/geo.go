// Package geo composes the measure angle type into latitudes, longitudes, and
// coordinates as reconnaissance aircraft report them.
package geo

import (
	"cmp"
	"fmt"

	"github.com/couchcryptid/recon-data-etl/internal/measure"
)

// LatitudeHemisphere selects the northern or southern hemisphere.
type LatitudeHemisphere uint8

const (
	North LatitudeHemisphere = iota
	South
)

// Short returns the single-letter abbreviation used on the wire.
func (h LatitudeHemisphere) Short() string {
	if h == South {
		return "S"
	}
	return "N"
}

// LongitudeHemisphere selects the eastern or western hemisphere.
type LongitudeHemisphere uint8

const (
	East LongitudeHemisphere = iota
	West
)

// Short returns the single-letter abbreviation used on the wire.
func (h LongitudeHemisphere) Short() string {
	if h == West {
		return "W"
	}
	return "E"
}

// Latitude pairs an angle north or south of the equator with its hemisphere.
type Latitude struct {
	Angle      measure.Angle
	Hemisphere LatitudeHemisphere
}

// String renders the latitude with its hemisphere letter, e.g. `20º6'0"N`.
func (l Latitude) String() string {
	return l.Angle.String() + l.Hemisphere.Short()
}

// Compare orders latitudes by angle, then hemisphere. The order is nominal,
// useful for sorting and deduplication, not geographic.
func (l Latitude) Compare(other Latitude) int {
	if c := cmp.Compare(l.Angle, other.Angle); c != 0 {
		return c
	}
	return cmp.Compare(l.Hemisphere, other.Hemisphere)
}

// Longitude pairs an angle east or west of the prime meridian with its
// hemisphere.
type Longitude struct {
	Angle      measure.Angle
	Hemisphere LongitudeHemisphere
}

// String renders the longitude with its hemisphere letter, e.g. `61º41'0"W`.
func (l Longitude) String() string {
	return l.Angle.String() + l.Hemisphere.Short()
}

// Compare orders longitudes by angle, then hemisphere.
func (l Longitude) Compare(other Longitude) int {
	if c := cmp.Compare(l.Angle, other.Angle); c != 0 {
		return c
	}
	return cmp.Compare(l.Hemisphere, other.Hemisphere)
}

// Coordinate is a latitude and longitude pair.
type Coordinate struct {
	Latitude  Latitude
	Longitude Longitude
}

// String renders the coordinate, e.g. `(20º6'0"N, 61º41'0"W)`.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)", c.Latitude, c.Longitude)
}

// Compare orders coordinates by latitude, then longitude.
func (c Coordinate) Compare(other Coordinate) int {
	if v := c.Latitude.Compare(other.Latitude); v != 0 {
		return v
	}
	return c.Longitude.Compare(other.Longitude)
}
