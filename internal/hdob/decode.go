package hdob

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/couchcryptid/recon-data-etl/internal/geo"
	"github.com/couchcryptid/recon-data-etl/internal/measure"
)

// missing is the sentinel transmitted when a sensor had no reading.
const missing = "///"

var (
	// timeRe matches the HHMMSS time-of-day column.
	timeRe = regexp.MustCompile(`^([0-9]{2})([0-9]{2})([0-9]{2})$`)

	// latRe and lonRe match the DDMM and DDDMM position columns with their
	// hemisphere letters.
	latRe = regexp.MustCompile(`^([0-9]{2})([0-9]{2})([NS])$`)
	lonRe = regexp.MustCompile(`^([0-9]{3})([0-9]{2})([EW])$`)
)

var (
	errBadShape     = errors.New("does not match column format")
	errOutOfRange   = errors.New("out of range")
	errQualityDigit = errors.New("digit not in quality tables")
)

// FieldError reports a column token that could not be decoded.
type FieldError struct {
	Field string // column name, e.g. "temperature"
	Token string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Token, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field, token string, err error) error {
	return &FieldError{Field: field, Token: token, Err: err}
}

// parseTimeOfDay combines the message date with an HHMMSS token.
func parseTimeOfDay(date time.Time, token string) (time.Time, error) {
	m := timeRe.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, fieldErr("time", token, errBadShape)
	}

	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	if hours > 23 || mins > 59 || secs > 59 {
		return time.Time{}, fieldErr("time", token, errOutOfRange)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hours, mins, secs, 0, time.UTC), nil
}

// parseLatLon decodes the paired position columns. Seconds are always zero:
// the format's resolution is whole minutes.
func parseLatLon(latToken, lonToken string) (geo.Coordinate, error) {
	latM := latRe.FindStringSubmatch(latToken)
	if latM == nil {
		return geo.Coordinate{}, fieldErr("latitude", latToken, errBadShape)
	}
	lonM := lonRe.FindStringSubmatch(lonToken)
	if lonM == nil {
		return geo.Coordinate{}, fieldErr("longitude", lonToken, errBadShape)
	}

	latDeg, _ := strconv.ParseUint(latM[1], 10, 32)
	latMin, _ := strconv.ParseUint(latM[2], 10, 32)
	lonDeg, _ := strconv.ParseUint(lonM[1], 10, 32)
	lonMin, _ := strconv.ParseUint(lonM[2], 10, 32)

	lat := geo.Latitude{Angle: measure.AngleFromDMS(uint32(latDeg), uint32(latMin), 0)}
	if latM[3] == "S" {
		lat.Hemisphere = geo.South
	}
	lon := geo.Longitude{Angle: measure.AngleFromDMS(uint32(lonDeg), uint32(lonMin), 0)}
	if lonM[3] == "W" {
		lon.Hemisphere = geo.West
	}

	return geo.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// parsePressureColumn decodes a four-digit pressure token: tenths of a
// millibar with the decimal dropped. Values at 1000 mb and above lose nothing
// but their decimal; lower values also drop the leading "1", so raw values
// over 2000 are taken as-is and the rest get the implicit 10000 restored.
func parsePressureColumn(field, token string) (measure.Pressure, error) {
	raw, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return 0, fieldErr(field, token, err)
	}
	if raw > 2000 {
		return measure.PressureFromMicrobars(int32(raw) * 100), nil
	}
	return measure.PressureFromMicrobars((int32(raw) + 10000) * 100), nil
}

// parseAltitude decodes the geopotential altitude column, whole meters.
func parseAltitude(token string) (measure.Altitude, error) {
	raw, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, fieldErr("geopotential altitude", token, err)
	}
	return measure.AltitudeFromMeters(uint32(raw)), nil
}

// parseSurfacePressure decodes the overloaded sixth column. Below the 550 mb
// surface it carries a D-value in meters, negatives offset by 5000; otherwise
// an extrapolated sea-level pressure in the standard pressure encoding.
func parseSurfacePressure(aircraft measure.Pressure, token string) (*SurfacePressure, error) {
	if token == missing {
		return nil, nil
	}

	if aircraft.Millibars() < 550 {
		raw, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return nil, fieldErr("d-value", token, err)
		}
		m := int32(raw)
		if m > 5000 {
			m = -(m - 5000)
		}
		d := measure.DValueFromMeters(m)
		return &SurfacePressure{DValue: &d}, nil
	}

	p, err := parsePressureColumn("surface pressure", token)
	if err != nil {
		return nil, err
	}
	return &SurfacePressure{Extrapolated: &p}, nil
}

// parseTemperature decodes a signed tenths-of-a-degree Celsius column.
func parseTemperature(field, token string) (*measure.Temperature, error) {
	if token == missing {
		return nil, nil
	}

	raw, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return nil, fieldErr(field, token, err)
	}
	t, err := measure.TemperatureFromMillicelsius(int32(raw) * 100)
	if err != nil {
		return nil, fieldErr(field, token, err)
	}
	return &t, nil
}

// parseWind decodes the fused wind column: direction in whole degrees times
// 1000 plus speed in knots. Any token that does not parse as an unsigned
// integer, "//////" in practice, reads as no wind observation.
func parseWind(token string) *measure.Wind {
	raw, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return nil
	}
	return &measure.Wind{
		Direction: measure.DirectionFromAngle(measure.AngleFromDMS(uint32(raw)/1000, 0, 0)),
		Speed:     measure.SpeedFromKnots(uint32(raw) % 1000),
	}
}

// parseSpeed decodes a whole-knot column.
func parseSpeed(field, token string) (*measure.Speed, error) {
	if token == missing {
		return nil, nil
	}

	raw, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return nil, fieldErr(field, token, err)
	}
	s := measure.SpeedFromKnots(uint32(raw))
	return &s, nil
}

// parseRainRate decodes the SFMR rain rate column, whole millimeters per hour.
func parseRainRate(token string) (*measure.RainRate, error) {
	if token == missing {
		return nil, nil
	}

	raw, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return nil, fieldErr("rain rate", token, err)
	}
	r := measure.RainRateFromMMPerHour(uint32(raw))
	return &r, nil
}

// parseQuality expands the two-digit quality code. The tens digit covers the
// position and altitude/pressure groups, the ones digit the temperature/dew
// point, wind, and SFMR groups.
func parseQuality(token string) (QualityFlags, error) {
	raw, err := strconv.ParseUint(token, 10, 8)
	if err != nil {
		return QualityFlags{}, fieldErr("quality code", token, err)
	}

	var q QualityFlags

	switch raw / 10 {
	case 0:
	case 1:
		q.PositionQuestionable = true
	case 2:
		q.AltitudePressureQuestionable = true
	case 3:
		q.PositionQuestionable = true
		q.AltitudePressureQuestionable = true
	default:
		return QualityFlags{}, fieldErr("quality code", token, errQualityDigit)
	}

	switch raw % 10 {
	case 0:
	case 1:
		q.TempDewPointQuestionable = true
	case 2:
		q.WindQuestionable = true
	case 3:
		q.SFMRQuestionable = true
	case 4:
		q.TempDewPointQuestionable = true
		q.WindQuestionable = true
	case 5:
		q.TempDewPointQuestionable = true
		q.SFMRQuestionable = true
	case 6:
		q.WindQuestionable = true
		q.SFMRQuestionable = true
	case 9:
		q.TempDewPointQuestionable = true
		q.WindQuestionable = true
		q.SFMRQuestionable = true
	default:
		return QualityFlags{}, fieldErr("quality code", token, errQualityDigit)
	}

	return q, nil
}
