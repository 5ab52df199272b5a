// Package measure defines the integer-backed unit types used by decoded
// reconnaissance observations. Each type stores a single canonical
// representation (microbars, millikelvin, arc-seconds) so values survive
// decode/re-encode round trips without floating-point drift.
package measure

import (
	"errors"
	"fmt"
)

// millikelvinOffset is 0 ºC expressed in millikelvin.
const millikelvinOffset = 273150

// Pressure is a barometric pressure stored in microbars
// (thousandths of a millibar).
type Pressure int32

// PressureFromMicrobars builds a Pressure from a raw microbar count.
func PressureFromMicrobars(ub int32) Pressure {
	return Pressure(ub)
}

// Microbars returns the stored microbar count.
func (p Pressure) Microbars() int32 {
	return int32(p)
}

// Millibars returns whole millibars, truncating the fractional part.
func (p Pressure) Millibars() int32 {
	return int32(p) / 1000
}

// String renders the pressure in millibars, e.g. "923.600 mb".
func (p Pressure) String() string {
	return fmt.Sprintf("%d.%03d mb", int32(p)/1000, int32(p)%1000)
}

// Temperature is an absolute temperature stored in millikelvin.
type Temperature uint32

// TemperatureFromMillikelvin builds a Temperature from a raw millikelvin count.
func TemperatureFromMillikelvin(mk uint32) Temperature {
	return Temperature(mk)
}

// TemperatureFromMillicelsius converts a millicelsius reading. Readings below
// absolute zero are rejected.
func TemperatureFromMillicelsius(mc int32) (Temperature, error) {
	mk := mc + millikelvinOffset
	if mk < 0 {
		return 0, errors.New("temperature below absolute zero")
	}
	return Temperature(mk), nil
}

// Millikelvin returns the stored millikelvin count.
func (t Temperature) Millikelvin() uint32 {
	return uint32(t)
}

// Kelvin returns whole kelvin, truncating the fractional part.
func (t Temperature) Kelvin() uint32 {
	return uint32(t) / 1000
}

// Celsius returns whole degrees Celsius, truncating toward zero. The result
// is signed: readings below freezing are negative.
func (t Temperature) Celsius() int32 {
	return (int32(t) - millikelvinOffset) / 1000
}

// String renders the temperature in kelvin, e.g. "293.250 K". The fractional
// part is the raw millikelvin remainder and is not zero-padded.
func (t Temperature) String() string {
	return fmt.Sprintf("%d.%d K", uint32(t)/1000, uint32(t)%1000)
}

// Altitude is a geopotential altitude stored in whole meters.
type Altitude uint32

// AltitudeFromMeters builds an Altitude from a meter count.
func AltitudeFromMeters(m uint32) Altitude {
	return Altitude(m)
}

// Meters returns the stored meter count.
func (a Altitude) Meters() uint32 {
	return uint32(a)
}

// String renders the altitude, e.g. "794 m".
func (a Altitude) String() string {
	return fmt.Sprintf("%d m", uint32(a))
}

// DValue is the signed difference in meters between an aircraft's geopotential
// altitude and the standard-atmosphere height of its pressure surface.
type DValue int32

// DValueFromMeters builds a DValue from a signed meter count.
func DValueFromMeters(m int32) DValue {
	return DValue(m)
}

// Meters returns the stored meter count.
func (d DValue) Meters() int32 {
	return int32(d)
}

// String renders the d-value, e.g. "-200 m".
func (d DValue) String() string {
	return fmt.Sprintf("%d m", int32(d))
}

// Speed is a wind speed stored in whole knots.
type Speed uint32

// SpeedFromKnots builds a Speed from a knot count.
func SpeedFromKnots(kt uint32) Speed {
	return Speed(kt)
}

// Knots returns the stored knot count.
func (s Speed) Knots() uint32 {
	return uint32(s)
}

// String renders the speed, e.g. "41 kt".
func (s Speed) String() string {
	return fmt.Sprintf("%d kt", uint32(s))
}

// RainRate is a precipitation rate stored in whole millimeters per hour.
type RainRate uint32

// RainRateFromMMPerHour builds a RainRate from a millimeter-per-hour count.
func RainRateFromMMPerHour(mm uint32) RainRate {
	return RainRate(mm)
}

// MMPerHour returns the stored millimeter-per-hour count.
func (r RainRate) MMPerHour() uint32 {
	return uint32(r)
}

// String renders the rain rate, e.g. "2 mm/hr".
func (r RainRate) String() string {
	return fmt.Sprintf("%d mm/hr", uint32(r))
}
