package measure

import "fmt"

// Angle is a plane angle stored in whole arc-seconds.
type Angle uint32

// AngleFromDMS builds an Angle from degrees, minutes, and seconds of arc.
func AngleFromDMS(degrees, minutes, seconds uint32) Angle {
	return Angle(degrees*3600 + minutes*60 + seconds)
}

// Arcseconds returns the stored arc-second count.
func (a Angle) Arcseconds() uint32 {
	return uint32(a)
}

// Degrees returns whole degrees, truncating minutes and seconds.
func (a Angle) Degrees() uint32 {
	return uint32(a) / 3600
}

// DMS decomposes the angle into degrees, minutes, and seconds. For minute and
// second components under 60 the decomposition inverts AngleFromDMS exactly.
func (a Angle) DMS() (degrees, minutes, seconds uint32) {
	return uint32(a) / 3600, uint32(a) % 3600 / 60, uint32(a) % 60
}

// String renders the angle in degrees, minutes, and seconds, e.g. `61º41'0"`.
func (a Angle) String() string {
	d, m, s := a.DMS()
	return fmt.Sprintf("%dº%d'%d\"", d, m, s)
}
