package measure

// Direction is a compass bearing measured clockwise from true north.
type Direction Angle

// Cardinal bearings.
const (
	North Direction = Direction(0 * 3600)
	East  Direction = Direction(90 * 3600)
	South Direction = Direction(180 * 3600)
	West  Direction = Direction(270 * 3600)
)

// DirectionFromAngle builds a Direction from a bearing angle.
func DirectionFromAngle(a Angle) Direction {
	return Direction(a)
}

// Angle returns the bearing as a plain angle.
func (d Direction) Angle() Angle {
	return Angle(d)
}

// String renders the bearing in degrees, minutes, and seconds.
func (d Direction) String() string {
	return Angle(d).String()
}

// Wind pairs a bearing with a sustained speed.
type Wind struct {
	Direction Direction
	Speed     Speed
}
