// Package hdob parses High Density Observation (HDOB) messages transmitted by
// hurricane reconnaissance aircraft.
//
// # Message framing
//
// A raw HDOB product is plain text. The first line carries the transmission
// priority and is discarded. The second is the WMO abbreviated heading, kept
// verbatim as the message header. The third is the mission line:
//
//	AF308 1006A EARL HDOB 09 20220905
//
// that is, a mission identifier, the literal word HDOB, a two-digit sequence
// number, and the observation date as YYYYMMDD. Observation lines follow, one
// per half minute of flight, until a line consisting of "$$" or the end of
// input. Anything after the terminator is ignored.
//
// # Observation lines
//
// Each observation line has exactly thirteen space-separated columns:
//
//	181830 2006N 06141W 9236 00794 0115 +201 +173 123041 041 021 002 00
//
// in order: time of day (HHMMSS), latitude (DDMM plus hemisphere), longitude
// (DDDMM plus hemisphere), aircraft static pressure, geopotential altitude in
// meters, surface pressure or D-value, temperature, dew point, wind
// direction and speed, peak 10-second wind, peak SFMR surface wind, SFMR
// rain rate, and a two-digit quality code.
//
// # Pressure encoding
//
// Pressures are transmitted in tenths of a millibar with the decimal point
// dropped and, below 1000 mb, the leading "1" dropped too: "9236" reads as
// 923.6 mb while "0234" reads as 1023.4 mb. [ParseObservation] stores both as
// exact microbar counts.
//
// The sixth column is overloaded. When the aircraft flies at or above the
// 550 mb pressure surface it carries an extrapolated sea-level pressure in
// the encoding above; below 550 mb extrapolation is unreliable and the column
// carries a D-value in meters instead, with negative values offset by 5000
// ("5200" reads as -200 m).
//
// # Missing values
//
// Optional columns transmit "///" (or "//////" for the fused wind column)
// when the sensor had no reading. Missing values decode to nil, never to an
// error. The time, position, static pressure, altitude, and quality columns
// are mandatory.
//
// # Quality codes
//
// The final column packs five indicators into two digits. The tens digit
// flags the position and altitude/pressure groups, the ones digit the
// temperature/dew point, wind, and SFMR groups. Digits outside the published
// tables make the whole message unusable and fail the parse.
package hdob
