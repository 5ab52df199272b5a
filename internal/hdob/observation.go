package hdob

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/recon-data-etl/internal/geo"
	"github.com/couchcryptid/recon-data-etl/internal/measure"
)

// observationColumns is the fixed token count of an observation line.
const observationColumns = 13

// Observation is one decoded observation line: a half-minute flight-level
// record. Pointer fields are nil when the aircraft transmitted the missing
// sentinel for that column.
type Observation struct {
	Time                 time.Time
	Position             geo.Coordinate
	AircraftPressure     measure.Pressure
	GeopotentialAltitude measure.Altitude
	SurfacePressure      *SurfacePressure
	Temperature          *measure.Temperature
	DewPoint             *measure.Temperature
	Wind                 *measure.Wind
	PeakWind             *measure.Speed
	PeakSFMRWind         *measure.Speed
	RainRate             *measure.RainRate
	Quality              QualityFlags
}

// SurfacePressure is the decoded sixth column. Exactly one field is set:
// Extrapolated when the aircraft flew at or above the 550 mb surface, DValue
// below it.
type SurfacePressure struct {
	Extrapolated *measure.Pressure
	DValue       *measure.DValue
}

// QualityFlags are the five indicators packed into the two-digit quality
// code. A set flag marks that parameter group as questionable.
type QualityFlags struct {
	PositionQuestionable         bool
	AltitudePressureQuestionable bool
	TempDewPointQuestionable     bool
	WindQuestionable             bool
	SFMRQuestionable             bool
}

// ParseObservation decodes one observation line. The date supplies the
// calendar day; the line itself carries only time of day.
func ParseObservation(date time.Time, line string) (Observation, error) {
	cols := strings.Fields(line)
	if len(cols) != observationColumns {
		return Observation{}, fmt.Errorf("expected %d columns, got %d", observationColumns, len(cols))
	}

	var (
		obs Observation
		err error
	)

	if obs.Time, err = parseTimeOfDay(date, cols[0]); err != nil {
		return Observation{}, err
	}
	if obs.Position, err = parseLatLon(cols[1], cols[2]); err != nil {
		return Observation{}, err
	}
	if obs.AircraftPressure, err = parsePressureColumn("aircraft pressure", cols[3]); err != nil {
		return Observation{}, err
	}
	if obs.GeopotentialAltitude, err = parseAltitude(cols[4]); err != nil {
		return Observation{}, err
	}
	if obs.SurfacePressure, err = parseSurfacePressure(obs.AircraftPressure, cols[5]); err != nil {
		return Observation{}, err
	}
	if obs.Temperature, err = parseTemperature("temperature", cols[6]); err != nil {
		return Observation{}, err
	}
	if obs.DewPoint, err = parseTemperature("dew point", cols[7]); err != nil {
		return Observation{}, err
	}
	obs.Wind = parseWind(cols[8])
	if obs.PeakWind, err = parseSpeed("peak wind", cols[9]); err != nil {
		return Observation{}, err
	}
	if obs.PeakSFMRWind, err = parseSpeed("peak sfmr wind", cols[10]); err != nil {
		return Observation{}, err
	}
	if obs.RainRate, err = parseRainRate(cols[11]); err != nil {
		return Observation{}, err
	}
	if obs.Quality, err = parseQuality(cols[12]); err != nil {
		return Observation{}, err
	}

	return obs, nil
}
