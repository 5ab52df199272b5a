package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/couchcryptid/recon-data-etl/internal/hdob"
)

// missionIDRe splits a mission identifier into aircraft callsign, storm
// designator, and storm name, e.g. "AF308 1006A EARL". The designator is two
// digits of mission number, two of storm number, and a basin letter.
var missionIDRe = regexp.MustCompile(`^([A-Z0-9]+) ([0-9]{4}[A-Z]) ([A-Z0-9 -]+)$`)

// ParseRawMessage decodes a RawMessage's value as an HDOB text product.
func ParseRawMessage(raw RawMessage) (DecodedMessage, error) {
	msg, err := hdob.Parse(bytes.NewReader(raw.Value))
	if err != nil {
		return DecodedMessage{}, fmt.Errorf("parse raw message: %w", err)
	}

	observations := make([]Observation, 0, len(msg.Observations))
	for _, obs := range msg.Observations {
		observations = append(observations, mapObservation(obs))
	}

	return DecodedMessage{
		ID:           generateID(msg.Header, msg.MissionID, msg.ObsNumber, msg.Date),
		Header:       msg.Header,
		MissionID:    msg.MissionID,
		ObsNumber:    msg.ObsNumber,
		Date:         msg.Date,
		Observations: observations,

		RawPayload: raw.Value,
	}, nil
}

// mapObservation flattens a parsed observation into its storage-precision
// projection.
func mapObservation(obs hdob.Observation) Observation {
	out := Observation{
		Time: obs.Time,

		LatitudeArcseconds:  obs.Position.Latitude.Angle.Arcseconds(),
		LatitudeHemisphere:  obs.Position.Latitude.Hemisphere.Short(),
		LongitudeArcseconds: obs.Position.Longitude.Angle.Arcseconds(),
		LongitudeHemisphere: obs.Position.Longitude.Hemisphere.Short(),

		AircraftPressureMicrobars: obs.AircraftPressure.Microbars(),
		GeopotentialAltitudeM:     obs.GeopotentialAltitude.Meters(),

		Quality: QualityFlags{
			Position:         obs.Quality.PositionQuestionable,
			AltitudePressure: obs.Quality.AltitudePressureQuestionable,
			TempDewPoint:     obs.Quality.TempDewPointQuestionable,
			Wind:             obs.Quality.WindQuestionable,
			SFMR:             obs.Quality.SFMRQuestionable,
		},
	}

	if sp := obs.SurfacePressure; sp != nil {
		if sp.Extrapolated != nil {
			v := sp.Extrapolated.Microbars()
			out.SurfacePressureMicrobars = &v
		}
		if sp.DValue != nil {
			v := sp.DValue.Meters()
			out.DValueM = &v
		}
	}
	if obs.Temperature != nil {
		v := obs.Temperature.Millikelvin()
		out.TemperatureMillikelvin = &v
	}
	if obs.DewPoint != nil {
		v := obs.DewPoint.Millikelvin()
		out.DewPointMillikelvin = &v
	}
	if obs.Wind != nil {
		d := obs.Wind.Direction.Angle().Degrees()
		s := obs.Wind.Speed.Knots()
		out.WindDirectionDegrees = &d
		out.WindSpeedKt = &s
	}
	if obs.PeakWind != nil {
		v := obs.PeakWind.Knots()
		out.PeakWindKt = &v
	}
	if obs.PeakSFMRWind != nil {
		v := obs.PeakSFMRWind.Knots()
		out.PeakSFMRWindKt = &v
	}
	if obs.RainRate != nil {
		v := obs.RainRate.MMPerHour()
		out.RainRateMMHr = &v
	}

	return out
}

// generateID produces a deterministic ID from the message's framing fields.
// Deterministic IDs enable idempotent upserts (ON CONFLICT DO NOTHING) and
// replay safety: reprocessing the same raw product produces the same ID.
func generateID(header, missionID string, obsNumber int, date time.Time) string {
	input := fmt.Sprintf("%s|%s|%02d|%s", header, missionID, obsNumber, date.Format("20060102"))
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	return "hdob-" + short
}

// EnrichMessage splits the mission identifier into its components, classifies
// the storm basin, and stamps the processing time. Enrichment never fails: a
// mission identifier outside the usual shape just leaves the derived fields
// empty.
func EnrichMessage(msg DecodedMessage) DecodedMessage {
	msg.Aircraft, msg.StormID, msg.StormName = parseMissionID(msg.MissionID)
	msg.Basin = classifyBasin(msg.StormID)
	msg.ProcessedAt = clock.Now()
	return msg
}

// parseMissionID splits "AF308 1006A EARL" into callsign, storm designator,
// and storm name. Returns empty strings for identifiers with another shape
// (training flights and some synoptic missions omit the storm designator).
func parseMissionID(missionID string) (aircraft, stormID, stormName string) {
	m := missionIDRe.FindStringSubmatch(strings.TrimSpace(missionID))
	if len(m) != 4 {
		return "", "", ""
	}
	return m[1], m[2], strings.TrimSpace(m[3])
}

// classifyBasin maps the storm designator's trailing letter to a basin label:
// A for the North Atlantic, E for the East Pacific, C for the Central
// Pacific. Other letters (W, L, and the invest designators) return empty.
func classifyBasin(stormID string) string {
	if stormID == "" {
		return ""
	}
	switch stormID[len(stormID)-1] {
	case 'A':
		return BasinNorthAtlantic
	case 'E':
		return BasinEastPacific
	case 'C':
		return BasinCentralPacific
	}
	return ""
}

// SerializeMessage marshals a decoded message into an output event keyed by
// message ID, with routing metadata in the headers.
func SerializeMessage(msg DecodedMessage) (OutputEvent, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize decoded message: %w", err)
	}

	headers := map[string]string{
		"mission_id":   msg.MissionID,
		"processed_at": msg.ProcessedAt.UTC().Format(time.RFC3339),
	}
	if msg.Basin != "" {
		headers["basin"] = msg.Basin
	}

	return OutputEvent{
		Key:     []byte(msg.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
