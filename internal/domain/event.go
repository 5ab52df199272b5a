// Package domain models reconnaissance observation messages as they move
// through the relay: raw Kafka payloads in, decoded and enriched messages
// out. The HDOB text format itself is handled by the hdob package; this
// package owns identity, enrichment, and the serialized output shape.
package domain

import (
	"context"
	"time"
)

// RawMessage is an unprocessed HDOB text product consumed from the source
// topic, together with its transport metadata.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time

	// Commit acknowledges this message's offset against the consumer group.
	// Nil for messages that did not come from Kafka.
	Commit func(ctx context.Context) error
}

// Basin labels derived from the storm designator in a mission identifier.
const (
	BasinNorthAtlantic  = "north_atlantic"
	BasinEastPacific    = "east_pacific"
	BasinCentralPacific = "central_pacific"
)

// QualityFlags mirror the five indicators of the transmitted quality code.
// A set flag marks that parameter group as questionable.
type QualityFlags struct {
	Position         bool `json:"position,omitempty"`
	AltitudePressure bool `json:"altitude_pressure,omitempty"`
	TempDewPoint     bool `json:"temp_dew_point,omitempty"`
	Wind             bool `json:"wind,omitempty"`
	SFMR             bool `json:"sfmr,omitempty"`
}

// Observation is the flat, storage-precision projection of one decoded
// observation line. Integer fields carry the decoder's native units so the
// JSON round trip is exact; pointer fields are nil when the aircraft
// transmitted the missing sentinel.
type Observation struct {
	Time time.Time `json:"time"`

	LatitudeArcseconds  uint32 `json:"latitude_arcseconds"`
	LatitudeHemisphere  string `json:"latitude_hemisphere"`
	LongitudeArcseconds uint32 `json:"longitude_arcseconds"`
	LongitudeHemisphere string `json:"longitude_hemisphere"`

	AircraftPressureMicrobars int32  `json:"aircraft_pressure_microbars"`
	GeopotentialAltitudeM     uint32 `json:"geopotential_altitude_m"`

	// At most one of SurfacePressureMicrobars and DValueM is set, depending
	// on the flight level; both are nil when the column was missing.
	SurfacePressureMicrobars *int32 `json:"surface_pressure_microbars,omitempty"`
	DValueM                  *int32 `json:"d_value_m,omitempty"`

	TemperatureMillikelvin *uint32 `json:"temperature_millikelvin,omitempty"`
	DewPointMillikelvin    *uint32 `json:"dew_point_millikelvin,omitempty"`

	WindDirectionDegrees *uint32 `json:"wind_direction_degrees,omitempty"`
	WindSpeedKt          *uint32 `json:"wind_speed_kt,omitempty"`
	PeakWindKt           *uint32 `json:"peak_wind_kt,omitempty"`
	PeakSFMRWindKt       *uint32 `json:"peak_sfmr_wind_kt,omitempty"`
	RainRateMMHr         *uint32 `json:"rain_rate_mm_hr,omitempty"`

	Quality QualityFlags `json:"quality_questionable"`
}

// DecodedMessage is a fully parsed and enriched HDOB product ready for
// serialization to the sink topic.
type DecodedMessage struct {
	ID        string    `json:"id"`
	Header    string    `json:"header"`
	MissionID string    `json:"mission_id"`
	ObsNumber int       `json:"observation_number"`
	Date      time.Time `json:"date"`

	// Enrichment fields, split out of the mission identifier. Empty when the
	// identifier has an unrecognized shape.
	Aircraft  string `json:"aircraft,omitempty"`
	StormID   string `json:"storm_id,omitempty"`
	StormName string `json:"storm_name,omitempty"`
	Basin     string `json:"basin,omitempty"`

	Observations []Observation `json:"observations"`

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is a serialized message ready to be produced to the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
