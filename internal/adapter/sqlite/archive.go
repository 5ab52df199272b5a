// Package sqlite archives decoded observation messages in an embedded
// database so past products survive sink-topic retention.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/recon-data-etl/internal/domain"
)

const dateFormat = "2006-01-02"

// Archive is a SQLite-backed store of decoded HDOB products. It implements
// pipeline.BatchLoader so it can ride alongside the Kafka writer as a tee.
type Archive struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the archive database at path and prepares the schema.
func Open(path string, logger *slog.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	// SQLite supports a single writer; a pool of one keeps the pragmas
	// pinned to the connection that does all the work.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %q: %w", pragma, err)
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("archive opened", "path", path)
	return &Archive{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS hdob_messages (
			id                 TEXT PRIMARY KEY,
			header             TEXT NOT NULL,
			mission_id         TEXT NOT NULL,
			observation_number INTEGER NOT NULL,
			date               TEXT NOT NULL,
			aircraft           TEXT NOT NULL DEFAULT '',
			storm_id           TEXT NOT NULL DEFAULT '',
			storm_name         TEXT NOT NULL DEFAULT '',
			basin              TEXT NOT NULL DEFAULT '',
			processed_at       TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create hdob_messages table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS hdob_observations (
			message_id                  TEXT NOT NULL,
			obs_index                   INTEGER NOT NULL,
			time                        TEXT NOT NULL,
			latitude_arcseconds         INTEGER NOT NULL,
			latitude_hemisphere         TEXT NOT NULL,
			longitude_arcseconds        INTEGER NOT NULL,
			longitude_hemisphere        TEXT NOT NULL,
			aircraft_pressure_microbars INTEGER NOT NULL,
			geopotential_altitude_m     INTEGER NOT NULL,
			surface_pressure_microbars  INTEGER,
			d_value_m                   INTEGER,
			temperature_millikelvin     INTEGER,
			dew_point_millikelvin       INTEGER,
			wind_direction_degrees      INTEGER,
			wind_speed_kt               INTEGER,
			peak_wind_kt                INTEGER,
			peak_sfmr_wind_kt           INTEGER,
			rain_rate_mm_hr             INTEGER,
			quality_position            INTEGER NOT NULL,
			quality_altitude_pressure   INTEGER NOT NULL,
			quality_temp_dew_point      INTEGER NOT NULL,
			quality_wind                INTEGER NOT NULL,
			quality_sfmr                INTEGER NOT NULL,
			PRIMARY KEY (message_id, obs_index),
			FOREIGN KEY (message_id) REFERENCES hdob_messages(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("create hdob_observations table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_hdob_messages_mission_id ON hdob_messages(mission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hdob_messages_storm_id ON hdob_messages(storm_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hdob_messages_basin ON hdob_messages(basin)`,
		`CREATE INDEX IF NOT EXISTS idx_hdob_messages_processed_at ON hdob_messages(processed_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// StoreMessage inserts a decoded product and its observations in one
// transaction. Messages already present are left untouched, so replaying a
// topic against an existing archive is safe.
func (a *Archive) StoreMessage(ctx context.Context, msg domain.DecodedMessage) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO hdob_messages
			(id, header, mission_id, observation_number, date, aircraft, storm_id, storm_name, basin, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		msg.ID,
		msg.Header,
		msg.MissionID,
		msg.ObsNumber,
		msg.Date.UTC().Format(dateFormat),
		msg.Aircraft,
		msg.StormID,
		msg.StormName,
		msg.Basin,
		msg.ProcessedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert message %s: %w", msg.ID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if inserted == 0 {
		a.logger.Debug("message already archived", "id", msg.ID)
		return nil
	}

	for i, obs := range msg.Observations {
		if err := insertObservation(ctx, tx, msg.ID, i, obs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit message %s: %w", msg.ID, err)
	}
	return nil
}

func insertObservation(ctx context.Context, tx *sql.Tx, messageID string, index int, obs domain.Observation) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO hdob_observations (
			message_id, obs_index, time,
			latitude_arcseconds, latitude_hemisphere,
			longitude_arcseconds, longitude_hemisphere,
			aircraft_pressure_microbars, geopotential_altitude_m,
			surface_pressure_microbars, d_value_m,
			temperature_millikelvin, dew_point_millikelvin,
			wind_direction_degrees, wind_speed_kt,
			peak_wind_kt, peak_sfmr_wind_kt, rain_rate_mm_hr,
			quality_position, quality_altitude_pressure,
			quality_temp_dew_point, quality_wind, quality_sfmr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		messageID,
		index,
		obs.Time.UTC().Format(time.RFC3339),
		obs.LatitudeArcseconds,
		obs.LatitudeHemisphere,
		obs.LongitudeArcseconds,
		obs.LongitudeHemisphere,
		obs.AircraftPressureMicrobars,
		obs.GeopotentialAltitudeM,
		obs.SurfacePressureMicrobars,
		obs.DValueM,
		obs.TemperatureMillikelvin,
		obs.DewPointMillikelvin,
		obs.WindDirectionDegrees,
		obs.WindSpeedKt,
		obs.PeakWindKt,
		obs.PeakSFMRWindKt,
		obs.RainRateMMHr,
		obs.Quality.Position,
		obs.Quality.AltitudePressure,
		obs.Quality.TempDewPoint,
		obs.Quality.Wind,
		obs.Quality.SFMR,
	)
	if err != nil {
		return fmt.Errorf("insert observation %d of message %s: %w", index, messageID, err)
	}
	return nil
}

// LoadBatch archives a batch of serialized output events. It deserializes
// each event back into a DecodedMessage; events that are not valid message
// JSON fail the batch.
func (a *Archive) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for _, event := range events {
		var msg domain.DecodedMessage
		if err := json.Unmarshal(event.Value, &msg); err != nil {
			return fmt.Errorf("unmarshal event %q: %w", event.Key, err)
		}
		if err := a.StoreMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// MessageSummary is one archived product in a listing.
type MessageSummary struct {
	ID           string
	MissionID    string
	StormName    string
	Basin        string
	ObsNumber    int
	Date         time.Time
	Observations int
}

// RecentMessages returns up to limit archived products, most recently
// processed first.
func (a *Archive) RecentMessages(ctx context.Context, limit int) ([]MessageSummary, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT m.id, m.mission_id, m.storm_name, m.basin, m.observation_number, m.date,
			(SELECT COUNT(*) FROM hdob_observations o WHERE o.message_id = m.id) AS observations
		FROM hdob_messages m
		ORDER BY m.processed_at DESC, m.id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()

	var summaries []MessageSummary
	for rows.Next() {
		var s MessageSummary
		var dateStr string
		if err := rows.Scan(&s.ID, &s.MissionID, &s.StormName, &s.Basin, &s.ObsNumber, &dateStr, &s.Observations); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		s.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse archived date %q: %w", dateStr, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}

	return summaries, nil
}
