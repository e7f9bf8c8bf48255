package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// NewDB opens the database at path and ensures the base schema exists.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS glider_samples (
			sample_unix       DOUBLE,
			depth_m           DOUBLE,
			lat               DOUBLE,
			lon               DOUBLE,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_glider_samples_unix ON glider_samples (sample_unix);
		CREATE TABLE IF NOT EXISTS glider_dives (
			dive_id           INTEGER PRIMARY KEY AUTOINCREMENT,
			dive_key          TEXT UNIQUE,
			dive_number       DOUBLE,
			dive_start_unix   DOUBLE,
			dive_end_unix     DOUBLE,
			dive_mid_unix     BIGINT,
			max_depth_m       DOUBLE,
			mean_depth_m      DOUBLE,
			sample_count      BIGINT,
			distance_m        DOUBLE,
			depth_threshold_m DOUBLE,
			model_version     TEXT,
			run_id            TEXT,
			created_at        DOUBLE,
			updated_at        DOUBLE
		);
	`)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// OpenDB opens the database at path without touching the schema. Used by the
// migrate subcommands, which manage the schema themselves.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// Sample is one depth/position fix from the glider's telemetry stream.
type Sample struct {
	Time  time.Time
	Depth float64
	Lat   sql.NullFloat64
	Lon   sql.NullFloat64
}

// RecordSample stores a single telemetry sample. Depth is in meters; lat and
// lon may be invalid when the glider was submerged and had no GPS fix.
func (db *DB) RecordSample(s Sample) error {
	_, err := db.Exec(
		`INSERT INTO glider_samples (sample_unix, depth_m, lat, lon) VALUES (?, ?, ?, ?)`,
		float64(s.Time.UnixNano())/1e9, s.Depth, s.Lat, s.Lon,
	)
	if err != nil {
		return err
	}
	return nil
}

// SamplesInRange returns samples with sample_unix in [start, end], ordered by
// time ascending.
func (db *DB) SamplesInRange(start, end float64) ([]Sample, error) {
	rows, err := db.Query(
		`SELECT sample_unix, depth_m, lat, lon
		FROM glider_samples
		WHERE sample_unix BETWEEN ? AND ?
		ORDER BY sample_unix`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var unix, depth float64
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&unix, &depth, &lat, &lon); err != nil {
			return nil, err
		}
		sec := int64(unix)
		nsec := int64((unix - float64(sec)) * 1e9)
		samples = append(samples, Sample{
			Time:  time.Unix(sec, nsec).UTC(),
			Depth: depth,
			Lat:   lat,
			Lon:   lon,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// Dive is one segmented dive summary produced by the dive worker.
type Dive struct {
	DiveID       int64   `json:"dive_id"`
	DiveNumber   float64 `json:"dive_number"`
	StartUnix    float64 `json:"start_unix"`
	EndUnix      float64 `json:"end_unix"`
	MidUnix      int64   `json:"mid_unix"`
	MaxDepth     float64 `json:"max_depth"`
	MeanDepth    float64 `json:"mean_depth"`
	SampleCount  int64   `json:"sample_count"`
	DistanceM    float64 `json:"distance_m"`
	ModelVersion string  `json:"model_version"`
}

// Dives returns the most recent dives, newest first, up to limit.
func (db *DB) Dives(limit int) ([]Dive, error) {
	rows, err := db.Query(
		`SELECT dive_id, dive_number, dive_start_unix, dive_end_unix, dive_mid_unix,
			max_depth_m, mean_depth_m, sample_count, distance_m, model_version
		FROM glider_dives
		ORDER BY dive_start_unix DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dives []Dive
	for rows.Next() {
		var d Dive
		if err := rows.Scan(
			&d.DiveID,
			&d.DiveNumber,
			&d.StartUnix,
			&d.EndUnix,
			&d.MidUnix,
			&d.MaxDepth,
			&d.MeanDepth,
			&d.SampleCount,
			&d.DistanceM,
			&d.ModelVersion,
		); err != nil {
			return nil, err
		}
		dives = append(dives, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dives, nil
}

// DiveRollupRow is one day of aggregated dive activity.
type DiveRollupRow struct {
	Day        string  `json:"day"`
	DiveCount  int64   `json:"dive_count"`
	MaxDepth   float64 `json:"max_depth"`
	MeanDepth  float64 `json:"mean_depth"`
	TotalDistM float64 `json:"total_distance_m"`
}

// DiveRollup aggregates dives per UTC day over the trailing number of days.
func (db *DB) DiveRollup(days int) ([]DiveRollupRow, error) {
	rows, err := db.Query(
		`SELECT
			DATE(dive_start_unix, 'unixepoch') AS day,
			COUNT(*),
			MAX(max_depth_m),
			AVG(mean_depth_m),
			SUM(distance_m)
		FROM glider_dives
		WHERE dive_start_unix >= UNIXEPOCH('now') - ? * 86400
		GROUP BY day
		ORDER BY day DESC`,
		days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rollup []DiveRollupRow
	for rows.Next() {
		var r DiveRollupRow
		if err := rows.Scan(&r.Day, &r.DiveCount, &r.MaxDepth, &r.MeanDepth, &r.TotalDistM); err != nil {
			return nil, err
		}
		rollup = append(rollup, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rollup, nil
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://dive.db", db.DB, &tailsql.DBOptions{
		Label: "Dive DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		// Send the backup file to the client
		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := gzipWriter.Write([]byte{}); err != nil {
			// Need to write something to initialize the gzip header
			http.Error(w, fmt.Sprintf("Failed to initialize gzip writer: %v", err), http.StatusInternalServerError)
			return
		}

		// Copy the backup file content to the gzip writer
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
