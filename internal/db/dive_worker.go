package db

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/pelagic-data/dive.report/internal/geo"
	"github.com/pelagic-data/dive.report/internal/glider"
	"github.com/pelagic-data/dive.report/internal/profiles"
	"github.com/pelagic-data/dive.report/internal/timeutil"
)

// DiveWorker periodically scans recent glider_samples and upserts segmented
// dives into glider_dives. Designed to run every 15 minutes and process the
// last 20 minutes window (with a small overlap to allow updates).
type DiveWorker struct {
	DB *DB
	// DepthThreshold in meters separating surface drift from dive phases.
	DepthThreshold float64
	ModelVersion   string
	Interval       time.Duration // how often to run (e.g., 15m)
	Window         time.Duration // lookback window (e.g., 20m)
	Clock          timeutil.Clock
	StopChan       chan struct{}
}

func NewDiveWorker(db *DB, depthThreshold float64, modelVersion string) *DiveWorker {
	return &DiveWorker{
		DB:             db,
		DepthThreshold: depthThreshold,
		ModelVersion:   modelVersion,
		Interval:       15 * time.Minute,
		Window:         20 * time.Minute,
		Clock:          timeutil.RealClock{},
		StopChan:       make(chan struct{}),
	}
}

// Start runs the periodic worker loop in a goroutine.
func (w *DiveWorker) Start() {
	go func() {
		ticker := w.Clock.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				if err := w.RunOnce(context.Background()); err != nil {
					log.Printf("dive worker run error: %v", err)
				}
			case <-w.StopChan:
				return
			}
		}
	}()
}

// Stop requests the worker to stop.
func (w *DiveWorker) Stop() {
	close(w.StopChan)
}

// RunOnce scans the last w.Window (+ small overlap) and upserts dives.
func (w *DiveWorker) RunOnce(ctx context.Context) error {
	now := w.Clock.Now().UTC()
	end := float64(now.Unix())
	start := float64(now.Add(-w.Window).Unix())

	return w.RunRange(ctx, start, end)
}

// RunFullHistory scans the full available glider_samples range and upserts dives.
func (w *DiveWorker) RunFullHistory(ctx context.Context) error {
	var start sql.NullFloat64
	var end sql.NullFloat64
	if err := w.DB.QueryRowContext(ctx, `SELECT MIN(sample_unix), MAX(sample_unix) FROM glider_samples`).Scan(&start, &end); err != nil {
		return err
	}
	if !start.Valid || !end.Valid {
		log.Printf("Dive worker full-history run skipped (no glider samples)")
		return nil
	}
	if start.Float64 >= end.Float64 {
		log.Printf("Dive worker full-history run skipped (invalid range): start=%v end=%v", start.Float64, end.Float64)
		return nil
	}
	return w.RunRange(ctx, start.Float64, end.Float64)
}

// RunRange scans the provided [start,end] (unix seconds as float64) and upserts dives.
func (w *DiveWorker) RunRange(ctx context.Context, start, end float64) error {
	runID := uuid.NewString()

	tx, err := w.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			// ErrTxDone means transaction was already committed/rolled back
			log.Printf("warning: failed to rollback transaction: %v", err)
		}
	}()

	// Delete overlapping dives with the same model_version before inserting.
	// This handles periodic re-runs and window overlaps, preventing duplicates.
	// We delete dives that:
	// 1. Start within the processing range, OR
	// 2. End within the processing range, OR
	// 3. Span the entire processing range
	deleteQuery := `
		DELETE FROM glider_dives
		WHERE model_version = ?
		  AND (
			  (dive_start_unix BETWEEN ? AND ?)
			  OR (dive_end_unix BETWEEN ? AND ?)
			  OR (dive_start_unix <= ? AND dive_end_unix >= ?)
		  )
	`
	result, err := tx.ExecContext(ctx, deleteQuery,
		w.ModelVersion,
		start, end, // dive starts in range
		start, end, // dive ends in range
		start, end, // dive spans entire range
	)
	if err != nil {
		return fmt.Errorf("failed to delete overlapping dives: %w", err)
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		log.Printf("Dive worker %s: deleted %d overlapping %s dives in range [%v, %v]",
			runID, deleted, w.ModelVersion, start, end)
	}

	q := `
		SELECT
			sample_unix,
			depth_m,
			lat,
			lon
		FROM
			glider_samples
		WHERE
			sample_unix BETWEEN ? AND ?
			AND depth_m IS NOT NULL
		ORDER BY
			sample_unix
	`

	rows, err := tx.QueryContext(ctx, q, start, end)
	if err != nil {
		return err
	}
	defer rows.Close()

	var (
		times  []time.Time
		depths []float64
		lats   []sql.NullFloat64
		lons   []sql.NullFloat64
	)
	for rows.Next() {
		var unix, depth float64
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&unix, &depth, &lat, &lon); err != nil {
			return err
		}
		sec := int64(unix)
		nsec := int64((unix - float64(sec)) * 1e9)
		times = append(times, time.Unix(sec, nsec).UTC())
		depths = append(depths, depth)
		lats = append(lats, lat)
		lons = append(lons, lon)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(times) < 2 {
		// Nothing to segment; keep the deletes so stale dives don't linger.
		return tx.Commit()
	}

	diveNumbers, err := glider.NumberTrack(times, depths, w.DepthThreshold)
	if err != nil {
		return fmt.Errorf("failed to segment samples: %w", err)
	}

	ix := profiles.GroupByDive(diveNumbers)
	stats, err := profiles.DiveStats(ix, times, depths)
	if err != nil {
		return fmt.Errorf("failed to summarize dives: %w", err)
	}

	upsertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO glider_dives (
			dive_key,
			dive_number,
			dive_start_unix,
			dive_end_unix,
			dive_mid_unix,
			max_depth_m,
			mean_depth_m,
			sample_count,
			distance_m,
			depth_threshold_m,
			model_version,
			run_id,
			created_at,
			updated_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, UNIXEPOCH('subsec'), UNIXEPOCH('subsec')
		)
		ON CONFLICT(dive_key) DO UPDATE SET
			dive_end_unix = excluded.dive_end_unix,
			dive_mid_unix = excluded.dive_mid_unix,
			max_depth_m = excluded.max_depth_m,
			mean_depth_m = excluded.mean_depth_m,
			sample_count = excluded.sample_count,
			distance_m = excluded.distance_m,
			model_version = excluded.model_version,
			run_id = excluded.run_id,
			updated_at = UNIXEPOCH('subsec')
	`)
	if err != nil {
		return err
	}
	defer upsertStmt.Close()

	// generate stable dive keys using SHA1(start|threshold|model_version)
	// Note: we intentionally omit end time so the key doesn't change as new samples extend the dive

	upserted := 0
	for _, st := range stats {
		// dive number 0 is surface drift before the first descent
		if st.Dive == 0 {
			continue
		}

		distance, err := w.diveDistance(ix.Rows(st.Dive), lats, lons)
		if err != nil {
			return fmt.Errorf("failed to compute dive distance: %w", err)
		}

		startUnix := float64(st.Start.UnixNano()) / 1e9
		endUnix := float64(st.End.UnixNano()) / 1e9

		// use integer start second for stable key
		keyRaw := fmt.Sprintf("%d|%g|%s", int64(math.Floor(startUnix)), w.DepthThreshold, w.ModelVersion)
		sum := sha1.Sum([]byte(keyRaw))
		diveKey := fmt.Sprintf("%x", sum)

		meanDepth := st.MeanDepth
		maxDepth := st.MaxDepth
		if math.IsNaN(meanDepth) {
			meanDepth = 0
		}
		if math.IsNaN(maxDepth) {
			maxDepth = 0
		}

		_, err = upsertStmt.ExecContext(ctx,
			diveKey,
			st.Dive,
			startUnix,
			endUnix,
			st.Mid.Unix(),
			maxDepth,
			meanDepth,
			int64(st.Samples),
			distance,
			w.DepthThreshold,
			w.ModelVersion,
			runID,
		)
		if err != nil {
			return err
		}
		upserted++
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if upserted > 0 {
		log.Printf("Dive worker %s: upserted %d dives in range [%v, %v]", runID, upserted, start, end)
	}
	return nil
}

// diveDistance sums the surface track distance between consecutive GPS fixes
// within one dive. Samples without a fix are skipped.
func (w *DiveWorker) diveDistance(rowIdx []int, lats, lons []sql.NullFloat64) (float64, error) {
	var lon, lat []float64
	for _, r := range rowIdx {
		if !lats[r].Valid || !lons[r].Valid {
			continue
		}
		lon = append(lon, lons[r].Float64)
		lat = append(lat, lats[r].Float64)
	}
	if len(lon) < 2 {
		return 0, nil
	}
	dists, err := geo.Distances(lon, lat)
	if err != nil {
		return 0, err
	}
	return floats.Sum(dists), nil
}

// MigrateModelVersion replaces all dives from oldVersion with the worker's
// current ModelVersion by deleting old dives and re-running over full history.
func (w *DiveWorker) MigrateModelVersion(ctx context.Context, oldVersion string) error {
	if oldVersion == w.ModelVersion {
		return fmt.Errorf("old and new model versions must differ (both are %q)", oldVersion)
	}

	log.Printf("Dive worker: migrating from %s to %s", oldVersion, w.ModelVersion)

	result, err := w.DB.ExecContext(ctx,
		`DELETE FROM glider_dives WHERE model_version = ?`,
		oldVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to delete old version dives: %w", err)
	}

	deleted, _ := result.RowsAffected()
	log.Printf("Dive worker: deleted %d %s dives", deleted, oldVersion)

	return w.RunFullHistory(ctx)
}

// DeleteAllDives removes all dives for a given model version.
func (w *DiveWorker) DeleteAllDives(ctx context.Context, modelVersion string) (int64, error) {
	result, err := w.DB.ExecContext(ctx,
		`DELETE FROM glider_dives WHERE model_version = ?`,
		modelVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete dives: %w", err)
	}
	return result.RowsAffected()
}
