// Command import-samples loads a glider telemetry CSV (time,depth_m,lat,lon)
// into the sqlite database so the dive worker can segment it.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pelagic-data/dive.report/internal/db"
	"github.com/pelagic-data/dive.report/internal/glider"
)

func main() {
	dbFile := flag.String("db", "glider_data.db", "Path to the sqlite database")
	input := flag.String("in", "samples.csv", "input CSV (time,depth_m,lat,lon)")
	segment := flag.Bool("segment", false, "run the dive worker over the imported range")
	threshold := flag.Float64("threshold", glider.DefaultDiveDepthThreshold, "dive depth threshold in meters")
	modelVersion := flag.String("model-version", "phase-v1", "model version tag for segmented dives")
	flag.Parse()

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		log.Fatalf("failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatalf("no data rows in %s", *input)
	}

	imported := 0
	for i, rec := range records[1:] {
		if len(rec) < 2 {
			log.Fatalf("row %d has %d fields, need at least 2", i+2, len(rec))
		}
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			log.Fatalf("row %d time: %v", i+2, err)
		}
		depth, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			log.Fatalf("row %d depth: %v", i+2, err)
		}

		s := db.Sample{Time: ts, Depth: depth}
		// lat/lon are optional; blank fields mean no GPS fix
		if len(rec) >= 4 && rec[2] != "" && rec[3] != "" {
			lat, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				log.Fatalf("row %d lat: %v", i+2, err)
			}
			lon, err := strconv.ParseFloat(rec[3], 64)
			if err != nil {
				log.Fatalf("row %d lon: %v", i+2, err)
			}
			s.Lat = sql.NullFloat64{Float64: lat, Valid: true}
			s.Lon = sql.NullFloat64{Float64: lon, Valid: true}
		}

		if err := database.RecordSample(s); err != nil {
			log.Fatalf("row %d insert: %v", i+2, err)
		}
		imported++
	}
	log.Printf("✓ Imported %d samples into %s", imported, *dbFile)

	if *segment {
		worker := db.NewDiveWorker(database, *threshold, *modelVersion)
		if err := worker.RunFullHistory(context.Background()); err != nil {
			log.Fatalf("failed to segment imported samples: %v", err)
		}
		dives, err := database.Dives(10)
		if err != nil {
			log.Fatalf("failed to list dives: %v", err)
		}
		log.Printf("✓ Segmentation complete, %d most recent dives:", len(dives))
		for _, d := range dives {
			log.Printf("  dive %.1f: max depth %.1fm, %d samples", d.DiveNumber, d.MaxDepth, d.SampleCount)
		}
	}
}
