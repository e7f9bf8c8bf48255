// Command segment-track segments a glider depth track CSV into dives and
// writes the per-sample phase, dive number, and dive mid time. A second
// sensor CSV (e.g. temperature sampled on its own clock) can be merged onto
// the track's timestamps with bounded interpolation.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pelagic-data/dive.report/internal/glider"
	"github.com/pelagic-data/dive.report/internal/profiles"
	"github.com/pelagic-data/dive.report/internal/series"
)

func main() {
	input := flag.String("in", "track.csv", "input track CSV (time,depth_m[,lat,lon])")
	output := flag.String("out", "segmented.csv", "output path")
	threshold := flag.Float64("threshold", glider.DefaultDiveDepthThreshold, "dive depth threshold in meters")
	mergePath := flag.String("merge", "", "optional sensor CSV (time,<name>) to merge onto the track")
	interpLim := flag.Int("interp-lim", series.DefaultInterpLim, "max consecutive samples to fill when merging")
	flag.Parse()

	times, depths, err := readTrack(*input)
	if err != nil {
		log.Fatalf("failed to read track: %v", err)
	}
	if len(times) < 2 {
		log.Fatalf("track %s has %d samples, need at least 2", *input, len(times))
	}

	velocity, err := glider.VertVelocity(times, depths)
	if err != nil {
		log.Fatalf("failed to compute vertical velocity: %v", err)
	}
	phases, err := glider.ClassifyPhases(depths, velocity, *threshold)
	if err != nil {
		log.Fatalf("failed to classify phases: %v", err)
	}
	dives := glider.DiveNumbers(phases)

	ix := profiles.GroupByDive(dives)
	midTimes, err := profiles.DiveMidTimes(ix, times)
	if err != nil {
		log.Fatalf("failed to compute dive mid times: %v", err)
	}

	header := []string{"time", "depth_m", "velocity_cmps", "phase", "dive", "dive_mid"}
	var mergedName string
	var merged []float64
	if *mergePath != "" {
		mergedName, merged, err = mergeSensor(*mergePath, times, *interpLim)
		if err != nil {
			log.Fatalf("failed to merge %s: %v", *mergePath, err)
		}
		header = append(header, mergedName)
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}
	for i := range times {
		row := []string{
			times[i].UTC().Format(time.RFC3339),
			formatFloat(depths[i]),
			formatFloat(velocity[i]),
			phases[i].String(),
			formatFloat(dives[i]),
			midTimes[i].UTC().Format(time.RFC3339),
		}
		if merged != nil {
			row = append(row, formatFloat(merged[i]))
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("failed to write row %d: %v", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}

	stats, err := profiles.DiveStats(ix, times, depths)
	if err != nil {
		log.Fatalf("failed to summarize dives: %v", err)
	}
	for _, st := range stats {
		if st.Dive == 0 {
			continue
		}
		log.Printf("dive %.1f: %d samples, max depth %.1fm, %s to %s",
			st.Dive, st.Samples, st.MaxDepth,
			st.Start.UTC().Format(time.RFC3339), st.End.UTC().Format(time.RFC3339))
	}
	log.Printf("✓ Created: %s (%d samples)", *output, len(times))
}

// readTrack parses a CSV with a header row and at least time and depth_m
// columns. Times are RFC3339.
func readTrack(path string) ([]time.Time, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}

	var times []time.Time
	var depths []float64
	for i, rec := range records[1:] {
		if len(rec) < 2 {
			return nil, nil, fmt.Errorf("row %d has %d fields, need at least 2", i+2, len(rec))
		}
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d time: %w", i+2, err)
		}
		depth, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d depth: %w", i+2, err)
		}
		times = append(times, ts)
		depths = append(depths, depth)
	}
	return times, depths, nil
}

// mergeSensor reads a (time,<name>) CSV and aligns its values onto the track
// timestamps, filling short gaps up to interpLim samples.
func mergeSensor(path string, trackTimes []time.Time, interpLim int) (string, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return "", nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return "", nil, fmt.Errorf("sensor CSV %s needs a header and data rows", path)
	}
	name := records[0][1]

	var sensorTimes []time.Time
	var values []float64
	for i, rec := range records[1:] {
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return "", nil, fmt.Errorf("row %d time: %w", i+2, err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return "", nil, fmt.Errorf("row %d value: %w", i+2, err)
		}
		sensorTimes = append(sensorTimes, ts)
		values = append(values, v)
	}

	track := series.NewTimeFrame(trackTimes)
	sensor := series.NewTimeFrame(sensorTimes)
	if err := sensor.AddColumn(name, values); err != nil {
		return "", nil, err
	}

	mergedFrame, err := series.Merge(track, sensor, interpLim)
	if err != nil {
		return "", nil, err
	}
	col, ok := mergedFrame.Column(name)
	if !ok {
		return "", nil, fmt.Errorf("merged frame is missing column %q", name)
	}
	return name, col, nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
