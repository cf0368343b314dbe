package lidar

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/botarena/internal/world"
)

// Stats summarizes one sweep for console diagnostics.
type Stats struct {
	Detected      int
	ObstacleHits  int
	BoundaryHits  int
	MinDistance   float64
	MeanDistance  float64
	MeanIntensity float64
}

// Stats computes summary statistics over the detected readings. Zero-value
// stats are returned for a sweep with no returns.
func (s Sweep) Stats() Stats {
	var out Stats
	var distances, intensities []float64
	for _, r := range s {
		if !r.Detected() {
			continue
		}
		out.Detected++
		if r.Kind == world.HitObstacle {
			out.ObstacleHits++
		} else {
			out.BoundaryHits++
		}
		distances = append(distances, r.Distance)
		intensities = append(intensities, float64(r.Intensity))
	}
	if out.Detected == 0 {
		return out
	}
	out.MinDistance = floats.Min(distances)
	out.MeanDistance = stat.Mean(distances, nil)
	out.MeanIntensity = stat.Mean(intensities, nil)
	return out
}

// WriteTable prints the sweep as a formatted table. With showAll false it
// prints the first ten, middle five, and last ten readings with ellipses in
// between, matching the console diagnostics the sensor shipped with.
func (s Sweep) WriteTable(w io.Writer, showAll bool) {
	fmt.Fprintf(w, "\nLIDAR Sweep (%d readings, %d detected)\n", len(s), s.DetectedCount())
	rule := strings.Repeat("-", 58)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%10s %14s %11s %10s\n", "Angle (°)", "Distance (m)", "Intensity", "Hit")
	fmt.Fprintln(w, rule)

	printRow := func(r Reading) {
		fmt.Fprintf(w, "%10d %14.2f %11d %10s\n", r.Angle, r.Distance, r.Intensity, r.Kind)
	}

	if showAll || len(s) <= 25 {
		for _, r := range s {
			printRow(r)
		}
	} else {
		for _, r := range s[:10] {
			printRow(r)
		}
		fmt.Fprintln(w, "       ...")
		mid := len(s) / 2
		for _, r := range s[mid-2 : mid+3] {
			printRow(r)
		}
		fmt.Fprintln(w, "       ...")
		for _, r := range s[len(s)-10:] {
			printRow(r)
		}
	}

	fmt.Fprintln(w, rule)
	if len(s) > 0 {
		fmt.Fprintf(w, "Sweep timestamp: %s\n", s[0].Timestamp.Format("15:04:05.000"))
	}
}
