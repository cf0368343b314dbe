// Command botsim runs a scripted arena scenario against the simulator core:
// it builds a world, places the bot, starts continuous scanning, and prints
// sweep summaries until the duration elapses or the process is interrupted.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/botarena/internal/bot"
	"github.com/banshee-data/botarena/internal/config"
	"github.com/banshee-data/botarena/internal/lidar"
	"github.com/banshee-data/botarena/internal/world"
)

var (
	configPath = flag.String("config", "", "Path to a JSON tuning file (optional)")
	duration   = flag.Duration("duration", 5*time.Second, "How long to scan before exiting")
	showAll    = flag.Bool("show-all", false, "Print every reading of the final sweep")
)

func main() {
	flag.Parse()

	cfg := config.DefaultSimConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg.Merge(loaded)
	}
	settings := cfg.Resolve()

	w, err := world.New(settings.ArenaWidth, settings.ArenaHeight)
	if err != nil {
		log.Fatalf("Failed to create arena: %v", err)
	}

	// Scenario: a couple of obstacles, one wall, bot near the top-right
	// corner so the sweep shows both obstacle and boundary returns.
	if err := w.AddObstacle(18, 20, 0.5); err != nil {
		log.Fatalf("Failed to add obstacle: %v", err)
	}
	if err := w.AddObstacle(20, 18, 0.8); err != nil {
		log.Fatalf("Failed to add obstacle: %v", err)
	}
	if _, err := w.AddWallSegment(14, 24, 20, 24, 0.3); err != nil {
		log.Fatalf("Failed to add wall: %v", err)
	}
	if err := w.SetBotPose(settings.ArenaWidth*0.88, settings.ArenaHeight*0.88, 0); err != nil {
		log.Fatalf("Failed to place bot: %v", err)
	}

	jitter := settings.IntensityJitter
	if jitter == 0 {
		jitter = -1 // engine convention: negative disables
	}
	b, err := bot.New(bot.Config{
		World:            w,
		LidarFrequencyHz: settings.LidarFrequencyHz,
		LidarMaxRange:    settings.LidarMaxRange,
		IntensityJitter:  jitter,
		SonarMaxRange:    settings.SonarMaxRange,
		SonarMinRange:    settings.SonarMinRange,
		StepMeters:       settings.StepMeters,
		TurnStepDegrees:  settings.TurnStepDegrees,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	if err := b.Initialize(); err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	defer b.Shutdown()

	fmt.Println(w.String())

	scanCount := 0
	err = b.StartScanning(func(sweep lidar.Sweep) {
		scanCount++
		stats := sweep.Stats()
		log.Printf("[sweep %d] detected %d/360 (obstacles %d, boundary %d), min %.2fm, mean intensity %.0f",
			scanCount, stats.Detected, stats.ObstacleHits, stats.BoundaryHits, stats.MinDistance, stats.MeanIntensity)
	})
	if err != nil {
		log.Fatalf("Failed to start scanning: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-time.After(*duration):
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}

	b.StopScanning()

	if latest := b.LatestScan(); latest != nil {
		latest.WriteTable(os.Stdout, *showAll)

		pose, _ := w.Pose()
		walls := latest.WallPoints(pose.Point(), w.Bounds(), settings.BoundaryTolerance)
		fmt.Printf("Wall detections: %d\n", len(walls))
		for i, wp := range walls {
			if i >= 10 {
				fmt.Printf("  ... and %d more\n", len(walls)-10)
				break
			}
			fmt.Printf("  %3d°  (%.2f, %.2f)  %s\n", wp.Angle, wp.Point.X, wp.Point.Y, wp.Edges)
		}
	}
}
