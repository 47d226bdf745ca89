package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rajiv-sit/ultrasound-processor/replay"
	"github.com/rajiv-sit/ultrasound-processor/uss"
	"github.com/rajiv-sit/ultrasound-processor/web"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: visualizer [flags] <input.csv> [processor_config.ini] [vehicle_config.ini]")
	flag.PrintDefaults()
}

func main() {
	port := flag.Int("listen", 8080, "HTTP listen port")
	fps := flag.Float64("fps", 15.0, "Playback frames per second")
	noLoop := flag.Bool("no-loop", false, "Stop at the last frame instead of looping")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || len(args) > 3 {
		usage()
		os.Exit(1)
	}

	config := uss.DefaultConfig()
	if len(args) >= 2 {
		var err error
		config, err = uss.LoadConfigINI(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config load error: %v\n", err)
			os.Exit(1)
		}
	}

	settings := web.DefaultSettings()
	settings.PlaybackFps = *fps
	settings.LoopPlayback = !*noLoop
	if len(args) >= 3 {
		geometry, err := uss.LoadVehicleGeometryINI(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Vehicle geometry load warning: %v\n", err)
		} else {
			settings.VehicleGeometry = geometry
		}
	}

	processor := uss.NewProcessor(config)
	for t := uint64(0); t <= 5_000_000; t += 50_000 {
		state := uss.VehicleState{
			TimestampUs: t,
			Pose:        uss.Pose2D{X: float64(t) * 1e-6},
		}
		if err := processor.PushVehicleState(state); err != nil {
			fmt.Fprintf(os.Stderr, "Seed state error: %v\n", err)
			os.Exit(1)
		}
	}

	frames, err := replay.LoadCSV(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Replay load error: %v\n", err)
		os.Exit(1)
	}

	outputs := make([]uss.FrameOutput, 0, len(frames))
	for i := range frames {
		if err := processor.ProcessFrame(&frames[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Dropped frame @%d reason=%v\n", frames[i].TimestampUs, err)
			continue
		}
		if out := processor.LastOutput(); out != nil {
			outputs = append(outputs, *out)
		}
	}

	if len(outputs) == 0 {
		fmt.Fprintln(os.Stderr, "No valid frames available for visualization.")
		os.Exit(1)
	}

	server := web.NewServer(outputs, settings)
	if err := server.Start(*port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
