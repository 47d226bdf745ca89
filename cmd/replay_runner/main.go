package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rajiv-sit/ultrasound-processor/dispatch"
	"github.com/rajiv-sit/ultrasound-processor/replay"
	"github.com/rajiv-sit/ultrasound-processor/store"
	"github.com/rajiv-sit/ultrasound-processor/uss"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: replay_runner [flags] <input.csv> <output.csv> [config.ini]")
	flag.PrintDefaults()
}

func main() {
	dbPath := flag.String("db", "", "Optional sqlite database recording processed frames")
	udpAddr := flag.String("udp", "", "Optional UDP sink address (host:port) for all channels")
	mqttBroker := flag.String("mqtt-broker", "", "Optional MQTT broker host for the detections sink")
	mqttPort := flag.Int("mqtt-port", 1883, "MQTT broker port")
	mqttTopic := flag.String("mqtt-topic", "uss/detections", "MQTT topic for the detections sink")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 || len(args) > 3 {
		usage()
		os.Exit(1)
	}

	config := uss.DefaultConfig()
	if len(args) == 3 {
		var err error
		config, err = uss.LoadConfigINI(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config load error: %v\n", err)
			os.Exit(1)
		}
	}
	processor := uss.NewProcessor(config)

	registry := dispatch.NewRegistry()

	if *udpAddr != "" {
		sender := dispatch.NewUDPSender()
		if err := sender.AddTarget(*udpAddr, dispatch.FlagAll); err != nil {
			fmt.Fprintf(os.Stderr, "UDP sink error: %v\n", err)
			os.Exit(1)
		}
		if err := sender.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "UDP sink error: %v\n", err)
			os.Exit(1)
		}
		defer sender.Stop()
		sender.Attach(registry)
	}

	if *mqttBroker != "" {
		publisher, err := dispatch.NewMQTTPublisher(dispatch.MQTTConfig{
			Broker: *mqttBroker,
			Port:   *mqttPort,
			Topic:  *mqttTopic,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "MQTT sink error: %v\n", err)
			os.Exit(1)
		}
		defer publisher.Close()
		publisher.Attach(registry)
	}

	var recorder *store.Recorder
	if *dbPath != "" {
		var err error
		recorder, err = store.NewRecorder(*dbPath, config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Recorder open error: %v\n", err)
			os.Exit(1)
		}
		defer recorder.Close()
		log.Printf("Recording run %s to %s", recorder.RunID(), *dbPath)
	}

	var callbackFrames uint64

	// Deterministic ego ramp so converted captures replay reproducibly:
	// 0..5s at 50ms, creeping forward along x.
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
		out := processor.LastOutput()
		if out == nil {
			continue
		}
		outputs = append(outputs, *out)
		registry.Dispatch(out)
		callbackFrames++
		if recorder != nil {
			if err := recorder.RecordFrame(out); err != nil {
				log.Printf("record frame @%d: %v", out.TimestampUs, err)
			}
		}
	}

	if err := replay.WriteOutputCSV(args[1], outputs); err != nil {
		fmt.Fprintf(os.Stderr, "Output write error: %v\n", err)
		os.Exit(1)
	}

	diag := processor.Diagnostics()
	fmt.Printf("processed=%d dropped=%d\n", diag.ProcessedFrames, diag.DroppedFrames)
	fmt.Printf("filtered_signal_ways=%d clustered_detections=%d\n",
		diag.FilteredSignalWays, diag.ClusteredDetections)
	fmt.Printf("last_stage_us decode=%d interp=%d convert=%d post=%d publish=%d\n",
		diag.LastStageTiming.DecodeUs, diag.LastStageTiming.InterpolateUs,
		diag.LastStageTiming.ConvertUs, diag.LastStageTiming.PostprocessUs,
		diag.LastStageTiming.PublishUs)
	status := registry.QueryStatus()
	fmt.Printf("runtime_adapter_available=%t info=%q\n", status.Available, status.Description)
	fmt.Printf("runtime_callbacks_dispatched=%d\n", callbackFrames)
	registry.Clear()
}
