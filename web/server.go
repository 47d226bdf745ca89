package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

// Settings mirror the desktop viewer defaults: looping playback at 15 fps.
type Settings struct {
	StartPaused     bool
	LoopPlayback    bool
	PlaybackFps     float64
	VehicleGeometry uss.VehicleGeometry
}

// DefaultSettings returns the reference playback settings.
func DefaultSettings() Settings {
	return Settings{
		LoopPlayback: true,
		PlaybackFps:  15.0,
	}
}

// Server streams processed frames to browser clients.
type Server struct {
	Hub      *Hub
	frames   []uss.FrameOutput
	settings Settings
}

func NewServer(frames []uss.FrameOutput, settings Settings) *Server {
	return &Server{
		Hub:      NewHub(),
		frames:   frames,
		settings: settings,
	}
}

type frameMessage struct {
	Type        string      `json:"type"`
	Index       int         `json:"index"`
	Total       int         `json:"total"`
	TimestampUs uint64      `json:"timestamp_us"`
	Pose        uss.Pose2D  `json:"pose"`
	SignalWays  int         `json:"signal_ways"`
	Tracing     []uss.Point `json:"tracing"`
	Fov         []uss.Point `json:"fov"`
	Ellipse     []uss.Point `json:"ellipse"`
	Fused       []uss.Point `json:"fused"`
	Clustered   []uss.Point `json:"clustered"`
}

type sceneMessage struct {
	Type    string                  `json:"type"`
	Contour []uss.ContourPoint      `json:"contour"`
	Sensors []uss.SensorCalibration `json:"sensors"`
	Fps     float64                 `json:"fps"`
	Frames  int                     `json:"frames"`
}

func (s *Server) frameJSON(i int) []byte {
	frame := &s.frames[i]
	msg := frameMessage{
		Type:        "frame",
		Index:       i,
		Total:       len(s.frames),
		TimestampUs: frame.TimestampUs,
		Pose:        frame.ObservationPose,
		SignalWays:  len(frame.SignalWays),
		Tracing:     frame.Processed.Tracing,
		Fov:         frame.Processed.FovIntersections,
		Ellipse:     frame.Processed.EllipseIntersections,
		Fused:       frame.Processed.Fused,
		Clustered:   frame.Processed.Clustered,
	}
	payload, _ := json.Marshal(msg)
	return payload
}

// playbackLoop broadcasts frames at the configured fps, looping when asked.
func (s *Server) playbackLoop() {
	fps := s.settings.PlaybackFps
	if fps <= 0 {
		fps = 15.0
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	i := 0
	for range ticker.C {
		if len(s.frames) == 0 {
			continue
		}
		s.Hub.Broadcast(s.frameJSON(i))
		i++
		if i >= len(s.frames) {
			if !s.settings.LoopPlayback {
				return
			}
			i = 0
		}
	}
}

// Start serves the viewer until the process exits.
func (s *Server) Start(port int) error {
	go s.Hub.Run()
	if !s.settings.StartPaused {
		go s.playbackLoop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, viewerPage)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.Hub, w, r)
	})
	mux.HandleFunc("/scene", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sceneMessage{
			Type:    "scene",
			Contour: s.settings.VehicleGeometry.Contour,
			Sensors: s.settings.VehicleGeometry.Sensors,
			Fps:     s.settings.PlaybackFps,
			Frames:  len(s.frames),
		})
	})
	mux.HandleFunc("/snapshot", s.handleSnapshot)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("HTTP Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
