// Package store persists processed frames to sqlite for offline analysis.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rajiv-sit/ultrasound-processor/dispatch"
	"github.com/rajiv-sit/ultrasound-processor/uss"
)

// Recorder writes one run row per session and one frame row per processed
// frame, plus the clustered detections.
type Recorder struct {
	db    *sql.DB
	runID string
}

// NewRecorder opens (or creates) the database and starts a new run.
func NewRecorder(path string, config uss.Config) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			group_filter      TEXT,
			method            TEXT,
			min_range_m       DOUBLE,
			max_range_m       DOUBLE,
			cluster_radius_m  DOUBLE
		);
		CREATE TABLE IF NOT EXISTS frames (
			run_id            TEXT,
			timestamp_us      BIGINT,
			pose_x_m          DOUBLE,
			pose_y_m          DOUBLE,
			pose_yaw_rad      DOUBLE,
			signal_ways       BIGINT,
			fused_count       BIGINT,
			clustered_count   BIGINT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS detections (
			run_id            TEXT,
			timestamp_us      BIGINT,
			x_m               DOUBLE,
			y_m               DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	runID := uuid.New().String()
	_, err = db.Exec(
		`INSERT INTO runs (run_id, started_at, group_filter, method, min_range_m, max_range_m, cluster_radius_m)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), config.GroupFilter.String(), config.ProcessingMethod.String(),
		config.MinRange, config.MaxRange, config.ClusterRadius,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to insert run row: %w", err)
	}

	return &Recorder{db: db, runID: runID}, nil
}

// RunID returns the id of the current run.
func (r *Recorder) RunID() string {
	return r.runID
}

// RecordFrame persists one published frame and its clustered detections.
func (r *Recorder) RecordFrame(frame *uss.FrameOutput) error {
	_, err := r.db.Exec(
		`INSERT INTO frames (run_id, timestamp_us, pose_x_m, pose_y_m, pose_yaw_rad, signal_ways, fused_count, clustered_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, int64(frame.TimestampUs),
		frame.ObservationPose.X, frame.ObservationPose.Y, frame.ObservationPose.Yaw,
		len(frame.SignalWays), len(frame.Processed.Fused), len(frame.Processed.Clustered),
	)
	if err != nil {
		return fmt.Errorf("failed to insert frame row: %w", err)
	}
	for _, p := range frame.Processed.Clustered {
		_, err := r.db.Exec(
			`INSERT INTO detections (run_id, timestamp_us, x_m, y_m) VALUES (?, ?, ?, ?)`,
			r.runID, int64(frame.TimestampUs), p.X, p.Y,
		)
		if err != nil {
			return fmt.Errorf("failed to insert detection row: %w", err)
		}
	}
	return nil
}

// FrameCount reports the frame rows stored for the current run.
func (r *Recorder) FrameCount() (int64, error) {
	var n int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM frames WHERE run_id = ?`, r.runID).Scan(&n)
	return n, err
}

// Attach registers the recorder as a processed-detections sink. Only counts
// and points are available on that channel, so sink-driven recording stores
// a reduced frame row.
func (r *Recorder) Attach(reg *dispatch.Registry) {
	reg.RegisterProcessedDetections(func(det uss.ProcessedDetections, ts uint64) {
		frame := uss.FrameOutput{TimestampUs: ts, Processed: det}
		// Best effort; the pipeline never fails on recorder errors.
		_ = r.RecordFrame(&frame)
	})
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
