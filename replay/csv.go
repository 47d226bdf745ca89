// Package replay decodes replay capture CSVs into frame inputs, writes the
// per-frame result CSV, and converts legacy binary captures into replay CSVs.
package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

func isUnsignedNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// LoadCSV reads a replay file into timestamp-ordered frames. Rows sharing a
// timestamp merge into one frame. Lines starting with '#' and malformed rows
// are skipped so replays always make progress.
//
// Accepted shapes:
//
//	timestamp_us,distance_m,group_id,signal_way_id[,feat_x,feat_y,feat_valid]
//	SW,ts,distance,group,way
//	SF,ts,x,y,valid
//	DF,ts,x,y,vx,vy,valid
//	LM,ts,x0,y0,x1,y1,valid
//	GM,ts,rows,cols,cell_m,origin_x,origin_y,occ0;occ1;...
func LoadCSV(path string) ([]uss.FrameInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, uss.Errf(uss.CodeInvalidInput, "unable to open replay csv: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = -1

	byTimestamp := map[uint64]*uss.FrameInput{}
	target := func(ts uint64) *uss.FrameInput {
		frame, ok := byTimestamp[ts]
		if !ok {
			frame = &uss.FrameInput{TimestampUs: ts}
			byTimestamp[ts] = frame
		}
		return frame
	}

	for {
		cols, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row; keep the replay moving.
			continue
		}
		if len(cols) == 0 {
			continue
		}

		if isUnsignedNumber(cols[0]) {
			decodeLegacyRow(cols, target)
			continue
		}
		decodeTypedRow(cols, target)
	}

	frames := make([]uss.FrameInput, 0, len(byTimestamp))
	for _, frame := range byTimestamp {
		frames = append(frames, *frame)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].TimestampUs < frames[j].TimestampUs })
	return frames, nil
}

func decodeLegacyRow(cols []string, target func(uint64) *uss.FrameInput) {
	if len(cols) < 4 {
		return
	}
	ts, err := strconv.ParseUint(cols[0], 10, 64)
	if err != nil {
		return
	}
	distance, err1 := strconv.ParseFloat(cols[1], 64)
	group, err2 := strconv.ParseUint(cols[2], 10, 8)
	way, err3 := strconv.ParseUint(cols[3], 10, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}

	frame := target(ts)
	frame.SignalWays = append(frame.SignalWays, uss.SignalWay{
		TimestampUs: ts,
		Distance:    distance,
		GroupID:     uint8(group),
		SignalWayID: uint8(way),
	})

	if len(cols) >= 7 {
		x, err1 := strconv.ParseFloat(cols[4], 64)
		y, err2 := strconv.ParseFloat(cols[5], 64)
		valid, err3 := strconv.ParseUint(cols[6], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			return
		}
		frame.StaticFeatures = append(frame.StaticFeatures, uss.StaticFeature{X: x, Y: y, Valid: valid != 0})
	}
}

func decodeTypedRow(cols []string, target func(uint64) *uss.FrameInput) {
	if len(cols) < 3 {
		return
	}
	ts, err := strconv.ParseUint(cols[1], 10, 64)
	if err != nil {
		return
	}

	switch cols[0] {
	case "SW":
		if len(cols) < 5 {
			return
		}
		distance, err1 := strconv.ParseFloat(cols[2], 64)
		group, err2 := strconv.ParseUint(cols[3], 10, 8)
		way, err3 := strconv.ParseUint(cols[4], 10, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return
		}
		frame := target(ts)
		frame.SignalWays = append(frame.SignalWays, uss.SignalWay{
			TimestampUs: ts,
			Distance:    distance,
			GroupID:     uint8(group),
			SignalWayID: uint8(way),
		})
	case "SF":
		if len(cols) < 5 {
			return
		}
		x, err1 := strconv.ParseFloat(cols[2], 64)
		y, err2 := strconv.ParseFloat(cols[3], 64)
		valid, err3 := strconv.ParseUint(cols[4], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			return
		}
		frame := target(ts)
		frame.StaticFeatures = append(frame.StaticFeatures, uss.StaticFeature{X: x, Y: y, Valid: valid != 0})
	case "DF":
		if len(cols) < 7 {
			return
		}
		x, err1 := strconv.ParseFloat(cols[2], 64)
		y, err2 := strconv.ParseFloat(cols[3], 64)
		vx, err3 := strconv.ParseFloat(cols[4], 64)
		vy, err4 := strconv.ParseFloat(cols[5], 64)
		valid, err5 := strconv.ParseUint(cols[6], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return
		}
		frame := target(ts)
		frame.DynamicFeatures = append(frame.DynamicFeatures, uss.DynamicFeature{
			X: x, Y: y, VxMps: vx, VyMps: vy, Valid: valid != 0,
		})
	case "LM":
		if len(cols) < 7 {
			return
		}
		x0, err1 := strconv.ParseFloat(cols[2], 64)
		y0, err2 := strconv.ParseFloat(cols[3], 64)
		x1, err3 := strconv.ParseFloat(cols[4], 64)
		y1, err4 := strconv.ParseFloat(cols[5], 64)
		valid, err5 := strconv.ParseUint(cols[6], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return
		}
		frame := target(ts)
		frame.LineMarks = append(frame.LineMarks, uss.LineMark{
			X0: x0, Y0: y0, X1: x1, Y1: y1, Valid: valid != 0,
		})
	case "GM":
		if len(cols) < 8 {
			return
		}
		rows, err1 := strconv.ParseUint(cols[2], 10, 32)
		gridCols, err2 := strconv.ParseUint(cols[3], 10, 32)
		cell, err3 := strconv.ParseFloat(cols[4], 64)
		originX, err4 := strconv.ParseFloat(cols[5], 64)
		originY, err5 := strconv.ParseFloat(cols[6], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return
		}
		gm := uss.GridMap{
			Rows:     uint32(rows),
			Cols:     uint32(gridCols),
			CellSize: cell,
			OriginX:  originX,
			OriginY:  originY,
			Valid:    true,
		}
		for _, token := range strings.Split(cols[7], ";") {
			if token == "" {
				continue
			}
			v, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return
			}
			gm.Occupancy = append(gm.Occupancy, v)
		}
		if uint64(len(gm.Occupancy)) == rows*gridCols {
			target(ts).GridMap = gm
		}
	}
}

// WriteOutputCSV writes the per-frame summary rows.
func WriteOutputCSV(path string, frames []uss.FrameOutput) error {
	f, err := os.Create(path)
	if err != nil {
		return uss.Errf(uss.CodeInvalidInput, "unable to open output csv: %s", path)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "timestamp_us,fused_count,clustered_count"); err != nil {
		return err
	}
	for _, frame := range frames {
		_, err := fmt.Fprintf(f, "%d,%d,%d\n",
			frame.TimestampUs, len(frame.Processed.Fused), len(frame.Processed.Clustered))
		if err != nil {
			return err
		}
	}
	return nil
}
