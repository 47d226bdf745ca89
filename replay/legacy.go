package replay

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

// legacyExtensions lists capture container extensions in preference order
// when the input is a directory.
var legacyExtensions = []string{".mudp", ".pcap", ".dvl", ".tapi", ".tavi", ".ffs"}

const (
	legacyStride  = 64
	legacyTickUs  = 50000
	legacyMaxDist = 5500
)

func selectCaptureFile(inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", uss.Errf(uss.CodeInvalidInput, "input path does not exist: %s", inputPath)
	}
	if !info.IsDir() {
		return inputPath, nil
	}

	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return "", uss.Errf(uss.CodeInvalidInput, "unable to list capture directory: %s", inputPath)
	}
	for _, ext := range legacyExtensions {
		for _, entry := range entries {
			if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ext) {
				return filepath.Join(inputPath, entry.Name()), nil
			}
		}
	}
	return "", uss.Errf(uss.CodeInvalidInput, "no legacy capture file found (.mudp/.pcap/.dvl/.tapi/.tavi/.ffs)")
}

// ConvertLegacyCapture walks a legacy binary capture in 64-byte strides and
// writes one replay CSV row per stride, with periodic synthetic auxiliary
// rows. The byte-to-row mapping has no documented provenance; it generates a
// deterministic replay from the capture bytes rather than decoding a wire
// format, and is kept stable so converted captures stay comparable.
func ConvertLegacyCapture(inputPath, outputCSV string) error {
	selected, err := selectCaptureFile(inputPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(selected)
	if err != nil {
		return uss.Errf(uss.CodeInvalidInput, "unable to open legacy capture: %s", selected)
	}
	if len(data) == 0 {
		return uss.Errf(uss.CodeInvalidInput, "legacy capture is empty: %s", selected)
	}

	out, err := os.Create(outputCSV)
	if err != nil {
		return uss.Errf(uss.CodeInvalidInput, "unable to open output csv: %s", outputCSV)
	}
	defer out.Close()

	var timestampUs uint64
	rowsWritten := 0
	for i := 0; i+3 < len(data); i += legacyStride {
		rawDist := binary.LittleEndian.Uint16(data[i : i+2])
		distance := float64(rawDist%legacyMaxDist) / 1000.0
		// Synthetic group id 2 would be unprocessable; front/rear only.
		groupID := data[i+2] % 2
		signalWayID := data[i+3] % 16
		fmt.Fprintf(out, "%d,%g,%d,%d\n", timestampUs, distance, groupID, signalWayID)

		lon := distance
		if groupID != 0 {
			lon = -distance
		}
		lat := (float64(signalWayID%6) - 2.5) * 0.22

		stride := i / legacyStride
		if stride%16 == 0 {
			fmt.Fprintf(out, "SF,%d,%g,%g,1\n", timestampUs, lon, lat)
		}
		if stride%32 == 0 {
			vx := float64(int(data[i])%7-3) * 0.05
			vy := float64(int(data[i+1])%7-3) * 0.05
			fmt.Fprintf(out, "DF,%d,%g,%g,%g,%g,1\n", timestampUs, lon, lat, vx, vy)
		}
		if stride%48 == 0 {
			markLen := 0.5 + 0.1*float64(data[i+2]%5)
			fmt.Fprintf(out, "LM,%d,%g,%g,%g,%g,1\n", timestampUs, lon-markLen, lat, lon+markLen, lat)
		}
		if stride%64 == 0 {
			const gridRows, gridCols = 4, 4
			const cell = 0.35
			originX := lon - 0.5*gridCols*cell
			originY := lat - 0.5*gridRows*cell
			var occ strings.Builder
			for c := 0; c < gridCols; c++ {
				for r := 0; r < gridRows; r++ {
					idx := (i + r + c + 4) % len(data)
					if occ.Len() > 0 {
						occ.WriteByte(';')
					}
					fmt.Fprintf(&occ, "%g", float64(data[idx]%100)/100.0)
				}
			}
			fmt.Fprintf(out, "GM,%d,%d,%d,%g,%g,%g,%s\n",
				timestampUs, gridRows, gridCols, cell, originX, originY, occ.String())
		}

		rowsWritten++
		timestampUs += legacyTickUs
	}

	if rowsWritten == 0 {
		return uss.Errf(uss.CodeInvalidInput, "legacy capture too small to generate replay rows")
	}
	return nil
}

// WriteSyntheticCapture fills a capture file with a deterministic byte
// pattern sized to strides. Handy for converter smoke runs and tests when no
// vehicle capture is at hand.
func WriteSyntheticCapture(path string, strides int) error {
	if strides <= 0 {
		return uss.Errf(uss.CodeInvalidInput, "strides must be positive")
	}
	data := make([]byte, strides*legacyStride)
	for i := range data {
		data[i] = byte((i*31 + i/legacyStride*7) % 251)
	}
	return os.WriteFile(path, data, 0o644)
}
