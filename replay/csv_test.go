package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVMergesAndOrders(t *testing.T) {
	path := writeTemp(t, "replay.csv", `# comment line

2000,1.5,1,3
1000,2.0,0,1
1000,2.1,0,2,1.0,2.0,1
garbage,row,here
SW,1000,1.9,1,5
SF,2000,3.0,4.0,0
DF,1000,1.0,1.0,0.1,0.2,1
LM,2000,0.0,0.0,1.0,1.0,1
GM,2000,2,2,0.35,-1.0,-1.0,0.1;0.2;0.3;0.4
`)
	frames, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	// Ascending timestamp order, rows merged per timestamp.
	first, second := frames[0], frames[1]
	assert.EqualValues(t, 1000, first.TimestampUs)
	assert.EqualValues(t, 2000, second.TimestampUs)

	require.Len(t, first.SignalWays, 3)
	assert.Equal(t, uss.SignalWay{TimestampUs: 1000, Distance: 2.0, GroupID: 0, SignalWayID: 1}, first.SignalWays[0])
	require.Len(t, first.StaticFeatures, 1)
	assert.True(t, first.StaticFeatures[0].Valid)
	require.Len(t, first.DynamicFeatures, 1)
	assert.Equal(t, 0.1, first.DynamicFeatures[0].VxMps)

	require.Len(t, second.SignalWays, 1)
	require.Len(t, second.StaticFeatures, 1)
	assert.False(t, second.StaticFeatures[0].Valid)
	require.Len(t, second.LineMarks, 1)
	require.True(t, second.GridMap.Valid)
	assert.EqualValues(t, 2, second.GridMap.Rows)
	assert.Len(t, second.GridMap.Occupancy, 4)
}

func TestLoadCSVDropsShortAndMalformedRows(t *testing.T) {
	path := writeTemp(t, "replay.csv", `1000,2.0
SW,1000
SW,1000,x,0,1
SF,1000,1.0
GM,1000,2,2,0.35,0,0,0.1;0.2;0.3
1000,1.5,0,1
`)
	frames, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	// The occupancy count 3 != rows*cols, so the grid map is dropped.
	assert.False(t, frames[0].GridMap.Valid)
	assert.Len(t, frames[0].SignalWays, 1)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Equal(t, uss.CodeInvalidInput, uss.CodeOf(err))
}

func TestWriteOutputCSV(t *testing.T) {
	frames := []uss.FrameOutput{
		{
			TimestampUs: 1000,
			Processed: uss.ProcessedDetections{
				Fused:     []uss.Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
				Clustered: []uss.Point{{X: 1.5, Y: 1.5}},
			},
		},
		{TimestampUs: 2000},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteOutputCSV(path, frames))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp_us,fused_count,clustered_count", lines[0])
	assert.Equal(t, "1000,2,1", lines[1])
	assert.Equal(t, "2000,0,0", lines[2])
}
