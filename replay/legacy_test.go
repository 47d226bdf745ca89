package replay

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCapture assembles a capture of n strides with a fixed 4-byte prefix
// per stride; the remaining stride bytes stay zero.
func buildCapture(t *testing.T, dir string, name string, prefixes [][4]byte) string {
	t.Helper()
	data := make([]byte, len(prefixes)*legacyStride)
	for i, p := range prefixes {
		copy(data[i*legacyStride:], p[:])
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestConvertLegacyCaptureStrideMapping(t *testing.T) {
	dir := t.TempDir()
	var prefix [4]byte
	binary.LittleEndian.PutUint16(prefix[0:2], 2100) // 2100 % 5500 = 2100 -> 2.1 m
	prefix[2] = 5                                    // group 5 % 2 = 1
	prefix[3] = 19                                   // way 19 % 16 = 3
	in := buildCapture(t, dir, "capture.mudp", [][4]byte{prefix, prefix})

	out := filepath.Join(dir, "replay.csv")
	require.NoError(t, ConvertLegacyCapture(in, out))

	frames, err := LoadCSV(out)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.EqualValues(t, 0, frames[0].TimestampUs)
	assert.EqualValues(t, legacyTickUs, frames[1].TimestampUs)

	sw := frames[0].SignalWays[0]
	assert.InDelta(t, 2.1, sw.Distance, 1e-9)
	assert.EqualValues(t, 1, sw.GroupID)
	assert.EqualValues(t, 3, sw.SignalWayID)

	// Stride 0 carries every periodic synthetic record.
	assert.Len(t, frames[0].StaticFeatures, 1)
	assert.Len(t, frames[0].DynamicFeatures, 1)
	assert.Len(t, frames[0].LineMarks, 1)
	assert.True(t, frames[0].GridMap.Valid)
	assert.Len(t, frames[0].GridMap.Occupancy, 16)

	// Stride 1 carries none of them.
	assert.Empty(t, frames[1].StaticFeatures)
	assert.False(t, frames[1].GridMap.Valid)
}

func TestConvertLegacyCaptureDirectoryPreference(t *testing.T) {
	dir := t.TempDir()
	prefix := [4]byte{0x10, 0x00, 0x00, 0x01}
	buildCapture(t, dir, "b.dvl", [][4]byte{prefix})
	buildCapture(t, dir, "a.pcap", [][4]byte{{0x20, 0x00, 0x01, 0x02}})

	out := filepath.Join(dir, "replay.csv")
	require.NoError(t, ConvertLegacyCapture(dir, out))

	// .pcap outranks .dvl in the extension preference order.
	frames, err := LoadCSV(out)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	sw := frames[0].SignalWays[0]
	assert.EqualValues(t, 1, sw.GroupID)
	assert.EqualValues(t, 2, sw.SignalWayID)
}

func TestConvertLegacyCaptureFailures(t *testing.T) {
	dir := t.TempDir()

	err := ConvertLegacyCapture(filepath.Join(dir, "missing.mudp"), filepath.Join(dir, "out.csv"))
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.mudp")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	err = ConvertLegacyCapture(empty, filepath.Join(dir, "out.csv"))
	require.Error(t, err)

	// A directory with no capture-like files is rejected.
	other := filepath.Join(dir, "other")
	require.NoError(t, os.Mkdir(other, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(other, "notes.txt"), []byte("x"), 0o644))
	err = ConvertLegacyCapture(other, filepath.Join(dir, "out.csv"))
	require.Error(t, err)

	// Too small for even one stride prefix.
	tiny := filepath.Join(dir, "tiny.mudp")
	require.NoError(t, os.WriteFile(tiny, []byte{1, 2, 3}, 0o644))
	err = ConvertLegacyCapture(tiny, filepath.Join(dir, "out.csv"))
	require.Error(t, err)
}

func TestWriteSyntheticCaptureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	capture := filepath.Join(dir, "synth.mudp")
	require.NoError(t, WriteSyntheticCapture(capture, 8))

	info, err := os.Stat(capture)
	require.NoError(t, err)
	assert.EqualValues(t, 8*legacyStride, info.Size())

	out := filepath.Join(dir, "replay.csv")
	require.NoError(t, ConvertLegacyCapture(capture, out))
	frames, err := LoadCSV(out)
	require.NoError(t, err)
	assert.Len(t, frames, 8)

	require.Error(t, WriteSyntheticCapture(filepath.Join(dir, "zero.mudp"), 0))
}
