package uss

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadConfigINIFullSet(t *testing.T) {
	path := writeTemp(t, "proc.ini", `
# processor tuning
[General]
minRangeM = 0.25
maxRangeM = 4.5
strictMonotonicTimestamps = off

[Conversion]
nSigmaValeo = 2.5
legacyValeoBugfix = yes

[SignalWays]
groupID = REAR
method = ELLIPSE_INTERSECTION
clusterRadiusM = 0.5
unknownKey = ignored
`)

	config, err := LoadConfigINI(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.MinRange != 0.25 || config.MaxRange != 4.5 {
		t.Errorf("range band = (%v, %v), want (0.25, 4.5)", config.MinRange, config.MaxRange)
	}
	if config.StrictMonotonicTimestamps {
		t.Error("strictMonotonicTimestamps=off not applied")
	}
	if config.NSigmaValeo != 2.5 || !config.LegacyValeoBugfix {
		t.Errorf("conversion keys = (%v, %v)", config.NSigmaValeo, config.LegacyValeoBugfix)
	}
	if config.GroupFilter != GroupRear {
		t.Errorf("group filter = %v, want REAR", config.GroupFilter)
	}
	if config.ProcessingMethod != MethodEllipseIntersection {
		t.Errorf("method = %v, want ELLIPSE_INTERSECTION", config.ProcessingMethod)
	}
	if config.ClusterRadius != 0.5 {
		t.Errorf("cluster radius = %v, want 0.5", config.ClusterRadius)
	}
}

func TestLoadConfigININumericSpellings(t *testing.T) {
	path := writeTemp(t, "proc.ini", `
[SignalWays]
groupID = 2
method = 0
`)
	config, err := LoadConfigINI(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.GroupFilter != GroupSurround || config.ProcessingMethod != MethodSignalTracing {
		t.Errorf("numeric spellings parsed to (%v, %v)", config.GroupFilter, config.ProcessingMethod)
	}
}

func TestLoadConfigINIRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad bool":    "[General]\nstrictMonotonicTimestamps = maybe\n",
		"bad float":   "[General]\nminRangeM = wide\n",
		"bad group":   "[SignalWays]\ngroupID = SIDEWAYS\n",
		"bad method":  "[SignalWays]\nmethod = GUESSWORK\n",
		"bad band":    "[General]\nminRangeM = 3\nmaxRangeM = 1\n",
		"bad cluster": "[SignalWays]\nclusterRadiusM = 0\n",
	}
	for name, content := range cases {
		path := writeTemp(t, "bad.ini", content)
		if _, err := LoadConfigINI(path); err == nil {
			t.Errorf("%s: expected load failure", name)
		} else if CodeOf(err) != CodeInvalidInput {
			t.Errorf("%s: error code = %v, want InvalidInput", name, CodeOf(err))
		}
	}
}

func TestLoadConfigINIMissingFile(t *testing.T) {
	if _, err := LoadConfigINI(filepath.Join(t.TempDir(), "absent.ini")); err == nil {
		t.Fatal("expected failure for a missing file")
	}
}

func TestLoadVehicleGeometryINI(t *testing.T) {
	path := writeTemp(t, "vehicle.ini", `
[Contour]
contourPt0 = -0.8, 0.8   ; rear left
contourPt1 = 0.0, 0.0    ; placeholder, dropped
contourPt2 = 3.2, 0.9

[USS SENSORS]
uss_position_0 = 3.238, 0.913
uss_mounting_0 = 87.0, 60.0
uss_position_1 = 3.6, 0.715
`)
	geometry, err := LoadVehicleGeometryINI(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(geometry.Contour) != 2 {
		t.Fatalf("contour length = %d, want 2 (placeholder dropped)", len(geometry.Contour))
	}
	if geometry.Contour[0] != (ContourPoint{X: -0.8, Y: 0.8}) {
		t.Errorf("contour[0] = %+v", geometry.Contour[0])
	}
	if len(geometry.Sensors) != 2 {
		t.Fatalf("sensor count = %d, want 2", len(geometry.Sensors))
	}
	s0 := geometry.Sensors[0]
	if s0.X != 3.238 || s0.MountingDeg != 87.0 || s0.FovDeg != 60.0 {
		t.Errorf("sensor 0 = %+v", s0)
	}
	// Sensor 1 has no mounting entry; the FOV default holds.
	if geometry.Sensors[1].FovDeg != 100.0 {
		t.Errorf("sensor 1 fov = %v, want default 100", geometry.Sensors[1].FovDeg)
	}
}

func TestLoadVehicleGeometryINIRequiresBothLists(t *testing.T) {
	noSensors := writeTemp(t, "a.ini", "[Contour]\ncontourPt0 = 1.0, 1.0\n")
	if _, err := LoadVehicleGeometryINI(noSensors); err == nil {
		t.Error("expected failure without sensors")
	}
	noContour := writeTemp(t, "b.ini", "[USS SENSORS]\nuss_position_0 = 1.0, 1.0\n")
	if _, err := LoadVehicleGeometryINI(noContour); err == nil {
		t.Error("expected failure without contour")
	}
	onlyPlaceholders := writeTemp(t, "c.ini", `
[Contour]
contourPt0 = 0.0, 0.0
[USS SENSORS]
uss_position_0 = 1.0, 1.0
`)
	if _, err := LoadVehicleGeometryINI(onlyPlaceholders); err == nil {
		t.Error("expected failure when every contour point is a placeholder")
	}
}
