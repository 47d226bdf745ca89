package uss

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"
)

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

func parseFloatPair(value string) (float64, float64, bool) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	first, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	second, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return first, second, true
}

// iniLine is one key=value line with its source line number.
type iniLine struct {
	section string
	key     string
	value   string
	number  int
}

// scanINI walks an INI file, stripping blank lines and ';'/'#' comments.
// Unknown keys are the caller's business; the scanner reports every pair.
func scanINI(path string, stripInlineComment bool) ([]iniLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Errf(CodeInvalidInput, "unable to open config file: %s", path)
	}
	defer f.Close()

	var lines []iniLine
	section := ""
	number := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		number++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || s[0] == ';' || s[0] == '#' {
			continue
		}
		if stripInlineComment {
			if idx := strings.Index(s, ";"); idx >= 0 {
				s = strings.TrimSpace(s[:idx])
				if s == "" {
					continue
				}
			}
		}
		if s[0] == '[' && s[len(s)-1] == ']' {
			section = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		eq := strings.Index(s, "=")
		if eq < 0 {
			continue
		}
		lines = append(lines, iniLine{
			section: section,
			key:     strings.TrimSpace(s[:eq]),
			value:   strings.TrimSpace(s[eq+1:]),
			number:  number,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, Errf(CodeInvalidInput, "reading config file %s: %v", path, err)
	}
	return lines, nil
}

// LoadConfigINI reads a processor configuration, starting from the defaults.
// Unknown keys are ignored; numeric parse failures report the line number.
func LoadConfigINI(path string) (Config, error) {
	config := DefaultConfig()
	lines, err := scanINI(path, false)
	if err != nil {
		return config, err
	}

	for _, l := range lines {
		switch {
		case l.section == "Conversion" && l.key == "nSigmaValeo":
			v, err := strconv.ParseFloat(l.value, 64)
			if err != nil {
				return config, Errf(CodeInvalidInput, "failed parsing config at line %d", l.number)
			}
			config.NSigmaValeo = v
		case l.section == "Conversion" && l.key == "legacyValeoBugfix":
			v, ok := parseBool(l.value)
			if !ok {
				return config, Errf(CodeInvalidInput, "invalid bool for Conversion.legacyValeoBugfix")
			}
			config.LegacyValeoBugfix = v
		case l.section == "SignalWays" && l.key == "groupID":
			switch l.value {
			case "FRONT", "0":
				config.GroupFilter = GroupFront
			case "REAR", "1":
				config.GroupFilter = GroupRear
			case "SURROUND", "2":
				config.GroupFilter = GroupSurround
			default:
				return config, Errf(CodeInvalidInput, "invalid SignalWays.groupID")
			}
		case l.section == "SignalWays" && l.key == "method":
			switch l.value {
			case "SIGNAL_TRACING", "0":
				config.ProcessingMethod = MethodSignalTracing
			case "FOV_INTERSECTION", "1":
				config.ProcessingMethod = MethodFovIntersection
			case "ELLIPSE_INTERSECTION", "2":
				config.ProcessingMethod = MethodEllipseIntersection
			case "ALL", "3":
				config.ProcessingMethod = MethodAll
			default:
				return config, Errf(CodeInvalidInput, "invalid SignalWays.method")
			}
		case l.section == "SignalWays" && l.key == "clusterRadiusM":
			v, err := strconv.ParseFloat(l.value, 64)
			if err != nil {
				return config, Errf(CodeInvalidInput, "failed parsing config at line %d", l.number)
			}
			config.ClusterRadius = v
		case l.section == "General" && l.key == "minRangeM":
			v, err := strconv.ParseFloat(l.value, 64)
			if err != nil {
				return config, Errf(CodeInvalidInput, "failed parsing config at line %d", l.number)
			}
			config.MinRange = v
		case l.section == "General" && l.key == "maxRangeM":
			v, err := strconv.ParseFloat(l.value, 64)
			if err != nil {
				return config, Errf(CodeInvalidInput, "failed parsing config at line %d", l.number)
			}
			config.MaxRange = v
		case l.section == "General" && l.key == "strictMonotonicTimestamps":
			v, ok := parseBool(l.value)
			if !ok {
				return config, Errf(CodeInvalidInput, "invalid bool for General.strictMonotonicTimestamps")
			}
			config.StrictMonotonicTimestamps = v
		}
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// ContourPoint is one vehicle outline vertex from a geometry profile.
type ContourPoint struct {
	X float64
	Y float64
}

// SensorCalibration is one transducer entry from a geometry profile,
// angles in degrees as written in the file.
type SensorCalibration struct {
	X           float64
	Y           float64
	MountingDeg float64
	FovDeg      float64
}

// VehicleGeometry is a vehicle outline plus transducer calibration set,
// as loaded from a vehicle profile INI.
type VehicleGeometry struct {
	Contour []ContourPoint
	Sensors []SensorCalibration
}

// LoadVehicleGeometryINI reads a vehicle profile: [Contour] contourPt<i>
// vertices and [USS SENSORS] uss_position_<i>/uss_mounting_<i> entries.
// Trailing ';' comments are stripped; (0,0) placeholder points are dropped.
func LoadVehicleGeometryINI(path string) (VehicleGeometry, error) {
	var geometry VehicleGeometry
	lines, err := scanINI(path, true)
	if err != nil {
		return geometry, Errf(CodeInvalidInput, "unable to open vehicle geometry file: %s", path)
	}

	contourPoints := map[int]ContourPoint{}
	sensorPositions := map[int][2]float64{}
	sensorMountings := map[int][2]float64{}

	for _, l := range lines {
		switch {
		case l.section == "Contour" && strings.HasPrefix(l.key, "contourPt"):
			index, err := strconv.Atoi(l.key[len("contourPt"):])
			if err != nil {
				return geometry, Errf(CodeInvalidInput, "failed parsing vehicle geometry at line %d", l.number)
			}
			x, y, ok := parseFloatPair(l.value)
			if !ok {
				return geometry, Errf(CodeInvalidInput, "invalid contour point format at line %d", l.number)
			}
			contourPoints[index] = ContourPoint{X: x, Y: y}
		case l.section == "USS SENSORS" && strings.HasPrefix(l.key, "uss_position_"):
			index, err := strconv.Atoi(l.key[len("uss_position_"):])
			if err != nil {
				return geometry, Errf(CodeInvalidInput, "failed parsing vehicle geometry at line %d", l.number)
			}
			x, y, ok := parseFloatPair(l.value)
			if !ok {
				return geometry, Errf(CodeInvalidInput, "invalid uss_position format at line %d", l.number)
			}
			sensorPositions[index] = [2]float64{x, y}
		case l.section == "USS SENSORS" && strings.HasPrefix(l.key, "uss_mounting_"):
			index, err := strconv.Atoi(l.key[len("uss_mounting_"):])
			if err != nil {
				return geometry, Errf(CodeInvalidInput, "failed parsing vehicle geometry at line %d", l.number)
			}
			angle, fov, ok := parseFloatPair(l.value)
			if !ok {
				return geometry, Errf(CodeInvalidInput, "invalid uss_mounting format at line %d", l.number)
			}
			sensorMountings[index] = [2]float64{angle, fov}
		}
	}

	indices := make([]int, 0, len(contourPoints))
	for i := range contourPoints {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		pt := contourPoints[i]
		if pt.X == 0 && pt.Y == 0 {
			continue
		}
		geometry.Contour = append(geometry.Contour, pt)
	}

	sensorCount := len(sensorPositions)
	if len(sensorMountings) > sensorCount {
		sensorCount = len(sensorMountings)
	}
	for i := 0; i < sensorCount; i++ {
		s := SensorCalibration{FovDeg: 100.0}
		if pos, ok := sensorPositions[i]; ok {
			s.X = pos[0]
			s.Y = pos[1]
		}
		if mounting, ok := sensorMountings[i]; ok {
			s.MountingDeg = mounting[0]
			s.FovDeg = mounting[1]
		}
		if s.X == 0 && s.Y == 0 {
			continue
		}
		geometry.Sensors = append(geometry.Sensors, s)
	}

	if len(geometry.Contour) == 0 || len(geometry.Sensors) == 0 {
		return geometry, Errf(CodeInvalidInput, "vehicle geometry missing contour and/or uss sensors")
	}
	return geometry, nil
}
