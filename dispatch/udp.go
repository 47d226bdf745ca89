package dispatch

import (
	"fmt"
	"net"
	"strings"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

// Channel bitmask values for UDP target filtering.
const (
	FlagSignalWays uint32 = 1 << iota
	FlagStaticFeatures
	FlagDynamicFeatures
	FlagLineMarks
	FlagGridMap
	FlagProcessedDetections

	FlagAll = FlagSignalWays | FlagStaticFeatures | FlagDynamicFeatures |
		FlagLineMarks | FlagGridMap | FlagProcessedDetections
)

type udpTarget struct {
	addr *net.UDPAddr
	flag uint32
}

// UDPSender forwards frame channels to UDP targets as tagged CSV lines, one
// datagram per channel per frame; an invalid grid map sends none. Sends are
// best-effort; a dead target never stalls the pipeline.
type UDPSender struct {
	targets []*udpTarget
	conn    *net.UDPConn
	header  []byte
	running bool
}

// NewUDPSender returns a sender with no targets.
func NewUDPSender() *UDPSender {
	return &UDPSender{}
}

// SetHeader prefixes every datagram with "hdr:". Empty clears the prefix.
func (s *UDPSender) SetHeader(hdr string) {
	if hdr == "" {
		s.header = nil
		return
	}
	s.header = []byte(hdr + ":")
}

// AddTarget registers a destination for the channels selected by flag.
func (s *UDPSender) AddTarget(addr string, flag uint32) error {
	uaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	s.targets = append(s.targets, &udpTarget{addr: uaddr, flag: flag})
	return nil
}

// Start opens the outbound socket.
func (s *UDPSender) Start() error {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return err
	}
	s.conn = conn
	s.running = true
	return nil
}

// Stop closes the socket.
func (s *UDPSender) Stop() {
	s.running = false
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *UDPSender) send(data []byte, flag uint32) {
	if !s.running {
		return
	}
	msg := data
	if len(s.header) > 0 {
		msg = make([]byte, 0, len(s.header)+len(data))
		msg = append(msg, s.header...)
		msg = append(msg, data...)
	}
	for _, t := range s.targets {
		if t.flag&flag == flag {
			s.conn.WriteToUDP(msg, t.addr)
		}
	}
}

// Attach registers the sender on every channel of the registry.
func (s *UDPSender) Attach(r *Registry) {
	r.RegisterSignalWays(func(ways []uss.SignalWay, ts uint64) {
		var b strings.Builder
		for _, sw := range ways {
			fmt.Fprintf(&b, "SW,%d,%g,%d,%d\n", ts, sw.Distance, sw.GroupID, sw.SignalWayID)
		}
		s.send([]byte(b.String()), FlagSignalWays)
	})
	r.RegisterStaticFeatures(func(features []uss.StaticFeature, ts uint64) {
		var b strings.Builder
		for _, sf := range features {
			fmt.Fprintf(&b, "SF,%d,%g,%g,1\n", ts, sf.X, sf.Y)
		}
		s.send([]byte(b.String()), FlagStaticFeatures)
	})
	r.RegisterDynamicFeatures(func(features []uss.DynamicFeature, ts uint64) {
		var b strings.Builder
		for _, df := range features {
			fmt.Fprintf(&b, "DF,%d,%g,%g,%g,%g,1\n", ts, df.X, df.Y, df.VxMps, df.VyMps)
		}
		s.send([]byte(b.String()), FlagDynamicFeatures)
	})
	r.RegisterLineMarks(func(marks []uss.LineMark, ts uint64) {
		var b strings.Builder
		for _, lm := range marks {
			fmt.Fprintf(&b, "LM,%d,%g,%g,%g,%g,1\n", ts, lm.X0, lm.Y0, lm.X1, lm.Y1)
		}
		s.send([]byte(b.String()), FlagLineMarks)
	})
	r.RegisterGridMap(func(gm uss.GridMap, ts uint64) {
		if !gm.Valid {
			return
		}
		var b strings.Builder
		fmt.Fprintf(&b, "GM,%d,%d,%d,%g,%g,%g\n", ts, gm.Rows, gm.Cols, gm.CellSize, gm.OriginX, gm.OriginY)
		s.send([]byte(b.String()), FlagGridMap)
	})
	r.RegisterProcessedDetections(func(det uss.ProcessedDetections, ts uint64) {
		var b strings.Builder
		for _, p := range det.Clustered {
			fmt.Fprintf(&b, "CL,%d,%g,%g\n", ts, p.X, p.Y)
		}
		s.send([]byte(b.String()), FlagProcessedDetections)
	})
}
