// internal/capture/capture.go
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/logging"
)

// Well-known TRDP UDP ports.
const (
	PortPd = 17224
	PortMd = 17225
)

// Message type codes carried in the header.
const (
	MsgPd        uint16 = 0x5064 // "Pd"
	MsgMdRequest uint16 = 0x4D72 // "Mr"
	MsgMdReply   uint16 = 0x4D70 // "Mp"
)

const (
	protocolVersion uint16 = 0x0100
	snapLen                = 65536

	// seq(4) version(2) type(2) comId(4) length(4)
	pdHeaderLen = 16
	// pd header + sessionId(16)
	mdHeaderLen = pdHeaderLen + 16
)

// Writer serialises emulated frames into a pcap file.
type Writer struct {
	mu     sync.Mutex
	f      *os.File
	pw     *pcapgo.Writer
	closed bool
	frames uint64
	log    *slog.Logger
}

// New creates the pcap file and writes its header.
func New(path string, log *slog.Logger) (*Writer, error) {
	if path == "" {
		return nil, errors.New("capture: path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: create %s: %w", path, err)
	}

	pw := pcapgo.NewWriter(f)
	if err := pw.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: header: %w", err)
	}

	return &Writer{f: f, pw: pw, log: logging.OrDiscard(log)}, nil
}

// Tap returns the adapter hook feeding this writer.
func (w *Writer) Tap() adapter.Tap {
	return func(f adapter.Frame) {
		if err := w.Write(f); err != nil {
			w.log.Warn("capture write failed", "kind", f.Kind, "comId", f.ComID, "err", err)
		}
	}
}

// Write appends one frame as an Ethernet/IPv4/UDP packet.
func (w *Writer) Write(f adapter.Frame) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("capture: closed")
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     f.At,
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := w.pw.WritePacket(ci, data); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns how many packets were written.
func (w *Writer) Frames() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

// ------------------------------------------------------------
// Encoding
// ------------------------------------------------------------

// Encode builds the full link-layer packet for a frame.
func Encode(f adapter.Frame) ([]byte, error) {
	src := AddrFor(f.From)
	dst := AddrFor(f.To)

	port := uint16(PortMd)
	if f.Kind == adapter.FramePd {
		port = PortPd
	}

	eth := &layers.Ethernet{
		SrcMAC:       macFor(src),
		DstMAC:       macFor(dst),
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src,
		DstIP:    dst,
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(port),
		DstPort: layers.UDPPort(port),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(header(f))); err != nil {
		return nil, fmt.Errorf("capture: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

func header(f adapter.Frame) []byte {
	n := pdHeaderLen
	msg := MsgPd
	switch f.Kind {
	case adapter.FrameMdRequest:
		n, msg = mdHeaderLen, MsgMdRequest
	case adapter.FrameMdReply:
		n, msg = mdHeaderLen, MsgMdReply
	}

	out := make([]byte, n+len(f.Payload))
	binary.BigEndian.PutUint32(out[0:], uint32(f.Seq))
	binary.BigEndian.PutUint16(out[4:], protocolVersion)
	binary.BigEndian.PutUint16(out[6:], msg)
	binary.BigEndian.PutUint32(out[8:], f.ComID)
	binary.BigEndian.PutUint32(out[12:], uint32(len(f.Payload)))
	if n == mdHeaderLen {
		copy(out[pdHeaderLen:], f.SessionID[:])
	}
	copy(out[n:], f.Payload)
	return out
}

// AddrFor parses an IPv4 address, falling back to 10.0.0.x derived from
// a hash of the value (endpoint names).
func AddrFor(s string) net.IP {
	if ip := net.ParseIP(s).To4(); ip != nil {
		return ip
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return net.IPv4(10, 0, 0, byte(h.Sum32()%254)+1).To4()
}

// Locally administered MAC carrying the IPv4 address.
func macFor(ip net.IP) net.HardwareAddr {
	return net.HardwareAddr{0x02, 0x00, ip[0], ip[1], ip[2], ip[3]}
}
