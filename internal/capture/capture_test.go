// internal/capture/capture_test.go
package capture

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/logging"
)

func TestAddrFor(t *testing.T) {
	assert.Equal(t, "192.168.1.5", AddrFor("192.168.1.5").String())

	a := AddrFor("Door-Controller")
	assert.Equal(t, byte(10), a[0])
	assert.NotZero(t, a[3])
	assert.Equal(t, a, AddrFor("Door-Controller"))
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.pcap")
	w, err := New(path, logging.NewForTest())
	require.NoError(t, err)

	at := time.Unix(1700000000, 0)
	var sid adapter.SessionID
	sid[15] = 9

	tap := w.Tap()
	tap(adapter.Frame{Kind: adapter.FramePd, From: "10.1.1.1", To: "Sub", ComID: 1000, Seq: 4, Payload: []byte{0xAA, 0xBB}, At: at})
	tap(adapter.Frame{Kind: adapter.FrameMdReply, From: "Lis", To: "Snd", ComID: 2001, SessionID: sid, Payload: []byte("ok"), At: at})

	require.Equal(t, uint64(2), w.Frames())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	require.NoError(t, err)
	assert.Equal(t, layers.LinkTypeEthernet, r.LinkType())

	// ---- PD ----
	data, ci, err := r.ReadPacketData()
	require.NoError(t, err)
	assert.True(t, ci.Timestamp.Equal(at))

	pkt := gopacket.NewPacket(data, layers.LinkTypeEthernet, gopacket.Default)
	udp := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	assert.Equal(t, layers.UDPPort(PortPd), udp.DstPort)
	ip := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	assert.Equal(t, "10.1.1.1", ip.SrcIP.String())

	p := udp.Payload
	require.Len(t, p, pdHeaderLen+2)
	assert.Equal(t, uint32(4), binary.BigEndian.Uint32(p[0:]))
	assert.Equal(t, MsgPd, binary.BigEndian.Uint16(p[6:]))
	assert.Equal(t, uint32(1000), binary.BigEndian.Uint32(p[8:]))
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(p[12:]))
	assert.Equal(t, []byte{0xAA, 0xBB}, p[pdHeaderLen:])

	// ---- MD reply ----
	data, _, err = r.ReadPacketData()
	require.NoError(t, err)

	pkt = gopacket.NewPacket(data, layers.LinkTypeEthernet, gopacket.Default)
	udp = pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	assert.Equal(t, layers.UDPPort(PortMd), udp.DstPort)

	p = udp.Payload
	require.Len(t, p, mdHeaderLen+2)
	assert.Equal(t, MsgMdReply, binary.BigEndian.Uint16(p[6:]))
	assert.Equal(t, sid[:], p[pdHeaderLen:mdHeaderLen])
	assert.Equal(t, []byte("ok"), p[mdHeaderLen:])
}

func TestWriter_WriteAfterClose(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "c.pcap"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Error(t, w.Write(adapter.Frame{Kind: adapter.FramePd}))
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("", nil)
	assert.Error(t, err)
}
