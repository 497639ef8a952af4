// Package capturegen writes synthetic capture files carrying B6034 quote packets.
// It is used by tests and by the gencapture tool.
package capturegen

import (
	"bytes"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/yanun0323/errors"

	"parsequote/internal/quote"
)

const (
	snapLen  = 65536
	feedPort = 15515
	// exchangeOffset is the UTC offset of the exchange clock the accept time is written in.
	exchangeOffset = 9 * time.Hour
	gapFiller      = '0'
	trailer        = 0xff
)

var serializeOptions = gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

// Quote describes one B6034 message to write.
type Quote struct {
	IssueCode string
	Bids      [quote.Depth]quote.Level
	Asks      [quote.Depth]quote.Level
	// AcceptTime is the exchange accept time. Only its KST time of day,
	// truncated to tenths of a second, is written.
	AcceptTime time.Time
	// Marker overrides the message marker when non-zero.
	Marker [quote.MarkerSize]byte
}

// EncodePayload renders q as a 215-byte B6034 UDP payload.
func EncodePayload(q Quote) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, quote.PacketSize))

	marker := q.Marker
	if marker == ([quote.MarkerSize]byte{}) {
		marker = quote.Marker
	}
	buf.Write(marker[:])

	code := []byte(q.IssueCode)
	for len(code) < quote.IssueCodeSize {
		code = append(code, ' ')
	}
	buf.Write(code[:quote.IssueCodeSize])

	buf.Write(bytes.Repeat([]byte{gapFiller}, quote.BidsGap))
	writeLevels(buf, q.Bids[:])
	buf.Write(bytes.Repeat([]byte{gapFiller}, quote.AsksGap))
	writeLevels(buf, q.Asks[:])
	buf.Write(bytes.Repeat([]byte{gapFiller}, quote.AcceptGap))
	buf.Write(AcceptField(q.AcceptTime))
	buf.WriteByte(trailer)
	return buf.Bytes()
}

// AcceptField renders the 8-byte HHMMSS, filler, tenths field in exchange time.
func AcceptField(t time.Time) []byte {
	kst := t.UTC().Add(exchangeOffset)
	field := make([]byte, 0, quote.AcceptTimeSize)
	field = appendPadded(field, uint64(kst.Hour()), 2)
	field = appendPadded(field, uint64(kst.Minute()), 2)
	field = appendPadded(field, uint64(kst.Second()), 2)
	field = append(field, '0')
	field = append(field, byte('0'+kst.Nanosecond()/int(100*time.Millisecond)))
	return field
}

func writeLevels(buf *bytes.Buffer, levels []quote.Level) {
	var tmp [quote.LevelSize]byte
	for _, l := range levels {
		field := appendPadded(tmp[:0], uint64(l.Price), quote.PriceSize)
		field = appendPadded(field, uint64(l.Quantity), quote.QuantitySize)
		buf.Write(field)
	}
}

func appendPadded(buf []byte, v uint64, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendUint(tmp[:0], v, 10)
	if len(digits) > width {
		digits = digits[len(digits)-width:]
	}
	for i := len(digits); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, digits...)
}

// Writer writes Ethernet/IPv4/UDP packets into a capture file.
type Writer struct {
	pw  *pcapgo.Writer
	buf gopacket.SerializeBuffer
	eth layers.Ethernet
	ip  layers.IPv4
	udp layers.UDP
}

// NewWriter writes the global header to w. nanos selects nanosecond precision.
func NewWriter(w io.Writer, nanos bool) (*Writer, error) {
	pw := pcapgo.NewWriter(w)
	if nanos {
		pw = pcapgo.NewWriterNanos(w)
	}
	if err := pw.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		return nil, errors.Wrap(err, "write capture header")
	}

	gw := &Writer{
		pw:  pw,
		buf: gopacket.NewSerializeBuffer(),
		eth: layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x1b, 0x21, 0x3a, 0x4c, 0x01},
			DstMAC:       net.HardwareAddr{0x01, 0x00, 0x5e, 0x00, 0x00, 0x01},
			EthernetType: layers.EthernetTypeIPv4,
		},
		ip: layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolUDP,
			SrcIP:    net.IP{10, 0, 0, 1},
			DstIP:    net.IP{233, 37, 54, 1},
		},
		udp: layers.UDP{
			SrcPort: layers.UDPPort(feedPort),
			DstPort: layers.UDPPort(feedPort),
		},
	}
	if err := gw.udp.SetNetworkLayerForChecksum(&gw.ip); err != nil {
		return nil, errors.Wrap(err, "set udp checksum layer")
	}
	return gw, nil
}

// WriteQuote writes q as a UDP packet captured at captured.
func (w *Writer) WriteQuote(captured time.Time, q Quote) error {
	return w.WritePayload(captured, EncodePayload(q))
}

// WritePayload writes an arbitrary UDP payload captured at captured.
func (w *Writer) WritePayload(captured time.Time, payload []byte) error {
	if err := gopacket.SerializeLayers(w.buf, serializeOptions, &w.eth, &w.ip, &w.udp, gopacket.Payload(payload)); err != nil {
		return errors.Wrap(err, "serialize packet")
	}
	data := w.buf.Bytes()
	ci := gopacket.CaptureInfo{
		Timestamp:     captured,
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := w.pw.WritePacket(ci, data); err != nil {
		return errors.Wrap(err, "write packet")
	}
	return nil
}
