// Package quote decodes KOSPI200 B6034 quote messages out of capture records,
// reconciles their exchange accept time against the capture clock and renders
// them as text lines.
package quote

// B6034 quote message layout, relative to the start of a capture record window.
// The window opens with the container's original-length field followed by the
// Ethernet, IPv4 and UDP headers.
const (
	// PacketOffset is the distance from the window start to the quote message.
	PacketOffset = 4 + 14 + 20 + 8
	// PacketSize is the size of a B6034 message.
	PacketSize = 215
	// RecordLength is the only window length that can carry a quote message.
	RecordLength = PacketOffset + PacketSize

	MarkerSize     = 5
	IssueCodeSize  = 12
	BidsGap        = 12
	PriceSize      = 5
	QuantitySize   = 7
	LevelSize      = PriceSize + QuantitySize
	Depth          = 5
	AsksGap        = 7
	AcceptGap      = 50
	AcceptTimeSize = 8
	TrailerSize    = 1
)

// Marker identifies a B6034 quote message: data type B6, information type 03, market 4.
var Marker = [MarkerSize]byte{'B', '6', '0', '3', '4'}
