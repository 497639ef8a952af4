package quote

import (
	"strconv"
	"time"
)

// Price is the raw integer price of a quote level.
type Price uint32

func (p Price) AppendString(buf []byte) []byte {
	return strconv.AppendUint(buf, uint64(p), 10)
}

// Quantity is the raw integer quantity of a quote level.
type Quantity uint32

func (q Quantity) AppendString(buf []byte) []byte {
	return strconv.AppendUint(buf, uint64(q), 10)
}

// Level is one price level of the book.
type Level struct {
	Price    Price
	Quantity Quantity
}

// IssueCode is the ISIN-style instrument identifier.
type IssueCode [IssueCodeSize]byte

func (c IssueCode) String() string {
	return string(c[:])
}

// Message is a decoded B6034 quote.
// Bids are kept in wire order, so the best bid is Bids[Depth-1]. Asks are kept
// in wire order with the best ask first.
type Message struct {
	CaptureTime time.Time
	AcceptTime  time.Time
	IssueCode   IssueCode
	Bids        [Depth]Level
	Asks        [Depth]Level
}

// BestBid returns the innermost bid level.
func (m Message) BestBid() Level {
	return m.Bids[Depth-1]
}

// BestAsk returns the innermost ask level.
func (m Message) BestAsk() Level {
	return m.Asks[0]
}

// Before is the reorder relation. Only the accept time takes part in it.
func (m Message) Before(other Message) bool {
	return m.AcceptTime.Before(other.AcceptTime)
}

// Equal reports full structural equality, independent of the reorder relation.
func (m Message) Equal(other Message) bool {
	return m.CaptureTime.Equal(other.CaptureTime) &&
		m.AcceptTime.Equal(other.AcceptTime) &&
		m.IssueCode == other.IssueCode &&
		m.Bids == other.Bids &&
		m.Asks == other.Asks
}
