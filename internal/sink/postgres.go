package sink

import (
	"context"
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"parsequote/internal/quote"
	"parsequote/pkg/exception"
)

const defaultPostgresBatch = 500

// QuoteRow is the persisted form of a quote.
type QuoteRow struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	IssueCode   string    `gorm:"size:12;index:idx_quotes_issue_accept,priority:1"`
	CaptureTime time.Time `gorm:"not null"`
	AcceptTime  time.Time `gorm:"not null;index:idx_quotes_issue_accept,priority:2"`

	BidPrice1 uint32
	BidQty1   uint32
	BidPrice2 uint32
	BidQty2   uint32
	BidPrice3 uint32
	BidQty3   uint32
	BidPrice4 uint32
	BidQty4   uint32
	BidPrice5 uint32
	BidQty5   uint32

	AskPrice1 uint32
	AskQty1   uint32
	AskPrice2 uint32
	AskQty2   uint32
	AskPrice3 uint32
	AskQty3   uint32
	AskPrice4 uint32
	AskQty4   uint32
	AskPrice5 uint32
	AskQty5   uint32
}

func (QuoteRow) TableName() string {
	return "quotes"
}

// NewQuoteRow flattens m. Level 1 is the best level on both sides.
func NewQuoteRow(m quote.Message) QuoteRow {
	bid := func(i int) quote.Level { return m.Bids[quote.Depth-i] }
	ask := func(i int) quote.Level { return m.Asks[i-1] }
	return QuoteRow{
		IssueCode:   issueKey(m),
		CaptureTime: m.CaptureTime.UTC(),
		AcceptTime:  m.AcceptTime.UTC(),

		BidPrice1: uint32(bid(1).Price), BidQty1: uint32(bid(1).Quantity),
		BidPrice2: uint32(bid(2).Price), BidQty2: uint32(bid(2).Quantity),
		BidPrice3: uint32(bid(3).Price), BidQty3: uint32(bid(3).Quantity),
		BidPrice4: uint32(bid(4).Price), BidQty4: uint32(bid(4).Quantity),
		BidPrice5: uint32(bid(5).Price), BidQty5: uint32(bid(5).Quantity),

		AskPrice1: uint32(ask(1).Price), AskQty1: uint32(ask(1).Quantity),
		AskPrice2: uint32(ask(2).Price), AskQty2: uint32(ask(2).Quantity),
		AskPrice3: uint32(ask(3).Price), AskQty3: uint32(ask(3).Quantity),
		AskPrice4: uint32(ask(4).Price), AskQty4: uint32(ask(4).Quantity),
		AskPrice5: uint32(ask(5).Price), AskQty5: uint32(ask(5).Quantity),
	}
}

// Postgres stores quotes in the quotes table in batches.
type Postgres struct {
	db      *gorm.DB
	batch   int
	pending []QuoteRow
	closed  bool
}

// NewPostgres migrates the quotes table and returns a batching sink.
func NewPostgres(ctx context.Context, db *gorm.DB, batch int) (*Postgres, error) {
	if db == nil {
		return nil, exception.ErrSinkNilClient
	}
	if batch <= 0 {
		batch = defaultPostgresBatch
	}
	if err := db.WithContext(ctx).AutoMigrate(&QuoteRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate quotes table")
	}
	return &Postgres{db: db, batch: batch, pending: make([]QuoteRow, 0, batch)}, nil
}

func (s *Postgres) Emit(ctx context.Context, m quote.Message) error {
	if s.closed {
		return exception.ErrSinkClosed
	}
	s.pending = append(s.pending, NewQuoteRow(m))
	if len(s.pending) < s.batch {
		return nil
	}
	return s.Flush(ctx)
}

func (s *Postgres) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(s.pending, s.batch).Error; err != nil {
		return errors.Wrapf(err, "insert %d quotes", len(s.pending))
	}
	s.pending = s.pending[:0]
	return nil
}

// Close flushes pending rows. The connection pool belongs to the caller.
func (s *Postgres) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.Flush(ctx)
}
