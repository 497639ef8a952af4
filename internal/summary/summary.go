// Package summary aggregates per-issue statistics over a quote stream.
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"parsequote/internal/quote"
	"parsequote/pkg/scanner"
)

var two = decimal.NewFromInt(2)

// IssueStats is the running summary of one issue.
type IssueStats struct {
	Issue       string
	Count       int64
	FirstAccept time.Time
	LastAccept  time.Time
	LastBid     quote.Level
	LastAsk     quote.Level
	SpreadSum   decimal.Decimal
	MaxSpread   decimal.Decimal
}

// AvgSpread is the mean of best ask minus best bid over all quotes.
func (s IssueStats) AvgSpread() decimal.Decimal {
	if s.Count == 0 {
		return decimal.Zero
	}
	return s.SpreadSum.Div(decimal.NewFromInt(s.Count))
}

// LastMid is the midpoint of the last best bid and ask.
func (s IssueStats) LastMid() decimal.Decimal {
	bid := decimal.NewFromInt(int64(s.LastBid.Price))
	ask := decimal.NewFromInt(int64(s.LastAsk.Price))
	return bid.Add(ask).Div(two)
}

// Summary collects IssueStats keyed by issue code.
type Summary struct {
	issues map[string]*IssueStats
}

func New() *Summary {
	return &Summary{issues: make(map[string]*IssueStats)}
}

// Add folds m into the statistics of its issue.
func (s *Summary) Add(m quote.Message) {
	issue := string(scanner.TrimRightSpace(m.IssueCode[:]))
	st, ok := s.issues[issue]
	if !ok {
		st = &IssueStats{Issue: issue, FirstAccept: m.AcceptTime}
		s.issues[issue] = st
	}

	bid, ask := m.BestBid(), m.BestAsk()
	spread := decimal.NewFromInt(int64(ask.Price) - int64(bid.Price))

	if st.Count == 0 || spread.GreaterThan(st.MaxSpread) {
		st.MaxSpread = spread
	}
	st.Count++
	st.SpreadSum = st.SpreadSum.Add(spread)
	if m.AcceptTime.Before(st.FirstAccept) {
		st.FirstAccept = m.AcceptTime
	}
	if !m.AcceptTime.Before(st.LastAccept) {
		st.LastAccept = m.AcceptTime
		st.LastBid, st.LastAsk = bid, ask
	}
}

// Issues returns the statistics sorted by issue code.
func (s *Summary) Issues() []IssueStats {
	out := make([]IssueStats, 0, len(s.issues))
	for _, st := range s.issues {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Issue < out[j].Issue })
	return out
}

// Write prints one line per issue.
func (s *Summary) Write(w io.Writer) error {
	for _, st := range s.Issues() {
		_, err := fmt.Fprintf(w, "%s count=%d first=%s last=%s bid=%d@%d ask=%d@%d mid=%s spread_avg=%s spread_max=%s\n",
			st.Issue, st.Count,
			quote.AppendTimestamp(nil, st.FirstAccept), quote.AppendTimestamp(nil, st.LastAccept),
			st.LastBid.Quantity, st.LastBid.Price, st.LastAsk.Quantity, st.LastAsk.Price,
			st.LastMid().String(), st.AvgSpread().StringFixed(2), st.MaxSpread.String())
		if err != nil {
			return errors.Wrap(err, "write summary")
		}
	}
	return nil
}
