// Package goldprice quotes the price of pure (24K) gold in won.
//
// Korean gift ledgers count gold in don; one don is 3.75 g.
package goldprice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// GramsPerDon is the weight of one don of gold.
var GramsPerDon = decimal.RequireFromString("3.75")

// Quote is a gold price on a given day.
type Quote struct {
	PricePerGram decimal.Decimal
	PricePerDon  decimal.Decimal
	Date         time.Time
}

// NewQuote derives the per-don price from a per-gram price, rounded to the won.
func NewQuote(pricePerGram decimal.Decimal, date time.Time) Quote {
	return Quote{
		PricePerGram: pricePerGram,
		PricePerDon:  pricePerGram.Mul(GramsPerDon).Round(0),
		Date:         date,
	}
}

// ValueOf converts a count of don into won, rounded to the won.
func (q Quote) ValueOf(dons int64) int64 {
	return q.PricePerDon.Mul(decimal.NewFromInt(dons)).Round(0).IntPart()
}

// Source provides the current quote.
type Source interface {
	Current(ctx context.Context) (Quote, error)
}

// StaticSource returns a fixed per-don and per-gram price dated today.
// Published per-don retail prices are not exactly 3.75x the per-gram price,
// so both are configured.
type StaticSource struct {
	PricePerDon  int64
	PricePerGram int64
	Now          func() time.Time
}

// DefaultSource quotes roughly 450,000 won per don.
func DefaultSource() *StaticSource {
	return &StaticSource{PricePerDon: 450000, PricePerGram: 120000}
}

// Current implements Source.
func (s *StaticSource) Current(ctx context.Context) (Quote, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now().UTC().Truncate(24 * time.Hour)

	if s.PricePerDon == 0 {
		return NewQuote(decimal.NewFromInt(s.PricePerGram), today), nil
	}
	return Quote{
		PricePerGram: decimal.NewFromInt(s.PricePerGram),
		PricePerDon:  decimal.NewFromInt(s.PricePerDon),
		Date:         today,
	}, nil
}
