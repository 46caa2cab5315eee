package service

import (
	"context"
	"log/slog"

	"github.com/maeumjangbu/ledger/internal/calculator"
	"github.com/maeumjangbu/ledger/internal/goldprice"
	"github.com/maeumjangbu/ledger/internal/models"
)

// goldValuer prices gold gifts at the current quote. A failing source only
// drops the gold valuation.
func goldValuer(ctx context.Context, source goldprice.Source) calculator.GoldValuer {
	if source == nil {
		return nil
	}
	quote, err := source.Current(ctx)
	if err != nil {
		slog.Warn("Gold price unavailable, gold gifts left unvalued", "error", err)
		return nil
	}
	return quote.ValueOf
}

func friendBalances(ctx context.Context, source goldprice.Source, friends []*models.Friend, received []*models.RecordDetail, sent []*models.SentRecord) map[string]*calculator.FriendBalance {
	ids := make([]string, len(friends))
	for i, f := range friends {
		ids[i] = f.ID
	}

	in := make([]calculator.ReceivedForBalance, len(received))
	for i, r := range received {
		in[i] = calculator.ReceivedForBalance{
			FriendID: r.FriendID,
			Amount:   r.Amount,
			Gold:     r.GiftType == models.GiftGold,
		}
	}

	out := make([]calculator.SentForBalance, len(sent))
	for i, s := range sent {
		out[i] = calculator.SentForBalance{FriendID: s.FriendID, Amount: s.Amount}
	}

	return calculator.CalculateFriendBalances(ids, in, out, goldValuer(ctx, source))
}
