package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/goldprice"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/pkg/api"
)

// GoldPriceService implements the GoldPriceService RPC interface.
type GoldPriceService struct {
	source goldprice.Source
}

// NewGoldPriceService creates a GoldPriceService quoting from source.
func NewGoldPriceService(source goldprice.Source) *GoldPriceService {
	return &GoldPriceService{source: source}
}

// Routes returns the service's procedures.
func (s *GoldPriceService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(api.GoldPriceServiceGetGoldPriceProcedure, s.GetGoldPrice, opts),
	}
}

// GetGoldPrice returns today's gold price per don and per gram.
func (s *GoldPriceService) GetGoldPrice(ctx context.Context, req *connect.Request[api.GetGoldPriceRequest]) (*connect.Response[api.GetGoldPriceResponse], error) {
	quote, err := s.source.Current(ctx)
	if err != nil {
		slog.Error("GetGoldPrice failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return connect.NewResponse(&api.GetGoldPriceResponse{
		PricePerDon:  quote.PricePerDon.IntPart(),
		PricePerGram: quote.PricePerGram.IntPart(),
		Date:         quote.Date.Format(models.DateLayout),
	}), nil
}
