package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/calculator"
	"github.com/maeumjangbu/ledger/internal/goldprice"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
	"github.com/maeumjangbu/ledger/pkg/api"
)

const defaultSummaryTop = 5

// LedgerService implements the LedgerService RPC interface: owner-wide
// statistics over all friends, events and gifts.
type LedgerService struct {
	store storage.Store
	gold  goldprice.Source
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(store storage.Store, gold goldprice.Source) *LedgerService {
	return &LedgerService{store: store, gold: gold}
}

// Routes returns the service's procedures.
func (s *LedgerService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(api.LedgerServiceGetSummaryProcedure, s.GetSummary, opts),
	}
}

// GetSummary totals the caller's ledger and lists the friends owed a return
// gift the most.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	top := req.Msg.Top
	if top <= 0 {
		top = defaultSummaryTop
	}

	friends, err := s.store.ListFriends(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	events, err := s.store.ListEvents(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	received, err := s.store.ListRecordsByOwner(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	sent, err := s.store.ListSentRecordsByOwner(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	balances := friendBalances(ctx, s.gold, friends, received, sent)
	totals := calculator.Totals(balances)

	byID := make(map[string]*models.Friend, len(friends))
	for _, f := range friends {
		byID[f.ID] = f
	}

	toReturn := make([]api.FriendSummary, 0, top)
	for _, b := range calculator.TopByNet(balances, top) {
		if b.Net <= 0 {
			break
		}
		friend, ok := byID[b.FriendID]
		if !ok {
			continue
		}
		toReturn = append(toReturn, api.FriendSummary{
			Friend:  toAPIFriend(friend),
			Balance: toAPIBalance(b),
		})
	}

	slog.Info("GetSummary successful",
		"user_id", ownerID,
		"friends_count", len(friends),
		"events_count", len(events),
	)

	return connect.NewResponse(&api.GetSummaryResponse{
		FriendCount:   len(friends),
		EventCount:    len(events),
		ReceivedCount: totals.ReceivedCount,
		ReceivedCash:  totals.ReceivedCash,
		ReceivedGold:  totals.ReceivedGold,
		SentCount:     totals.SentCount,
		SentTotal:     totals.SentTotal,
		ToReturn:      toReturn,
	}), nil
}
