package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/goldprice"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
	"github.com/maeumjangbu/ledger/pkg/api"
)

// FriendService implements the FriendService RPC interface.
type FriendService struct {
	store storage.Store
	gold  goldprice.Source
}

// NewFriendService creates a FriendService. gold may be nil, in which case
// gold gifts are not valued in balances.
func NewFriendService(store storage.Store, gold goldprice.Source) *FriendService {
	return &FriendService{store: store, gold: gold}
}

// Routes returns the service's procedures.
func (s *FriendService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(api.FriendServiceCreateFriendProcedure, s.CreateFriend, opts),
		unary(api.FriendServiceListFriendsProcedure, s.ListFriends, opts),
		unary(api.FriendServiceGetFriendProcedure, s.GetFriend, opts),
		unary(api.FriendServiceUpdateFriendProcedure, s.UpdateFriend, opts),
		unary(api.FriendServiceDeleteFriendProcedure, s.DeleteFriend, opts),
	}
}

// CreateFriend adds a friend to the caller's ledger.
func (s *FriendService) CreateFriend(ctx context.Context, req *connect.Request[api.CreateFriendRequest]) (*connect.Response[api.FriendResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateFriend request received", "user_id", ownerID, "name", req.Msg.Name)

	friend := &models.Friend{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Msg.Name),
		Relation: strings.TrimSpace(req.Msg.Relation),
	}
	if err := validateFriend(friend); err != nil {
		return nil, err
	}

	if err := s.store.CreateFriend(ctx, friend); err != nil {
		slog.Error("CreateFriend failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Friend created", "friend_id", friend.ID)
	return connect.NewResponse(&api.FriendResponse{Friend: toAPIFriend(friend)}), nil
}

// ListFriends returns the caller's friends by name, each with a balance.
func (s *FriendService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListFriends(ctx, ownerID)
	if err != nil {
		slog.Error("ListFriends failed", "error", err)
		return nil, toConnectError(err)
	}
	received, err := s.store.ListRecordsByOwner(ctx, ownerID)
	if err != nil {
		slog.Error("ListFriends failed - could not list records", "error", err)
		return nil, toConnectError(err)
	}
	sent, err := s.store.ListSentRecordsByOwner(ctx, ownerID)
	if err != nil {
		slog.Error("ListFriends failed - could not list sent records", "error", err)
		return nil, toConnectError(err)
	}

	balances := friendBalances(ctx, s.gold, friends, received, sent)

	summaries := make([]api.FriendSummary, len(friends))
	for i, f := range friends {
		summaries[i] = api.FriendSummary{
			Friend:  toAPIFriend(f),
			Balance: toAPIBalance(balances[f.ID]),
		}
	}

	slog.Info("ListFriends successful", "user_id", ownerID, "count", len(friends))
	return connect.NewResponse(&api.ListFriendsResponse{Friends: summaries}), nil
}

// GetFriend returns a friend with every gift exchanged with them.
func (s *FriendService) GetFriend(ctx context.Context, req *connect.Request[api.GetFriendRequest]) (*connect.Response[api.GetFriendResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetFriend request received", "friend_id", req.Msg.ID)

	friend, err := s.store.GetFriend(ctx, ownerID, req.Msg.ID)
	if err != nil {
		slog.Error("GetFriend failed", "friend_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	received, err := s.store.ListRecordsByFriend(ctx, ownerID, friend.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	sent, err := s.store.ListSentRecordsByFriend(ctx, ownerID, friend.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	balances := friendBalances(ctx, s.gold, []*models.Friend{friend}, received, sent)

	return connect.NewResponse(&api.GetFriendResponse{
		Friend:      toAPIFriend(friend),
		Balance:     toAPIBalance(balances[friend.ID]),
		Records:     toAPIRecords(received),
		SentRecords: toAPISentRecords(sent),
	}), nil
}

// UpdateFriend renames a friend or changes their relation.
func (s *FriendService) UpdateFriend(ctx context.Context, req *connect.Request[api.UpdateFriendRequest]) (*connect.Response[api.FriendResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateFriend request received", "friend_id", req.Msg.ID)

	friend, err := s.store.GetFriend(ctx, ownerID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Name != nil {
		friend.Name = strings.TrimSpace(*req.Msg.Name)
	}
	if req.Msg.Relation != nil {
		friend.Relation = strings.TrimSpace(*req.Msg.Relation)
	}
	if err := validateFriend(friend); err != nil {
		return nil, err
	}

	if err := s.store.UpdateFriend(ctx, friend); err != nil {
		slog.Error("UpdateFriend failed", "friend_id", friend.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Friend updated", "friend_id", friend.ID)
	return connect.NewResponse(&api.FriendResponse{Friend: toAPIFriend(friend)}), nil
}

// DeleteFriend removes a friend together with their records and sent records.
func (s *FriendService) DeleteFriend(ctx context.Context, req *connect.Request[api.DeleteRequest]) (*connect.Response[api.DeleteResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteFriend(ctx, ownerID, req.Msg.ID); err != nil {
		slog.Error("DeleteFriend failed", "friend_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Friend deleted", "friend_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteResponse{}), nil
}

func validateFriend(f *models.Friend) error {
	if f.Name == "" {
		return invalidArgument("name is required")
	}
	if f.Relation == "" {
		return invalidArgument("relation is required")
	}
	return nil
}
