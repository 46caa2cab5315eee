package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
	"github.com/maeumjangbu/ledger/pkg/api"
)

// SentRecordService implements the SentRecordService RPC interface for gifts
// the caller sent to friends' ceremonies.
type SentRecordService struct {
	store storage.Store
}

// NewSentRecordService creates a SentRecordService.
func NewSentRecordService(store storage.Store) *SentRecordService {
	return &SentRecordService{store: store}
}

// Routes returns the service's procedures.
func (s *SentRecordService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(api.SentRecordServiceCreateSentRecordProcedure, s.CreateSentRecord, opts),
		unary(api.SentRecordServiceListSentRecordsProcedure, s.ListSentRecords, opts),
		unary(api.SentRecordServiceDeleteSentRecordProcedure, s.DeleteSentRecord, opts),
	}
}

// CreateSentRecord records a gift sent to a friend.
func (s *SentRecordService) CreateSentRecord(ctx context.Context, req *connect.Request[api.CreateSentRecordRequest]) (*connect.Response[api.SentRecordResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateSentRecord request received", "friend_id", req.Msg.FriendID, "amount", req.Msg.Amount)

	if req.Msg.FriendID == "" {
		return nil, invalidArgument("friendId is required")
	}
	if req.Msg.Amount <= 0 {
		return nil, invalidArgument("amount must be positive")
	}
	date, err := models.ParseDate(req.Msg.Date)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	eventType, err := models.ParseCategory(req.Msg.EventType)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	sent := &models.SentRecord{
		OwnerID:   ownerID,
		FriendID:  req.Msg.FriendID,
		Amount:    req.Msg.Amount,
		Date:      date,
		EventType: eventType,
		Memo:      req.Msg.Memo,
	}
	if err := s.store.CreateSentRecord(ctx, sent); err != nil {
		slog.Error("CreateSentRecord failed", "friend_id", req.Msg.FriendID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Sent record created", "sent_record_id", sent.ID)
	return connect.NewResponse(&api.SentRecordResponse{SentRecord: toAPISentRecord(sent)}), nil
}

// ListSentRecords returns the gifts sent to one friend, latest first.
func (s *SentRecordService) ListSentRecords(ctx context.Context, req *connect.Request[api.ListSentRecordsRequest]) (*connect.Response[api.ListSentRecordsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetFriend(ctx, ownerID, req.Msg.FriendID); err != nil {
		return nil, toConnectError(err)
	}
	sent, err := s.store.ListSentRecordsByFriend(ctx, ownerID, req.Msg.FriendID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListSentRecordsResponse{SentRecords: toAPISentRecords(sent)}), nil
}

// DeleteSentRecord removes a sent record.
func (s *SentRecordService) DeleteSentRecord(ctx context.Context, req *connect.Request[api.DeleteRequest]) (*connect.Response[api.DeleteResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteSentRecord(ctx, ownerID, req.Msg.ID); err != nil {
		slog.Error("DeleteSentRecord failed", "sent_record_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Sent record deleted", "sent_record_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteResponse{}), nil
}
