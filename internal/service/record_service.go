package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
	"github.com/maeumjangbu/ledger/pkg/api"
)

// RecordService implements the RecordService RPC interface for gifts
// received at the caller's events.
type RecordService struct {
	store storage.Store
}

// NewRecordService creates a RecordService.
func NewRecordService(store storage.Store) *RecordService {
	return &RecordService{store: store}
}

// Routes returns the service's procedures.
func (s *RecordService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(api.RecordServiceCreateRecordsProcedure, s.CreateRecords, opts),
		unary(api.RecordServiceListRecordsByEventProcedure, s.ListRecordsByEvent, opts),
		unary(api.RecordServiceListRecordsByFriendProcedure, s.ListRecordsByFriend, opts),
		unary(api.RecordServiceUpdateRecordProcedure, s.UpdateRecord, opts),
		unary(api.RecordServiceDeleteRecordProcedure, s.DeleteRecord, opts),
	}
}

// CreateRecords records the same gift from one or more friends at an event.
// Friend IDs the caller does not own are skipped.
func (s *RecordService) CreateRecords(ctx context.Context, req *connect.Request[api.CreateRecordsRequest]) (*connect.Response[api.CreateRecordsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateRecords request received",
		"event_id", req.Msg.EventID,
		"friends_count", len(req.Msg.FriendIDs),
		"amount", req.Msg.Amount,
	)

	if req.Msg.Amount <= 0 {
		return nil, invalidArgument("amount must be positive")
	}
	giftType, err := models.ParseGiftType(req.Msg.GiftType)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	event, err := s.store.GetEvent(ctx, ownerID, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	friends, err := s.store.ListFriends(ctx, ownerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	owned := make(map[string]*models.Friend, len(friends))
	for _, f := range friends {
		owned[f.ID] = f
	}

	requested := req.Msg.FriendIDs
	if req.Msg.FriendID != "" {
		requested = append([]string{req.Msg.FriendID}, requested...)
	}

	seen := make(map[string]bool, len(requested))
	var records []*models.Record
	for _, id := range requested {
		if seen[id] || owned[id] == nil {
			continue
		}
		seen[id] = true
		records = append(records, &models.Record{
			EventID:  event.ID,
			FriendID: id,
			Amount:   req.Msg.Amount,
			GiftType: giftType,
			Memo:     req.Msg.Memo,
		})
	}
	if len(records) == 0 {
		return nil, invalidArgument("no valid friend IDs")
	}

	if err := s.store.CreateRecords(ctx, ownerID, records); err != nil {
		slog.Error("CreateRecords failed", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.GiftRecord, len(records))
	for i, r := range records {
		friend := owned[r.FriendID]
		out[i] = toAPIRecord(&models.RecordDetail{
			Record:         *r,
			FriendName:     friend.Name,
			FriendRelation: friend.Relation,
			EventTitle:     event.Title,
			EventCategory:  event.Category,
			EventDate:      event.Date,
		})
	}

	slog.Info("Records created", "event_id", event.ID, "count", len(records))
	return connect.NewResponse(&api.CreateRecordsResponse{Records: out}), nil
}

// ListRecordsByEvent returns the records of one event, newest first.
func (s *RecordService) ListRecordsByEvent(ctx context.Context, req *connect.Request[api.ListRecordsByEventRequest]) (*connect.Response[api.ListRecordsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetEvent(ctx, ownerID, req.Msg.EventID); err != nil {
		return nil, toConnectError(err)
	}
	records, err := s.store.ListRecordsByEvent(ctx, ownerID, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListRecordsResponse{Records: toAPIRecords(records)}), nil
}

// ListRecordsByFriend returns the gifts one friend has given, newest first.
func (s *RecordService) ListRecordsByFriend(ctx context.Context, req *connect.Request[api.ListRecordsByFriendRequest]) (*connect.Response[api.ListRecordsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetFriend(ctx, ownerID, req.Msg.FriendID); err != nil {
		return nil, toConnectError(err)
	}
	records, err := s.store.ListRecordsByFriend(ctx, ownerID, req.Msg.FriendID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListRecordsResponse{Records: toAPIRecords(records)}), nil
}

// UpdateRecord changes amount, gift type or memo of a record.
func (s *RecordService) UpdateRecord(ctx context.Context, req *connect.Request[api.UpdateRecordRequest]) (*connect.Response[api.RecordResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateRecord request received", "record_id", req.Msg.ID)

	detail, err := s.store.GetRecord(ctx, ownerID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if req.Msg.Amount != nil {
		if *req.Msg.Amount <= 0 {
			return nil, invalidArgument("amount must be positive")
		}
		detail.Amount = *req.Msg.Amount
	}
	if req.Msg.GiftType != nil {
		giftType, err := models.ParseGiftType(*req.Msg.GiftType)
		if err != nil {
			return nil, invalidArgument("%v", err)
		}
		detail.GiftType = giftType
	}
	if req.Msg.Memo != nil {
		detail.Memo = *req.Msg.Memo
	}

	if err := s.store.UpdateRecord(ctx, ownerID, &detail.Record); err != nil {
		slog.Error("UpdateRecord failed", "record_id", detail.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Record updated", "record_id", detail.ID)
	return connect.NewResponse(&api.RecordResponse{Record: toAPIRecord(detail)}), nil
}

// DeleteRecord removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, req *connect.Request[api.DeleteRequest]) (*connect.Response[api.DeleteResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteRecord(ctx, ownerID, req.Msg.ID); err != nil {
		slog.Error("DeleteRecord failed", "record_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Record deleted", "record_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteResponse{}), nil
}
