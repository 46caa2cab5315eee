package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/internal/importer"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/ocr"
	"github.com/maeumjangbu/ledger/internal/storage"
	"github.com/maeumjangbu/ledger/pkg/api"
)

const defaultImageMimeType = "image/jpeg"

// EventService implements the EventService RPC interface, including the
// photograph-to-ledger import flow.
type EventService struct {
	store     storage.Store
	engine    *importer.Engine
	extractor ocr.Extractor
}

// NewEventService creates an EventService. extractor may be nil when no
// vision model is configured; ExtractRecords then recognizes nothing.
func NewEventService(store storage.Store, extractor ocr.Extractor) *EventService {
	return &EventService{
		store:     store,
		engine:    importer.NewEngine(store),
		extractor: extractor,
	}
}

// Routes returns the service's procedures.
func (s *EventService) Routes(opts ...connect.HandlerOption) []Route {
	return []Route{
		unary(api.EventServiceCreateEventProcedure, s.CreateEvent, opts),
		unary(api.EventServiceListEventsProcedure, s.ListEvents, opts),
		unary(api.EventServiceGetEventProcedure, s.GetEvent, opts),
		unary(api.EventServiceUpdateEventProcedure, s.UpdateEvent, opts),
		unary(api.EventServiceDeleteEventProcedure, s.DeleteEvent, opts),
		unary(api.EventServiceExtractRecordsProcedure, s.ExtractRecords, opts),
		unary(api.EventServiceBulkImportProcedure, s.BulkImport, opts),
	}
}

// CreateEvent adds an event to the caller's ledger.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.EventResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateEvent request received", "title", req.Msg.Title, "type", req.Msg.Type)

	event := &models.Event{OwnerID: ownerID}
	if err := applyEventFields(event, &req.Msg.Title, &req.Msg.Type, &req.Msg.Date); err != nil {
		return nil, err
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event created", "event_id", event.ID)
	return connect.NewResponse(&api.EventResponse{Event: toAPIEvent(event)}), nil
}

// ListEvents returns the caller's events, latest first, with record totals.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.store.ListEvents(ctx, ownerID)
	if err != nil {
		slog.Error("ListEvents failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.EventSummary, len(events))
	for i, e := range events {
		out[i] = api.EventSummary{
			Event:       toAPIEvent(&e.Event),
			RecordCount: e.RecordCount,
			TotalAmount: e.TotalAmount,
		}
	}

	slog.Info("ListEvents successful", "user_id", ownerID, "count", len(events))
	return connect.NewResponse(&api.ListEventsResponse{Events: out}), nil
}

// GetEvent returns an event with its records and what the caller has sent
// back to the friends who gave at it.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetEvent request received", "event_id", req.Msg.ID)

	event, err := s.store.GetEvent(ctx, ownerID, req.Msg.ID)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	records, err := s.store.ListRecordsByEvent(ctx, ownerID, event.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	var total int64
	seen := make(map[string]bool, len(records))
	friendIDs := make([]string, 0, len(records))
	for _, r := range records {
		total += r.Amount
		if !seen[r.FriendID] {
			seen[r.FriendID] = true
			friendIDs = append(friendIDs, r.FriendID)
		}
	}

	sentTotal, err := s.store.SumSentToFriends(ctx, ownerID, friendIDs)
	if err != nil {
		slog.Error("GetEvent failed - could not sum sent records", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetEventResponse{
		Event:           toAPIEvent(event),
		Records:         toAPIRecords(records),
		RecordCount:     len(records),
		TotalAmount:     total,
		SentTotalAmount: sentTotal,
	}), nil
}

// UpdateEvent changes the title, type or date of an event.
func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.EventResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateEvent request received", "event_id", req.Msg.ID)

	event, err := s.store.GetEvent(ctx, ownerID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := applyEventFields(event, req.Msg.Title, req.Msg.Type, req.Msg.Date); err != nil {
		return nil, err
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		slog.Error("UpdateEvent failed", "event_id", event.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event updated", "event_id", event.ID)
	return connect.NewResponse(&api.EventResponse{Event: toAPIEvent(event)}), nil
}

// DeleteEvent removes an event and its records.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteRequest]) (*connect.Response[api.DeleteResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteEvent(ctx, ownerID, req.Msg.ID); err != nil {
		slog.Error("DeleteEvent failed", "event_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event deleted", "event_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteResponse{}), nil
}

// ExtractRecords reads (name, amount) pairs off a photographed ledger page.
//
// Any extraction failure is reported as nothing recognized, not as an
// error: the user can still type the records in by hand.
func (s *EventService) ExtractRecords(ctx context.Context, req *connect.Request[api.ExtractRecordsRequest]) (*connect.Response[api.ExtractRecordsResponse], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	image, mimeType, err := decodeImage(req.Msg.Image, req.Msg.MimeType)
	if err != nil {
		return nil, err
	}
	slog.Info("ExtractRecords request received", "user_id", ownerID, "bytes", len(image), "mime_type", mimeType)

	empty := &api.ExtractRecordsResponse{Records: []api.RawRecord{}}
	if s.extractor == nil {
		slog.Warn("ExtractRecords called without a configured extractor")
		return connect.NewResponse(empty), nil
	}

	records, err := s.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, toConnectError(err)
		}
		slog.Warn("ExtractRecords recognized nothing", "user_id", ownerID, "error", err)
		return connect.NewResponse(empty), nil
	}

	slog.Info("ExtractRecords successful", "user_id", ownerID, "count", len(records))
	return connect.NewResponse(&api.ExtractRecordsResponse{
		Records:    toAPIRawRecords(records),
		Recognized: len(records) > 0,
	}), nil
}

// BulkImport creates an event and its records from a reviewed batch,
// creating friends for names the caller does not have yet.
func (s *EventService) BulkImport(ctx context.Context, req *connect.Request[api.BulkImportRequest]) (*connect.Response[api.BulkImportResult], error) {
	ownerID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("BulkImport request received",
		"user_id", ownerID,
		"title", req.Msg.Title,
		"records_count", len(req.Msg.Records),
	)

	result, err := s.engine.BulkImport(ctx, ownerID, models.ImportRequest{
		Title:    strings.TrimSpace(req.Msg.Title),
		Category: req.Msg.Type,
		Date:     req.Msg.Date,
		Records:  fromAPIRawRecords(req.Msg.Records),
	})
	if err != nil {
		if errors.Is(err, importer.ErrValidation) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(toAPIImportResult(result)), nil
}

// applyEventFields sets the non-nil fields on event and validates them.
func applyEventFields(event *models.Event, title, category, date *string) error {
	if title != nil {
		event.Title = strings.TrimSpace(*title)
	}
	if event.Title == "" {
		return invalidArgument("title is required")
	}

	if category != nil {
		c, err := models.ParseCategory(*category)
		if err != nil {
			return invalidArgument("%v", err)
		}
		event.Category = c
	}
	if !event.Category.Valid() {
		return invalidArgument("type is required")
	}

	if date != nil {
		d, err := models.ParseDate(*date)
		if err != nil {
			return invalidArgument("%v", err)
		}
		event.Date = d
	}
	if event.Date.IsZero() {
		return invalidArgument("date is required")
	}
	return nil
}

// decodeImage accepts raw base64 or a data URL ("data:image/png;base64,...").
func decodeImage(encoded, mimeType string) ([]byte, string, error) {
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", invalidArgument("malformed data URL")
		}
		if mt, _, _ := strings.Cut(header, ";"); mt != "" && mimeType == "" {
			mimeType = mt
		}
		encoded = data
	}
	if mimeType == "" {
		mimeType = defaultImageMimeType
	}

	image, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, "", invalidArgument("image is not valid base64: %v", err)
	}
	if len(image) == 0 {
		return nil, "", invalidArgument("image is required")
	}
	return image, mimeType, nil
}
