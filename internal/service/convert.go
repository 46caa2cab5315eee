package service

import (
	"github.com/maeumjangbu/ledger/internal/calculator"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/pkg/api"
)

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIFriend(f *models.Friend) api.Friend {
	return api.Friend{
		ID:        f.ID,
		Name:      f.Name,
		Relation:  f.Relation,
		CreatedAt: f.CreatedAt,
	}
}

func toAPIBalance(b *calculator.FriendBalance) api.Balance {
	if b == nil {
		return api.Balance{}
	}
	return api.Balance{
		ReceivedCount:     b.ReceivedCount,
		ReceivedCash:      b.ReceivedCash,
		ReceivedGold:      b.ReceivedGold,
		ReceivedGoldValue: b.ReceivedGoldValue,
		SentCount:         b.SentCount,
		SentTotal:         b.SentTotal,
		Net:               b.Net,
	}
}

func toAPIEvent(e *models.Event) api.Event {
	return api.Event{
		ID:        e.ID,
		Title:     e.Title,
		Type:      string(e.Category),
		Date:      e.Date.Format(models.DateLayout),
		OwnerID:   e.OwnerID,
		CreatedAt: e.CreatedAt,
	}
}

func toAPIRecord(r *models.RecordDetail) api.GiftRecord {
	rec := api.GiftRecord{
		ID:             r.ID,
		EventID:        r.EventID,
		FriendID:       r.FriendID,
		Amount:         r.Amount,
		GiftType:       string(r.GiftType),
		Memo:           r.Memo,
		CreatedAt:      r.CreatedAt,
		FriendName:     r.FriendName,
		FriendRelation: r.FriendRelation,
		EventTitle:     r.EventTitle,
		EventType:      string(r.EventCategory),
	}
	if !r.EventDate.IsZero() {
		rec.EventDate = r.EventDate.Format(models.DateLayout)
	}
	return rec
}

func toAPIRecords(records []*models.RecordDetail) []api.GiftRecord {
	out := make([]api.GiftRecord, len(records))
	for i, r := range records {
		out[i] = toAPIRecord(r)
	}
	return out
}

func toAPISentRecord(s *models.SentRecord) api.SentRecord {
	return api.SentRecord{
		ID:        s.ID,
		FriendID:  s.FriendID,
		Amount:    s.Amount,
		Date:      s.Date.Format(models.DateLayout),
		EventType: string(s.EventType),
		Memo:      s.Memo,
		CreatedAt: s.CreatedAt,
	}
}

func toAPISentRecords(sent []*models.SentRecord) []api.SentRecord {
	out := make([]api.SentRecord, len(sent))
	for i, s := range sent {
		out[i] = toAPISentRecord(s)
	}
	return out
}

func toAPIImportResult(result *models.ImportResult) *api.BulkImportResult {
	records := make([]api.ImportedRecord, len(result.Records))
	for i, r := range result.Records {
		records[i] = api.ImportedRecord{
			Name:        r.Name,
			Amount:      r.Amount,
			FriendID:    r.FriendID,
			IsNewFriend: r.IsNewFriend,
		}
	}

	event := toAPIEvent(result.Event)
	event.CreatedAt = 0

	return &api.BulkImportResult{
		Event:   event,
		Records: records,
		Summary: api.ImportSummary{
			TotalRecords: result.Summary.TotalRecords,
			TotalAmount:  result.Summary.TotalAmount,
			NewFriends:   result.Summary.NewFriends,
		},
	}
}

func fromAPIRawRecords(records []api.RawRecord) []models.RawRecord {
	out := make([]models.RawRecord, len(records))
	for i, r := range records {
		out[i] = models.RawRecord{Name: r.Name, Amount: r.Amount, Relation: r.Relation}
	}
	return out
}

func toAPIRawRecords(records []models.RawRecord) []api.RawRecord {
	out := make([]api.RawRecord, len(records))
	for i, r := range records {
		out[i] = api.RawRecord{Name: r.Name, Amount: r.Amount, Relation: r.Relation}
	}
	return out
}
