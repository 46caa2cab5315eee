// Package importer turns a batch of extracted (name, amount) pairs into one
// event, its gift records, and any friends that did not exist yet.
//
// A bulk import is all-or-nothing: every write goes through a single
// storage.Tx, and any failure rolls the whole batch back.
//
// Friends are matched by exact name within the owner's friends, including
// friends created earlier in the same batch. There is no case folding,
// trimming or fuzzy matching. Separate imports do not deduplicate against
// each other beyond that lookup, so two imports of an unseen name that run
// on different connections may each create a friend. The SQLite store
// serializes transactions, which prevents this for that backend.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maeumjangbu/ledger/internal/metrics"
	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
)

var (
	// ErrValidation marks a request that should have been rejected upstream:
	// missing owner or title, unknown category, unparseable date.
	ErrValidation = errors.New("invalid import request")

	// ErrPersistence marks a failed transaction. Nothing was saved and the
	// whole call is safe to retry.
	ErrPersistence = errors.New("import failed, nothing was saved")
)

// TxRunner opens transactions. storage.Store satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx storage.Tx) error) error
}

// Engine performs bulk imports.
type Engine struct {
	store TxRunner
}

// NewEngine creates an Engine writing through store.
func NewEngine(store TxRunner) *Engine {
	return &Engine{store: store}
}

// BulkImport creates one event for ownerID and one cash record per valid raw
// record, creating friends for names the owner does not have yet.
//
// Records with a blank name or a non-positive amount are dropped before the
// transaction starts. An empty batch still creates the event.
func (e *Engine) BulkImport(ctx context.Context, ownerID string, req models.ImportRequest) (*models.ImportResult, error) {
	event, err := newEvent(ownerID, req)
	if err != nil {
		metrics.ObserveImport(metrics.ImportRejected, 0, 0)
		return nil, err
	}

	valid := FilterValid(req.Records)
	slog.Info("Bulk import started",
		"owner_id", ownerID,
		"title", event.Title,
		"raw_count", len(req.Records),
		"valid_count", len(valid),
	)

	var resolved []models.ImportedRecord
	err = e.store.WithTx(ctx, func(tx storage.Tx) error {
		resolved = make([]models.ImportedRecord, 0, len(valid))

		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}

		// name -> friend ID for names already resolved in this batch
		known := make(map[string]string, len(valid))

		for i, raw := range valid {
			friendID, created, err := resolveFriend(ctx, tx, ownerID, raw, known)
			if err != nil {
				return fmt.Errorf("record %d (%s): %w", i, raw.Name, err)
			}

			record := &models.Record{
				EventID:  event.ID,
				FriendID: friendID,
				Amount:   raw.Amount,
				GiftType: models.GiftCash,
			}
			if err := tx.CreateRecord(ctx, record); err != nil {
				return fmt.Errorf("record %d (%s): %w", i, raw.Name, err)
			}

			resolved = append(resolved, models.ImportedRecord{
				Name:        raw.Name,
				Amount:      raw.Amount,
				FriendID:    friendID,
				IsNewFriend: created,
			})
		}
		return nil
	})
	if err != nil {
		metrics.ObserveImport(metrics.ImportFailed, 0, 0)
		slog.Error("Bulk import rolled back", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	result := &models.ImportResult{
		Event:   event,
		Records: resolved,
		Summary: Summarize(resolved),
	}

	metrics.ObserveImport(metrics.ImportCommitted, result.Summary.TotalRecords, result.Summary.NewFriends)
	slog.Info("Bulk import committed",
		"owner_id", ownerID,
		"event_id", event.ID,
		"records", result.Summary.TotalRecords,
		"total_amount", result.Summary.TotalAmount,
		"new_friends", result.Summary.NewFriends,
	)

	return result, nil
}

// FilterValid returns the records that may take part in an import, in input order.
func FilterValid(records []models.RawRecord) []models.RawRecord {
	valid := make([]models.RawRecord, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	return valid
}

// Summarize aggregates resolved records.
func Summarize(records []models.ImportedRecord) models.ImportSummary {
	var s models.ImportSummary
	for _, r := range records {
		s.TotalRecords++
		s.TotalAmount += r.Amount
		if r.IsNewFriend {
			s.NewFriends++
		}
	}
	return s
}

// resolveFriend returns the ID of the owner's friend named raw.Name, creating
// the friend when none exists. created is true only for the record that
// caused the creation; later records with the same name reuse it.
func resolveFriend(ctx context.Context, tx storage.Tx, ownerID string, raw models.RawRecord, known map[string]string) (string, bool, error) {
	if id, ok := known[raw.Name]; ok {
		return id, false, nil
	}

	existing, err := tx.FindFriendByName(ctx, ownerID, raw.Name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		known[raw.Name] = existing.ID
		return existing.ID, false, nil
	}

	relation := strings.TrimSpace(raw.Relation)
	if relation == "" {
		relation = models.DefaultRelation
	}

	friend := &models.Friend{
		OwnerID:  ownerID,
		Name:     raw.Name,
		Relation: relation,
	}
	if err := tx.CreateFriend(ctx, friend); err != nil {
		return "", false, err
	}

	known[raw.Name] = friend.ID
	return friend.ID, true, nil
}

// newEvent validates the event metadata of req.
func newEvent(ownerID string, req models.ImportRequest) (*models.Event, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return &models.Event{
		OwnerID:  ownerID,
		Title:    title,
		Category: category,
		Date:     date,
	}, nil
}
