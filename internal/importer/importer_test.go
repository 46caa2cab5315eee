package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/maeumjangbu/ledger/internal/models"
	"github.com/maeumjangbu/ledger/internal/storage"
	"github.com/maeumjangbu/ledger/internal/storage/sqlite"
)

var errInjected = errors.New("connection dropped")

// setupStore creates a temp-file SQLite store with one registered user.
func setupStore(t *testing.T) (*sqlite.SQLiteStore, string) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user := models.NewUser("owner@example.com", "Owner", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return store, user.ID
}

func addUser(t *testing.T, store *sqlite.SQLiteStore, email string) string {
	t.Helper()
	user := models.NewUser(email, email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user.ID
}

func weddingRequest(records ...models.RawRecord) models.ImportRequest {
	return models.ImportRequest{
		Title:    "제 결혼식",
		Category: "WEDDING",
		Date:     "2024-05-01",
		Records:  records,
	}
}

// failingRunner wraps a store so that the Tx it hands out fails on demand.
type failingRunner struct {
	inner         TxRunner
	recordsBefore int // CreateRecord calls allowed before failing; -1 disables
	failFriend    bool
}

func (f *failingRunner) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	return f.inner.WithTx(ctx, func(tx storage.Tx) error {
		return fn(&failingTx{Tx: tx, remaining: f.recordsBefore, failFriend: f.failFriend})
	})
}

type failingTx struct {
	storage.Tx
	remaining  int
	failFriend bool
}

func (t *failingTx) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if t.failFriend {
		return errInjected
	}
	return t.Tx.CreateFriend(ctx, friend)
}

func (t *failingTx) CreateRecord(ctx context.Context, record *models.Record) error {
	if t.remaining == 0 {
		return errInjected
	}
	t.remaining--
	return t.Tx.CreateRecord(ctx, record)
}

func assertNothingPersisted(t *testing.T, store *sqlite.SQLiteStore, ownerID string) {
	t.Helper()
	ctx := context.Background()

	events, err := store.ListEvents(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}

	friends, err := store.ListFriends(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 0 {
		t.Errorf("expected no friends, got %d", len(friends))
	}

	records, err := store.ListRecordsByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListRecordsByOwner failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestBulkImport_EndToEnd(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()

	result, err := NewEngine(store).BulkImport(ctx, ownerID, weddingRequest(
		models.RawRecord{Name: "홍길동", Amount: 100000},
		models.RawRecord{Name: "김철수", Amount: 50000, Relation: "직장동료"},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}

	if result.Event.ID == "" {
		t.Error("expected event ID to be generated")
	}
	if result.Event.Title != "제 결혼식" {
		t.Errorf("title: expected '제 결혼식', got '%s'", result.Event.Title)
	}
	if result.Event.Category != models.CategoryWedding {
		t.Errorf("category: expected WEDDING, got %s", result.Event.Category)
	}
	if got := result.Event.Date.Format(models.DateLayout); got != "2024-05-01" {
		t.Errorf("date: expected 2024-05-01, got %s", got)
	}

	want := models.ImportSummary{TotalRecords: 2, TotalAmount: 150000, NewFriends: 2}
	if result.Summary != want {
		t.Errorf("summary: expected %+v, got %+v", want, result.Summary)
	}

	if len(result.Records) != 2 {
		t.Fatalf("records: expected 2, got %d", len(result.Records))
	}
	if result.Records[0].Name != "홍길동" || result.Records[1].Name != "김철수" {
		t.Errorf("records out of input order: %+v", result.Records)
	}
	for _, r := range result.Records {
		if !r.IsNewFriend {
			t.Errorf("record %s: expected new friend", r.Name)
		}
	}

	friends, err := store.ListFriends(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	relations := make(map[string]string)
	for _, f := range friends {
		relations[f.Name] = f.Relation
	}
	if len(relations) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(friends))
	}
	if relations["홍길동"] != models.DefaultRelation {
		t.Errorf("홍길동 relation: expected fallback %q, got %q", models.DefaultRelation, relations["홍길동"])
	}
	if relations["김철수"] != "직장동료" {
		t.Errorf("김철수 relation: expected '직장동료', got %q", relations["김철수"])
	}

	records, err := store.ListRecordsByEvent(ctx, ownerID, result.Event.ID)
	if err != nil {
		t.Fatalf("ListRecordsByEvent failed: %v", err)
	}
	var total int64
	for _, r := range records {
		total += r.Amount
		if r.GiftType != models.GiftCash {
			t.Errorf("gift type: expected cash, got %s", r.GiftType)
		}
	}
	if len(records) != 2 || total != 150000 {
		t.Errorf("persisted records: expected 2 totalling 150000, got %d totalling %d", len(records), total)
	}
}

func TestBulkImport_DedupWithinBatch(t *testing.T) {
	store, ownerID := setupStore(t)

	result, err := NewEngine(store).BulkImport(context.Background(), ownerID, weddingRequest(
		models.RawRecord{Name: "Kim", Amount: 10000},
		models.RawRecord{Name: "Kim", Amount: 20000},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}

	if result.Summary.NewFriends != 1 {
		t.Errorf("newFriends: expected 1, got %d", result.Summary.NewFriends)
	}
	if result.Records[0].FriendID != result.Records[1].FriendID {
		t.Errorf("expected both records to reference one friend, got %s and %s",
			result.Records[0].FriendID, result.Records[1].FriendID)
	}
	if !result.Records[0].IsNewFriend || result.Records[1].IsNewFriend {
		t.Errorf("expected only the first occurrence to be new, got %+v", result.Records)
	}

	friends, err := store.ListFriends(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 1 {
		t.Errorf("expected exactly one friend named Kim, got %d", len(friends))
	}
}

func TestBulkImport_ReusesExistingFriend(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()

	lee := &models.Friend{OwnerID: ownerID, Name: "Lee", Relation: "친구"}
	if err := store.CreateFriend(ctx, lee); err != nil {
		t.Fatalf("CreateFriend failed: %v", err)
	}

	result, err := NewEngine(store).BulkImport(ctx, ownerID, weddingRequest(
		models.RawRecord{Name: "Lee", Amount: 50000},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}

	if result.Records[0].FriendID != lee.ID {
		t.Errorf("friendId: expected %s, got %s", lee.ID, result.Records[0].FriendID)
	}
	if result.Records[0].IsNewFriend {
		t.Error("expected existing friend to be reused")
	}
	if result.Summary.NewFriends != 0 {
		t.Errorf("newFriends: expected 0, got %d", result.Summary.NewFriends)
	}
}

func TestBulkImport_ExactNameMatchOnly(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()

	if err := store.CreateFriend(ctx, &models.Friend{OwnerID: ownerID, Name: "kim", Relation: "친구"}); err != nil {
		t.Fatalf("CreateFriend failed: %v", err)
	}

	result, err := NewEngine(store).BulkImport(ctx, ownerID, weddingRequest(
		models.RawRecord{Name: "Kim", Amount: 10000},
		models.RawRecord{Name: "Kim ", Amount: 10000},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}
	if result.Summary.NewFriends != 2 {
		t.Errorf("newFriends: expected 2 (no case folding or trimming), got %d", result.Summary.NewFriends)
	}
}

func TestBulkImport_OtherOwnersFriendsIgnored(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()

	otherID := addUser(t, store, "other@example.com")
	other := &models.Friend{OwnerID: otherID, Name: "Park", Relation: "친구"}
	if err := store.CreateFriend(ctx, other); err != nil {
		t.Fatalf("CreateFriend failed: %v", err)
	}

	result, err := NewEngine(store).BulkImport(ctx, ownerID, weddingRequest(
		models.RawRecord{Name: "Park", Amount: 30000},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}
	if result.Records[0].FriendID == other.ID {
		t.Error("record linked to another owner's friend")
	}
	if !result.Records[0].IsNewFriend {
		t.Error("expected a new friend for this owner")
	}
}

func TestBulkImport_RepeatedCallsCreateNewEvents(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()
	engine := NewEngine(store)
	req := weddingRequest(models.RawRecord{Name: "Choi", Amount: 10000})

	first, err := engine.BulkImport(ctx, ownerID, req)
	if err != nil {
		t.Fatalf("first BulkImport failed: %v", err)
	}
	second, err := engine.BulkImport(ctx, ownerID, req)
	if err != nil {
		t.Fatalf("second BulkImport failed: %v", err)
	}

	if first.Event.ID == second.Event.ID {
		t.Error("expected a second event")
	}

	events, err := store.ListEvents(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events: expected 2, got %d", len(events))
	}

	// The second import finds the friend created by the first one.
	if second.Records[0].FriendID != first.Records[0].FriendID {
		t.Errorf("expected second import to reuse friend %s, got %s",
			first.Records[0].FriendID, second.Records[0].FriendID)
	}
	if second.Summary.NewFriends != 0 {
		t.Errorf("newFriends: expected 0 on second import, got %d", second.Summary.NewFriends)
	}
}

func TestBulkImport_FiltersInvalidRecords(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()

	result, err := NewEngine(store).BulkImport(ctx, ownerID, weddingRequest(
		models.RawRecord{Name: "", Amount: 10000},
		models.RawRecord{Name: "   ", Amount: 10000},
		models.RawRecord{Name: "Yoon", Amount: 0},
		models.RawRecord{Name: "Jung", Amount: -5000},
		models.RawRecord{Name: "Han", Amount: 70000},
		models.RawRecord{Name: "Seo", Amount: 30000},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}

	want := models.ImportSummary{TotalRecords: 2, TotalAmount: 100000, NewFriends: 2}
	if result.Summary != want {
		t.Errorf("summary: expected %+v, got %+v", want, result.Summary)
	}

	friends, err := store.ListFriends(ctx, ownerID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	for _, f := range friends {
		if f.Name == "Yoon" || f.Name == "Jung" {
			t.Errorf("invalid record created friend %s", f.Name)
		}
	}
	if len(friends) != 2 {
		t.Errorf("friends: expected 2, got %d", len(friends))
	}
}

func TestBulkImport_EmptyBatchCreatesEvent(t *testing.T) {
	store, ownerID := setupStore(t)
	ctx := context.Background()

	result, err := NewEngine(store).BulkImport(ctx, ownerID, weddingRequest(
		models.RawRecord{Name: "", Amount: 0},
	))
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}

	if result.Summary != (models.ImportSummary{}) {
		t.Errorf("summary: expected zeros, got %+v", result.Summary)
	}
	if len(result.Records) != 0 {
		t.Errorf("records: expected 0, got %d", len(result.Records))
	}

	if _, err := store.GetEvent(ctx, ownerID, result.Event.ID); err != nil {
		t.Errorf("expected event to be persisted: %v", err)
	}
}

func TestBulkImport_RollsBackOnFailure(t *testing.T) {
	records := []models.RawRecord{
		{Name: "A", Amount: 10000},
		{Name: "B", Amount: 20000},
		{Name: "A", Amount: 30000},
		{Name: "C", Amount: 40000},
	}

	for failAfter := 0; failAfter < len(records); failAfter++ {
		store, ownerID := setupStore(t)
		runner := &failingRunner{inner: store, recordsBefore: failAfter}

		result, err := NewEngine(runner).BulkImport(context.Background(), ownerID, weddingRequest(records...))
		if err == nil {
			t.Fatalf("failAfter=%d: expected error", failAfter)
		}
		if result != nil {
			t.Errorf("failAfter=%d: expected no partial result", failAfter)
		}
		if !errors.Is(err, ErrPersistence) {
			t.Errorf("failAfter=%d: expected ErrPersistence, got %v", failAfter, err)
		}
		if !errors.Is(err, errInjected) {
			t.Errorf("failAfter=%d: expected cause to be preserved, got %v", failAfter, err)
		}

		assertNothingPersisted(t, store, ownerID)
	}
}

func TestBulkImport_RollsBackOnFriendFailure(t *testing.T) {
	store, ownerID := setupStore(t)
	runner := &failingRunner{inner: store, recordsBefore: -1, failFriend: true}

	_, err := NewEngine(runner).BulkImport(context.Background(), ownerID, weddingRequest(
		models.RawRecord{Name: "New", Amount: 10000},
	))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	assertNothingPersisted(t, store, ownerID)
}

func TestBulkImport_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		req     models.ImportRequest
	}{
		{
			name:    "missing owner",
			ownerID: "",
			req:     weddingRequest(),
		},
		{
			name: "blank title",
			req:  models.ImportRequest{Title: "  ", Category: "WEDDING", Date: "2024-05-01"},
		},
		{
			name: "unknown category",
			req:  models.ImportRequest{Title: "돌잔치", Category: "PARTY", Date: "2024-05-01"},
		},
		{
			name: "lowercase category",
			req:  models.ImportRequest{Title: "돌잔치", Category: "wedding", Date: "2024-05-01"},
		},
		{
			name: "malformed date",
			req:  models.ImportRequest{Title: "돌잔치", Category: "ETC", Date: "05/01/2024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, ownerID := setupStore(t)
			if tt.name != "missing owner" {
				tt.ownerID = ownerID
			}

			_, err := NewEngine(store).BulkImport(context.Background(), tt.ownerID, tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}

			assertNothingPersisted(t, store, ownerID)
		})
	}
}

func TestBulkImport_AcceptsRFC3339Date(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "utc", date: "2024-03-10T09:00:00Z", want: "2024-03-10"},
		{name: "just after local midnight", date: "2024-05-01T00:00:00+09:00", want: "2024-05-01"},
		{name: "late evening behind utc", date: "2024-05-01T23:30:00-05:00", want: "2024-05-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, ownerID := setupStore(t)
			ctx := context.Background()

			result, err := NewEngine(store).BulkImport(ctx, ownerID, models.ImportRequest{
				Title:    "장례식",
				Category: "FUNERAL",
				Date:     tt.date,
			})
			if err != nil {
				t.Fatalf("BulkImport failed: %v", err)
			}
			if got := result.Event.Date.Format(models.DateLayout); got != tt.want {
				t.Errorf("date: expected %s, got %s", tt.want, got)
			}

			stored, err := store.GetEvent(ctx, ownerID, result.Event.ID)
			if err != nil {
				t.Fatalf("GetEvent failed: %v", err)
			}
			if got := stored.Date.UTC().Format(models.DateLayout); got != tt.want {
				t.Errorf("stored date: expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]models.ImportedRecord{
		{Name: "a", Amount: 1000, IsNewFriend: true},
		{Name: "b", Amount: 2000},
		{Name: "a", Amount: 3000},
	})
	want := models.ImportSummary{TotalRecords: 3, TotalAmount: 6000, NewFriends: 1}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}
