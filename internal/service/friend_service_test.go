package service

import (
	"testing"

	"connectrpc.com/connect"

	"github.com/maeumjangbu/ledger/pkg/api"
)

func TestFriendCRUD(t *testing.T) {
	ts := setupTestServer(t)
	client, _ := ts.register(t, "alice@example.com")

	friend := createFriend(t, client, " 김철수 ", "친구")
	if friend.ID == "" || friend.Name != "김철수" || friend.Relation != "친구" {
		t.Errorf("unexpected friend: %+v", friend)
	}

	updated := call[api.UpdateFriendRequest, api.FriendResponse](t, client, api.FriendServiceUpdateFriendProcedure,
		&api.UpdateFriendRequest{ID: friend.ID, Relation: strPtr("직장동료")})
	if updated.Friend.Name != "김철수" || updated.Friend.Relation != "직장동료" {
		t.Errorf("unexpected updated friend: %+v", updated.Friend)
	}

	got := call[api.GetFriendRequest, api.GetFriendResponse](t, client, api.FriendServiceGetFriendProcedure, &api.GetFriendRequest{ID: friend.ID})
	if got.Friend.Relation != "직장동료" {
		t.Errorf("GetFriend: expected updated relation, got %+v", got.Friend)
	}
	if got.Records == nil || got.SentRecords == nil {
		t.Error("expected empty (non-null) record lists")
	}

	call[api.DeleteRequest, api.DeleteResponse](t, client, api.FriendServiceDeleteFriendProcedure, &api.DeleteRequest{ID: friend.ID})
	callErr[api.GetFriendRequest, api.GetFriendResponse](t, client, api.FriendServiceGetFriendProcedure,
		&api.GetFriendRequest{ID: friend.ID}, connect.CodeNotFound)
}

func TestFriendValidation(t *testing.T) {
	ts := setupTestServer(t)
	client, _ := ts.register(t, "alice@example.com")

	callErr[api.CreateFriendRequest, api.FriendResponse](t, client, api.FriendServiceCreateFriendProcedure,
		&api.CreateFriendRequest{Name: "", Relation: "친구"}, connect.CodeInvalidArgument)
	callErr[api.CreateFriendRequest, api.FriendResponse](t, client, api.FriendServiceCreateFriendProcedure,
		&api.CreateFriendRequest{Name: "김철수"}, connect.CodeInvalidArgument)

	friend := createFriend(t, client, "김철수", "친구")
	callErr[api.UpdateFriendRequest, api.FriendResponse](t, client, api.FriendServiceUpdateFriendProcedure,
		&api.UpdateFriendRequest{ID: friend.ID, Name: strPtr("  ")}, connect.CodeInvalidArgument)
	callErr[api.UpdateFriendRequest, api.FriendResponse](t, client, api.FriendServiceUpdateFriendProcedure,
		&api.UpdateFriendRequest{ID: "missing", Name: strPtr("이영희")}, connect.CodeNotFound)
}

func TestFriendsAreOwnerScoped(t *testing.T) {
	ts := setupTestServer(t)
	alice, _ := ts.register(t, "alice@example.com")
	bob, _ := ts.register(t, "bob@example.com")

	friend := createFriend(t, alice, "김철수", "친구")

	callErr[api.GetFriendRequest, api.GetFriendResponse](t, bob, api.FriendServiceGetFriendProcedure,
		&api.GetFriendRequest{ID: friend.ID}, connect.CodeNotFound)
	callErr[api.UpdateFriendRequest, api.FriendResponse](t, bob, api.FriendServiceUpdateFriendProcedure,
		&api.UpdateFriendRequest{ID: friend.ID, Name: strPtr("탈취")}, connect.CodeNotFound)
	callErr[api.DeleteRequest, api.DeleteResponse](t, bob, api.FriendServiceDeleteFriendProcedure,
		&api.DeleteRequest{ID: friend.ID}, connect.CodeNotFound)

	list := call[api.ListFriendsRequest, api.ListFriendsResponse](t, bob, api.FriendServiceListFriendsProcedure, &api.ListFriendsRequest{})
	if len(list.Friends) != 0 {
		t.Errorf("expected bob to see no friends, got %d", len(list.Friends))
	}
}

func TestFriendBalances(t *testing.T) {
	ts := setupTestServer(t)
	client, _ := ts.register(t, "alice@example.com")

	kim := createFriend(t, client, "김철수", "친구")
	lee := createFriend(t, client, "이영희", "동창")
	event := createEvent(t, client, "제 결혼식", "WEDDING", "2024-05-01")

	call[api.CreateRecordsRequest, api.CreateRecordsResponse](t, client, api.RecordServiceCreateRecordsProcedure,
		&api.CreateRecordsRequest{EventID: event.ID, FriendID: kim.ID, Amount: 50000})
	call[api.CreateRecordsRequest, api.CreateRecordsResponse](t, client, api.RecordServiceCreateRecordsProcedure,
		&api.CreateRecordsRequest{EventID: event.ID, FriendID: kim.ID, Amount: 1, GiftType: "gold"})
	call[api.CreateSentRecordRequest, api.SentRecordResponse](t, client, api.SentRecordServiceCreateSentRecordProcedure,
		&api.CreateSentRecordRequest{FriendID: kim.ID, Amount: 30000, Date: "2023-01-01", EventType: "WEDDING"})

	list := call[api.ListFriendsRequest, api.ListFriendsResponse](t, client, api.FriendServiceListFriendsProcedure, &api.ListFriendsRequest{})
	if len(list.Friends) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(list.Friends))
	}

	balances := make(map[string]api.Balance)
	for _, f := range list.Friends {
		balances[f.Friend.ID] = f.Balance
	}

	// 50,000 cash + 1 don at 400,000 - 30,000 sent
	want := api.Balance{
		ReceivedCount:     2,
		ReceivedCash:      50000,
		ReceivedGold:      1,
		ReceivedGoldValue: 400000,
		SentCount:         1,
		SentTotal:         30000,
		Net:               420000,
	}
	if balances[kim.ID] != want {
		t.Errorf("kim: expected %+v, got %+v", want, balances[kim.ID])
	}
	if balances[lee.ID] != (api.Balance{}) {
		t.Errorf("lee: expected zero balance, got %+v", balances[lee.ID])
	}

	detail := call[api.GetFriendRequest, api.GetFriendResponse](t, client, api.FriendServiceGetFriendProcedure, &api.GetFriendRequest{ID: kim.ID})
	if detail.Balance != want {
		t.Errorf("GetFriend balance: expected %+v, got %+v", want, detail.Balance)
	}
	if len(detail.Records) != 2 || len(detail.SentRecords) != 1 {
		t.Errorf("expected 2 records and 1 sent record, got %d and %d", len(detail.Records), len(detail.SentRecords))
	}
	if detail.Records[0].EventTitle != "제 결혼식" || detail.Records[0].EventType != "WEDDING" {
		t.Errorf("expected event details on records, got %+v", detail.Records[0])
	}
}

func TestDeleteFriendCascades(t *testing.T) {
	ts := setupTestServer(t)
	client, _ := ts.register(t, "alice@example.com")

	friend := createFriend(t, client, "김철수", "친구")
	event := createEvent(t, client, "제 결혼식", "WEDDING", "2024-05-01")
	call[api.CreateRecordsRequest, api.CreateRecordsResponse](t, client, api.RecordServiceCreateRecordsProcedure,
		&api.CreateRecordsRequest{EventID: event.ID, FriendID: friend.ID, Amount: 50000})

	call[api.DeleteRequest, api.DeleteResponse](t, client, api.FriendServiceDeleteFriendProcedure, &api.DeleteRequest{ID: friend.ID})

	records := call[api.ListRecordsByEventRequest, api.ListRecordsResponse](t, client, api.RecordServiceListRecordsByEventProcedure,
		&api.ListRecordsByEventRequest{EventID: event.ID})
	if len(records.Records) != 0 {
		t.Errorf("expected records of deleted friend to be gone, got %d", len(records.Records))
	}
}
