package api

// Service names.
const (
	AuthServiceName       = "maeumjangbu.v1.AuthService"
	FriendServiceName     = "maeumjangbu.v1.FriendService"
	EventServiceName      = "maeumjangbu.v1.EventService"
	RecordServiceName     = "maeumjangbu.v1.RecordService"
	SentRecordServiceName = "maeumjangbu.v1.SentRecordService"
	GoldPriceServiceName  = "maeumjangbu.v1.GoldPriceService"
	LedgerServiceName     = "maeumjangbu.v1.LedgerService"
)

// Procedure paths.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	FriendServiceCreateFriendProcedure = "/" + FriendServiceName + "/CreateFriend"
	FriendServiceListFriendsProcedure  = "/" + FriendServiceName + "/ListFriends"
	FriendServiceGetFriendProcedure    = "/" + FriendServiceName + "/GetFriend"
	FriendServiceUpdateFriendProcedure = "/" + FriendServiceName + "/UpdateFriend"
	FriendServiceDeleteFriendProcedure = "/" + FriendServiceName + "/DeleteFriend"

	EventServiceCreateEventProcedure    = "/" + EventServiceName + "/CreateEvent"
	EventServiceListEventsProcedure     = "/" + EventServiceName + "/ListEvents"
	EventServiceGetEventProcedure       = "/" + EventServiceName + "/GetEvent"
	EventServiceUpdateEventProcedure    = "/" + EventServiceName + "/UpdateEvent"
	EventServiceDeleteEventProcedure    = "/" + EventServiceName + "/DeleteEvent"
	EventServiceExtractRecordsProcedure = "/" + EventServiceName + "/ExtractRecords"
	EventServiceBulkImportProcedure     = "/" + EventServiceName + "/BulkImport"

	RecordServiceCreateRecordsProcedure       = "/" + RecordServiceName + "/CreateRecords"
	RecordServiceListRecordsByEventProcedure  = "/" + RecordServiceName + "/ListRecordsByEvent"
	RecordServiceListRecordsByFriendProcedure = "/" + RecordServiceName + "/ListRecordsByFriend"
	RecordServiceUpdateRecordProcedure        = "/" + RecordServiceName + "/UpdateRecord"
	RecordServiceDeleteRecordProcedure        = "/" + RecordServiceName + "/DeleteRecord"

	SentRecordServiceCreateSentRecordProcedure = "/" + SentRecordServiceName + "/CreateSentRecord"
	SentRecordServiceListSentRecordsProcedure  = "/" + SentRecordServiceName + "/ListSentRecords"
	SentRecordServiceDeleteSentRecordProcedure = "/" + SentRecordServiceName + "/DeleteSentRecord"

	GoldPriceServiceGetGoldPriceProcedure = "/" + GoldPriceServiceName + "/GetGoldPrice"

	LedgerServiceGetSummaryProcedure = "/" + LedgerServiceName + "/GetSummary"
)
