package api

// Dates are "YYYY-MM-DD" strings on the wire; timestamps are Unix seconds.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

type Friend struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Relation  string `json:"relation"`
	CreatedAt int64  `json:"createdAt"`
}

// Balance summarizes the gifts exchanged with one friend. Gold is counted in
// don; every other amount is in won.
type Balance struct {
	ReceivedCount     int   `json:"receivedCount"`
	ReceivedCash      int64 `json:"receivedCash"`
	ReceivedGold      int64 `json:"receivedGold"`
	ReceivedGoldValue int64 `json:"receivedGoldValue"`
	SentCount         int   `json:"sentCount"`
	SentTotal         int64 `json:"sentTotal"`
	Net               int64 `json:"net"`
}

type FriendSummary struct {
	Friend  Friend  `json:"friend"`
	Balance Balance `json:"balance"`
}

type Event struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	OwnerID   string `json:"ownerId"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

type EventSummary struct {
	Event       Event `json:"event"`
	RecordCount int   `json:"recordCount"`
	TotalAmount int64 `json:"totalAmount"`
}

type GiftRecord struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	FriendID  string `json:"friendId"`
	Amount    int64  `json:"amount"`
	GiftType  string `json:"giftType"`
	Memo      string `json:"memo,omitempty"`
	CreatedAt int64  `json:"createdAt"`

	FriendName     string `json:"friendName,omitempty"`
	FriendRelation string `json:"friendRelation,omitempty"`
	EventTitle     string `json:"eventTitle,omitempty"`
	EventType      string `json:"eventType,omitempty"`
	EventDate      string `json:"eventDate,omitempty"`
}

type SentRecord struct {
	ID        string `json:"id"`
	FriendID  string `json:"friendId"`
	Amount    int64  `json:"amount"`
	Date      string `json:"date"`
	EventType string `json:"eventType"`
	Memo      string `json:"memo,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse answers both Register and Login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// Friends

type CreateFriendRequest struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

type FriendResponse struct {
	Friend Friend `json:"friend"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []FriendSummary `json:"friends"`
}

type GetFriendRequest struct {
	ID string `json:"id"`
}

type GetFriendResponse struct {
	Friend      Friend       `json:"friend"`
	Balance     Balance      `json:"balance"`
	Records     []GiftRecord `json:"records"`
	SentRecords []SentRecord `json:"sentRecords"`
}

// UpdateFriendRequest changes only the fields that are set.
type UpdateFriendRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Relation *string `json:"relation,omitempty"`
}

type DeleteRequest struct {
	ID string `json:"id"`
}

type DeleteResponse struct{}

// Events

type CreateEventRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Date  string `json:"date"`
}

type EventResponse struct {
	Event Event `json:"event"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []EventSummary `json:"events"`
}

type GetEventRequest struct {
	ID string `json:"id"`
}

type GetEventResponse struct {
	Event       Event        `json:"event"`
	Records     []GiftRecord `json:"records"`
	RecordCount int          `json:"recordCount"`
	TotalAmount int64        `json:"totalAmount"`

	// SentTotalAmount is what the owner has sent, over all time, to the
	// friends who gave at this event.
	SentTotalAmount int64 `json:"sentTotalAmount"`
}

// UpdateEventRequest changes only the fields that are set.
type UpdateEventRequest struct {
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
	Type  *string `json:"type,omitempty"`
	Date  *string `json:"date,omitempty"`
}

type ExtractRecordsRequest struct {
	// Image is the base64-encoded photo, optionally as a data URL.
	Image    string `json:"image"`
	MimeType string `json:"mimeType,omitempty"`
}

type ExtractRecordsResponse struct {
	Records    []RawRecord `json:"records"`
	Recognized bool        `json:"recognized"`
}

type RawRecord struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Relation string `json:"relation,omitempty"`
}

type BulkImportRequest struct {
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Date    string      `json:"date"`
	Records []RawRecord `json:"records"`
}

type ImportedRecord struct {
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	FriendID    string `json:"friendId"`
	IsNewFriend bool   `json:"isNewFriend"`
}

type ImportSummary struct {
	TotalRecords int   `json:"totalRecords"`
	TotalAmount  int64 `json:"totalAmount"`
	NewFriends   int   `json:"newFriends"`
}

type BulkImportResult struct {
	Event   Event            `json:"event"`
	Records []ImportedRecord `json:"records"`
	Summary ImportSummary    `json:"summary"`
}

// Gift records

// CreateRecordsRequest creates one record per friend. FriendID and FriendIDs
// may be combined.
type CreateRecordsRequest struct {
	EventID   string   `json:"eventId"`
	FriendID  string   `json:"friendId,omitempty"`
	FriendIDs []string `json:"friendIds,omitempty"`
	Amount    int64    `json:"amount"`
	GiftType  string   `json:"giftType,omitempty"`
	Memo      string   `json:"memo,omitempty"`
}

type CreateRecordsResponse struct {
	Records []GiftRecord `json:"records"`
}

type ListRecordsByEventRequest struct {
	EventID string `json:"eventId"`
}

type ListRecordsByFriendRequest struct {
	FriendID string `json:"friendId"`
}

type ListRecordsResponse struct {
	Records []GiftRecord `json:"records"`
}

// UpdateRecordRequest changes only the fields that are set.
type UpdateRecordRequest struct {
	ID       string  `json:"id"`
	Amount   *int64  `json:"amount,omitempty"`
	GiftType *string `json:"giftType,omitempty"`
	Memo     *string `json:"memo,omitempty"`
}

type RecordResponse struct {
	Record GiftRecord `json:"record"`
}

// Sent records

type CreateSentRecordRequest struct {
	FriendID  string `json:"friendId"`
	Amount    int64  `json:"amount"`
	Date      string `json:"date"`
	EventType string `json:"eventType"`
	Memo      string `json:"memo,omitempty"`
}

type SentRecordResponse struct {
	SentRecord SentRecord `json:"sentRecord"`
}

type ListSentRecordsRequest struct {
	FriendID string `json:"friendId"`
}

type ListSentRecordsResponse struct {
	SentRecords []SentRecord `json:"sentRecords"`
}

// Gold price

type GetGoldPriceRequest struct{}

type GetGoldPriceResponse struct {
	PricePerDon  int64  `json:"pricePerDon"`
	PricePerGram int64  `json:"pricePerGram"`
	Date         string `json:"date"`
}

// Ledger summary

type GetSummaryRequest struct {
	// Top limits the friends listed in ToReturn. Zero means 5.
	Top int `json:"top,omitempty"`
}

type GetSummaryResponse struct {
	FriendCount   int   `json:"friendCount"`
	EventCount    int   `json:"eventCount"`
	ReceivedCount int   `json:"receivedCount"`
	ReceivedCash  int64 `json:"receivedCash"`
	ReceivedGold  int64 `json:"receivedGold"`
	SentCount     int   `json:"sentCount"`
	SentTotal     int64 `json:"sentTotal"`

	// ToReturn lists the friends the owner is most behind with, largest
	// positive net first.
	ToReturn []FriendSummary `json:"toReturn"`
}
