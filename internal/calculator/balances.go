package calculator

import "sort"

// ReceivedForBalance is a received gift with the minimal information needed
// for balance calculations.
type ReceivedForBalance struct {
	FriendID string
	Amount   int64
	Gold     bool // Amount counts don instead of won
}

// SentForBalance is a sent gift with the minimal information needed for
// balance calculations.
type SentForBalance struct {
	FriendID string
	Amount   int64
}

// FriendBalance summarizes the gifts exchanged with one friend.
type FriendBalance struct {
	FriendID string

	ReceivedCount     int
	ReceivedCash      int64 // won
	ReceivedGold      int64 // don
	ReceivedGoldValue int64 // won, at the quote passed in

	SentCount int
	SentTotal int64 // won

	// Net is what the user received minus what they sent, in won.
	// Positive means the user owes the friend a return gift.
	Net int64
}

// GoldValuer converts a count of don into won.
type GoldValuer func(dons int64) int64

// CalculateFriendBalances aggregates received and sent gifts per friend.
//
// Every friend in friendIDs gets an entry, even with no gifts; gifts for
// friends not listed are counted too. goldValue may be nil, in which case
// gold gifts contribute nothing to ReceivedGoldValue and Net.
func CalculateFriendBalances(friendIDs []string, received []ReceivedForBalance, sent []SentForBalance, goldValue GoldValuer) map[string]*FriendBalance {
	balances := make(map[string]*FriendBalance, len(friendIDs))
	get := func(id string) *FriendBalance {
		b, ok := balances[id]
		if !ok {
			b = &FriendBalance{FriendID: id}
			balances[id] = b
		}
		return b
	}

	for _, id := range friendIDs {
		get(id)
	}

	for _, r := range received {
		b := get(r.FriendID)
		b.ReceivedCount++
		if r.Gold {
			b.ReceivedGold += r.Amount
		} else {
			b.ReceivedCash += r.Amount
		}
	}

	for _, s := range sent {
		b := get(s.FriendID)
		b.SentCount++
		b.SentTotal += s.Amount
	}

	for _, b := range balances {
		if goldValue != nil && b.ReceivedGold > 0 {
			b.ReceivedGoldValue = goldValue(b.ReceivedGold)
		}
		b.Net = b.ReceivedCash + b.ReceivedGoldValue - b.SentTotal
	}

	return balances
}

// LedgerTotals is the owner-wide aggregate of all gifts.
type LedgerTotals struct {
	ReceivedCount int
	ReceivedCash  int64
	ReceivedGold  int64
	SentCount     int
	SentTotal     int64
}

// Totals folds per-friend balances into ledger-wide totals.
func Totals(balances map[string]*FriendBalance) LedgerTotals {
	var t LedgerTotals
	for _, b := range balances {
		t.ReceivedCount += b.ReceivedCount
		t.ReceivedCash += b.ReceivedCash
		t.ReceivedGold += b.ReceivedGold
		t.SentCount += b.SentCount
		t.SentTotal += b.SentTotal
	}
	return t
}

// TopByNet returns up to n balances with the largest Net first, ties broken
// by friend ID for a stable order.
func TopByNet(balances map[string]*FriendBalance, n int) []*FriendBalance {
	list := make([]*FriendBalance, 0, len(balances))
	for _, b := range balances {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Net != list[j].Net {
			return list[i].Net > list[j].Net
		}
		return list[i].FriendID < list[j].FriendID
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
