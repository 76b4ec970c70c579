package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// SplitPolicy selects how an expense is divided among its participants.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly across all participants.
	SplitEqual SplitPolicy = "equal"
	// SplitCustom uses the explicit per-participant shares on the expense.
	SplitCustom SplitPolicy = "custom"
)

// Expense is the minimal view of a recorded expense needed for balance calculations.
type Expense struct {
	// ID is optional and only used to label reference problems.
	ID             string
	Amount         decimal.Decimal
	PayerID        string
	ParticipantIDs []string
	Policy         SplitPolicy
	// CustomShares maps participant id to owed share. Only read for SplitCustom.
	CustomShares map[string]decimal.Decimal
}

// Share is one participant's owed portion of a single expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// Participants returns the expense's participant set: duplicates removed,
// first-seen order kept, and the payer appended when missing.
func Participants(e Expense) []string {
	seen := make(map[string]bool, len(e.ParticipantIDs)+1)
	ids := make([]string, 0, len(e.ParticipantIDs)+1)
	for _, id := range e.ParticipantIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if e.PayerID != "" && !seen[e.PayerID] {
		ids = append(ids, e.PayerID)
	}
	return ids
}

// Shares computes how much each participant owes for one expense.
//
// Equal splits divide without pre-rounding, so shares may carry more than two
// decimal places. Custom splits return the explicit shares in participant order,
// followed by any shares for ids outside the participant set, sorted by id.
// Any policy other than SplitCustom is treated as SplitEqual.
func Shares(e Expense) []Share {
	if e.Policy == SplitCustom {
		return customShares(e)
	}

	participants := Participants(e)
	if len(participants) == 0 {
		return nil
	}

	per := e.Amount.Div(decimal.NewFromInt(int64(len(participants))))
	shares := make([]Share, len(participants))
	for i, id := range participants {
		shares[i] = Share{MemberID: id, Amount: per}
	}
	return shares
}

func customShares(e Expense) []Share {
	shares := make([]Share, 0, len(e.CustomShares))
	used := make(map[string]bool, len(e.CustomShares))
	for _, id := range Participants(e) {
		amount, ok := e.CustomShares[id]
		if !ok {
			continue
		}
		used[id] = true
		shares = append(shares, Share{MemberID: id, Amount: amount})
	}

	var extra []string
	for id := range e.CustomShares {
		if !used[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		shares = append(shares, Share{MemberID: id, Amount: e.CustomShares[id]})
	}
	return shares
}
