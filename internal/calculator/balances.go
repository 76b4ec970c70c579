package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoMembers is returned when balances are requested for an empty member list.
	ErrNoMembers = errors.New("no members to calculate balances for")
	// ErrUnknownMember marks an expense reference to an id outside the member list.
	ErrUnknownMember = errors.New("unknown member")
)

// Member identifies one person taking part in a tour.
type Member struct {
	ID   string
	Name string
}

// MemberBalance represents the balance information for one member.
type MemberBalance struct {
	MemberID   string
	Name       string
	TotalPaid  decimal.Decimal // Sum of amounts this member paid
	TotalShare decimal.Decimal // Sum of this member's owed shares
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
}

// Rounded returns a copy with every amount rounded to two decimal places.
func (b MemberBalance) Rounded() MemberBalance {
	b.TotalPaid = Round(b.TotalPaid)
	b.TotalShare = Round(b.TotalShare)
	b.NetBalance = Round(b.NetBalance)
	return b
}

// CalculateBalances reduces expenses into one balance per member.
//
// Balances come back in member order. Repeated member ids keep their first
// occurrence. References to ids that are not members are dropped: a payer that
// is not a member contributes nothing to TotalPaid, and shares owed by
// non-members are skipped. Use CheckReferences to detect those up front.
//
// Amounts are accumulated unrounded.
func CalculateBalances(members []Member, expenses []Expense) ([]MemberBalance, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	index := make(map[string]int, len(members))
	balances := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		if _, exists := index[m.ID]; exists {
			continue
		}
		index[m.ID] = len(balances)
		balances = append(balances, MemberBalance{MemberID: m.ID, Name: m.Name})
	}

	for _, e := range expenses {
		if i, ok := index[e.PayerID]; ok {
			balances[i].TotalPaid = balances[i].TotalPaid.Add(e.Amount)
		}
		for _, share := range Shares(e) {
			if i, ok := index[share.MemberID]; ok {
				balances[i].TotalShare = balances[i].TotalShare.Add(share.Amount)
			}
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid.Sub(balances[i].TotalShare)
	}

	return balances, nil
}

// CheckReferences reports every payer or share id in expenses that is not in members.
// It returns nil when all references resolve.
func CheckReferences(members []Member, expenses []Expense) error {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}

	var errs []error
	for i, e := range expenses {
		label := e.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if !known[e.PayerID] {
			errs = append(errs, fmt.Errorf("%w: expense %s payer %q", ErrUnknownMember, label, e.PayerID))
		}
		for _, share := range Shares(e) {
			if share.MemberID != e.PayerID && !known[share.MemberID] {
				errs = append(errs, fmt.Errorf("%w: expense %s participant %q", ErrUnknownMember, label, share.MemberID))
			}
		}
	}
	return errors.Join(errs...)
}
