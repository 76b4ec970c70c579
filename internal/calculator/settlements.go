package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Settlement is a single payment from a debtor to a creditor.
type Settlement struct {
	FromID   string // Person who owes
	FromName string
	ToID     string // Person who is owed
	ToName   string
	Amount   decimal.Decimal
}

type party struct {
	id        string
	name      string
	remaining decimal.Decimal
}

// MinimizeSettlements turns net balances into a short list of payments that
// settles every debt.
//
// Algorithm:
//   - Creditors have NetBalance > Epsilon, debtors NetBalance < -Epsilon.
//     Anyone closer to zero is already settled.
//   - Both lists are sorted by amount, largest first. Equal amounts keep
//     their order in balances.
//   - The largest creditor is matched with the largest debtor for the smaller of
//     the two remaining amounts, and whichever side drops below Epsilon moves on.
//   - A transfer is emitted only when its unrounded amount exceeds Epsilon.
//
// Payments come back in the order they were matched, with amounts rounded to
// two decimal places. If balances do not sum to zero, the unmatched remainder
// is left out.
func MinimizeSettlements(balances []MemberBalance) []Settlement {
	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.NetBalance.GreaterThan(Epsilon):
			creditors = append(creditors, party{id: b.MemberID, name: b.Name, remaining: b.NetBalance})
		case b.NetBalance.LessThan(Epsilon.Neg()):
			debtors = append(debtors, party{id: b.MemberID, name: b.Name, remaining: b.NetBalance.Abs()})
		}
	}

	largestFirst := func(a, b party) int { return b.remaining.Cmp(a.remaining) }
	slices.SortStableFunc(creditors, largestFirst)
	slices.SortStableFunc(debtors, largestFirst)

	settlements := make([]Settlement, 0, max(len(creditors), len(debtors)))
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining)
		if amount.GreaterThan(Epsilon) {
			settlements = append(settlements, Settlement{
				FromID:   debtor.id,
				FromName: debtor.name,
				ToID:     creditor.id,
				ToName:   creditor.name,
				Amount:   Round(amount),
			})
		}

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)

		if creditor.remaining.LessThan(Epsilon) {
			i++
		}
		if debtor.remaining.LessThan(Epsilon) {
			j++
		}
	}

	return settlements
}
