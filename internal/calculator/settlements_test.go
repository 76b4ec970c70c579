package calculator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balance(id, net string) MemberBalance {
	return MemberBalance{MemberID: id, Name: "name-" + id, NetBalance: dec(net)}
}

func describe(settlements []Settlement) []string {
	out := make([]string, len(settlements))
	for i, s := range settlements {
		out[i] = fmt.Sprintf("%s->%s %s", s.FromID, s.ToID, Format(s.Amount))
	}
	return out
}

func TestMinimizeSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances []MemberBalance
		want     []string
	}{
		{
			name:     "one creditor two debtors, largest debtor first",
			balances: []MemberBalance{balance("A", "800"), balance("B", "-100"), balance("C", "-700")},
			want:     []string{"C->A 700.00", "B->A 100.00"},
		},
		{
			name:     "equal debts keep member order",
			balances: []MemberBalance{balance("X", "200"), balance("Y", "-100"), balance("Z", "-100")},
			want:     []string{"Y->X 100.00", "Z->X 100.00"},
		},
		{
			name:     "equal credits keep member order",
			balances: []MemberBalance{balance("C", "-100"), balance("A", "50"), balance("B", "50")},
			want:     []string{"C->A 50.00", "C->B 50.00"},
		},
		{
			name: "debtor split across creditors",
			balances: []MemberBalance{
				balance("A", "60"), balance("B", "40"), balance("C", "-70"), balance("D", "-30"),
			},
			want: []string{"C->A 60.00", "C->B 10.00", "D->B 30.00"},
		},
		{
			name:     "already settled",
			balances: []MemberBalance{balance("A", "0"), balance("B", "0")},
			want:     []string{},
		},
		{
			name:     "balances within epsilon are ignored",
			balances: []MemberBalance{balance("A", "0.005"), balance("B", "-0.005"), balance("C", "0.01")},
			want:     []string{},
		},
		{
			name:     "unbalanced input leaves residue unmatched",
			balances: []MemberBalance{balance("A", "100"), balance("B", "-30")},
			want:     []string{"B->A 30.00"},
		},
		{
			name:     "only debtors",
			balances: []MemberBalance{balance("A", "-10"), balance("B", "-20")},
			want:     []string{},
		},
		{
			name:     "transfer just above epsilon is emitted",
			balances: []MemberBalance{balance("A", "0.014"), balance("B", "-0.014")},
			want:     []string{"B->A 0.01"},
		},
		{
			name:     "amounts are rounded on emission",
			balances: []MemberBalance{balance("A", "10.006"), balance("B", "-10.006")},
			want:     []string{"B->A 10.01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinimizeSettlements(tt.balances)
			assert.Equal(t, tt.want, describe(got))
		})
	}
}

func TestMinimizeSettlements_CarriesNames(t *testing.T) {
	got := MinimizeSettlements([]MemberBalance{balance("A", "5"), balance("B", "-5")})
	require.Len(t, got, 1)
	assert.Equal(t, "name-B", got[0].FromName)
	assert.Equal(t, "name-A", got[0].ToName)
}

func TestBuildReport_Scenarios(t *testing.T) {
	t.Run("shared trip", func(t *testing.T) {
		report, err := BuildReport(tripMembers(), []Expense{
			{Amount: dec("1200"), PayerID: "A", ParticipantIDs: []string{"A", "B", "C"}, Policy: SplitEqual},
			{Amount: dec("600"), PayerID: "B", ParticipantIDs: []string{"B", "C"}, Policy: SplitEqual},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"C->A 700.00", "B->A 100.00"}, describe(report.Settlements))
		assert.Equal(t, "Chitra", report.Settlements[0].FromName)
		assert.Equal(t, "Asha", report.Settlements[0].ToName)
	})

	t.Run("custom split", func(t *testing.T) {
		members := []Member{{ID: "X", Name: "Xavier"}, {ID: "Y", Name: "Yamini"}, {ID: "Z", Name: "Zoya"}}
		report, err := BuildReport(members, []Expense{{
			Amount:         dec("300"),
			PayerID:        "X",
			ParticipantIDs: []string{"X", "Y", "Z"},
			Policy:         SplitCustom,
			CustomShares:   map[string]decimal.Decimal{"X": dec("100"), "Y": dec("100"), "Z": dec("100")},
		}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Y->X 100.00", "Z->X 100.00"}, describe(report.Settlements))
	})

	t.Run("already settled", func(t *testing.T) {
		members := []Member{{ID: "P", Name: "Priya"}, {ID: "Q", Name: "Qadir"}}
		report, err := BuildReport(members, []Expense{
			{Amount: dec("250"), PayerID: "P", ParticipantIDs: []string{"P"}},
			{Amount: dec("250"), PayerID: "Q", ParticipantIDs: []string{"Q"}},
		})
		require.NoError(t, err)
		for _, b := range report.Balances {
			assert.True(t, b.NetBalance.IsZero())
		}
		assert.Empty(t, report.Settlements)
	})
}

// randomTrip builds a reproducible set of members and expenses mixing equal and
// custom splits. Custom shares are whole cents that sum to the amount.
// With wholeCents set every expense uses a custom split, so all balances are
// whole cents.
func randomTrip(seed uint64, memberCount, expenseCount int, wholeCents bool) ([]Member, []Expense) {
	r := rand.New(rand.NewPCG(seed, seed*31+7))

	members := make([]Member, memberCount)
	for i := range members {
		members[i] = Member{ID: fmt.Sprintf("m%d", i), Name: fmt.Sprintf("Member %d", i)}
	}

	expenses := make([]Expense, expenseCount)
	for i := range expenses {
		cents := int64(r.IntN(500000) + 1)
		amount := decimal.New(cents, -2)
		payer := members[r.IntN(memberCount)].ID

		var participants []string
		for _, m := range members {
			if r.IntN(2) == 0 {
				participants = append(participants, m.ID)
			}
		}

		e := Expense{
			ID:             fmt.Sprintf("e%d", i),
			Amount:         amount,
			PayerID:        payer,
			ParticipantIDs: participants,
			Policy:         SplitEqual,
		}

		if wholeCents || r.IntN(3) == 0 {
			e.Policy = SplitCustom
			e.CustomShares = map[string]decimal.Decimal{}
			ids := Participants(e)
			left := cents
			for k, id := range ids {
				part := left
				if k < len(ids)-1 {
					part = r.Int64N(left + 1)
				}
				left -= part
				e.CustomShares[id] = decimal.New(part, -2)
			}
		}
		expenses[i] = e
	}
	return members, expenses
}

// applySettlements returns each member's balance after paying every settlement,
// and how many settlements touched each member.
func applySettlements(balances []MemberBalance, settlements []Settlement) (map[string]decimal.Decimal, map[string]int) {
	remaining := make(map[string]decimal.Decimal, len(balances))
	touches := make(map[string]int, len(balances))
	for _, b := range balances {
		remaining[b.MemberID] = b.NetBalance
	}
	for _, s := range settlements {
		remaining[s.FromID] = remaining[s.FromID].Add(s.Amount)
		remaining[s.ToID] = remaining[s.ToID].Sub(s.Amount)
		touches[s.FromID]++
		touches[s.ToID]++
	}
	return remaining, touches
}

func TestBalanceAndSettlementProperties(t *testing.T) {
	halfCent := dec("0.005")

	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			members, expenses := randomTrip(seed, 2+int(seed%6), 10+int(seed*3), false)

			balances, err := CalculateBalances(members, expenses)
			require.NoError(t, err)

			// Conservation: every unit paid is owed by someone.
			sum := decimal.Zero
			for _, b := range balances {
				sum = sum.Add(b.NetBalance)
			}
			assert.True(t, sum.Abs().LessThan(dec("0.000000001")), "sum of net balances = %s", sum)

			settlements := MinimizeSettlements(balances)
			assert.LessOrEqual(t, len(settlements), max(len(members)-1, 0))

			for _, s := range settlements {
				// Emitted transfers exceed epsilon, so their rounded amount is at least one cent.
				assert.True(t, s.Amount.GreaterThanOrEqual(Epsilon), "settlement amount %s", s.Amount)
				assert.NotEqual(t, s.FromID, s.ToID)
			}

			// Each payment is rounded by at most half a cent.
			remaining, touches := applySettlements(balances, settlements)
			for id, left := range remaining {
				bound := halfCent.Mul(decimal.NewFromInt(int64(touches[id]))).Add(Epsilon)
				assert.True(t, left.Abs().LessThanOrEqual(bound), "%s left with %s, bound %s", id, left, bound)
			}

			// Recomputing from the same input gives the same answer.
			first, err := BuildReport(members, expenses)
			require.NoError(t, err)
			second, err := BuildReport(members, expenses)
			require.NoError(t, err)
			assert.Equal(t, describe(first.Settlements), describe(second.Settlements))
			for i := range first.Balances {
				assert.True(t, first.Balances[i].NetBalance.Equal(second.Balances[i].NetBalance))
			}
		})
	}
}

// Whole-cent balances involve no rounding, so every member must end within
// epsilon of zero. Only a one-cent remainder can be left unpaid.
func TestSettlements_WholeCentsSettleWithinEpsilon(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			members, expenses := randomTrip(seed, 2+int(seed%6), 10+int(seed*3), true)

			balances, err := CalculateBalances(members, expenses)
			require.NoError(t, err)

			remaining, _ := applySettlements(balances, MinimizeSettlements(balances))
			for id, left := range remaining {
				assert.True(t, left.Abs().LessThanOrEqual(Epsilon), "%s left with %s", id, left)
			}
		})
	}
}

func TestBalances_OrderIndependent(t *testing.T) {
	members, expenses := randomTrip(99, 5, 40, false)

	reversed := make([]Expense, len(expenses))
	for i, e := range expenses {
		reversed[len(expenses)-1-i] = e
	}

	forward, err := CalculateBalances(members, expenses)
	require.NoError(t, err)
	backward, err := CalculateBalances(members, reversed)
	require.NoError(t, err)

	for i := range forward {
		diff := forward[i].NetBalance.Sub(backward[i].NetBalance).Abs()
		assert.True(t, diff.LessThan(dec("0.000000001")), "%s differs by %s", forward[i].MemberID, diff)
	}
}
