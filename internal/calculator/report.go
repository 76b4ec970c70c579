package calculator

// Report is the settle-up view of a set of expenses.
type Report struct {
	// Balances are rounded to two decimal places, in member order.
	Balances    []MemberBalance
	Settlements []Settlement
}

// BuildReport computes balances and the settlements that clear them.
// Settlements are derived from the unrounded balances.
func BuildReport(members []Member, expenses []Expense) (*Report, error) {
	balances, err := CalculateBalances(members, expenses)
	if err != nil {
		return nil, err
	}

	settlements := MinimizeSettlements(balances)

	rounded := make([]MemberBalance, len(balances))
	for i, b := range balances {
		rounded[i] = b.Rounded()
	}

	return &Report{
		Balances:    rounded,
		Settlements: settlements,
	}, nil
}
