package events

import "time"

// Routing keys for published events.
const (
	KeyTourSettled    = "tour.settled"
	KeyExpenseChanged = "expense.changed"
)

// Expense change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Payment is one settlement in a TourSettled event. Amounts are two-place decimal strings.
type Payment struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

// TourSettled is published when a tour is marked completed.
// It carries the payments needed to settle the tour at that moment.
type TourSettled struct {
	TourID      string    `json:"tour_id"`
	TourName    string    `json:"tour_name"`
	Settlements []Payment `json:"settlements"`
	At          time.Time `json:"at"`
}

// ExpenseChanged is published after an expense is created, updated or deleted.
type ExpenseChanged struct {
	TourID    string    `json:"tour_id"`
	ExpenseID string    `json:"expense_id"`
	Action    string    `json:"action"`
	At        time.Time `json:"at"`
}
