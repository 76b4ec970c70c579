package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitType is how an expense is divided among its participants.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitCustom SplitType = "custom"
)

// DefaultCategory is used when an expense has no category.
const DefaultCategory = "other"

// splitTolerance is how far custom splits may drift from the amount.
var splitTolerance = decimal.New(1, -2)

var (
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrMissingPayer        = errors.New("payer is required")
	ErrMissingParticipants = errors.New("at least one participant is required")
	ErrInvalidSplitType    = errors.New("split type must be equal or custom")
	ErrInvalidCustomSplits = errors.New("invalid custom splits")
)

// Expense represents one payment made during a tour.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TourID is the tour this expense belongs to.
	TourID string

	Description string

	// Category groups expenses in reports (e.g., "food", "travel").
	Category string

	// Amount is the total paid, always positive.
	Amount decimal.Decimal

	// PayerID is the member who paid.
	PayerID string

	// ParticipantIDs are the members who share the expense. Includes the payer.
	ParticipantIDs []string

	SplitType SplitType

	// CustomSplits maps participant ID to owed amount. Only used with SplitCustom.
	CustomSplits map[string]decimal.Decimal

	// Date is the Unix timestamp of when the expense happened.
	Date int64

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	CreatedAt int64
}

// ParseAmount parses a decimal money string such as "1200" or "33.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// Normalize cleans up user input in place: trims text, applies defaults,
// dedupes participants and adds the payer when missing.
func (e *Expense) Normalize() {
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.ToLower(strings.TrimSpace(e.Category))
	if e.Category == "" {
		e.Category = DefaultCategory
	}
	e.SplitType = SplitType(strings.ToLower(strings.TrimSpace(string(e.SplitType))))
	if e.SplitType == "" {
		e.SplitType = SplitEqual
	}

	seen := make(map[string]bool, len(e.ParticipantIDs)+1)
	participants := make([]string, 0, len(e.ParticipantIDs)+1)
	for _, id := range e.ParticipantIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		participants = append(participants, id)
	}
	if e.PayerID != "" && !seen[e.PayerID] {
		participants = append(participants, e.PayerID)
	}
	e.ParticipantIDs = participants

	if e.SplitType != SplitCustom {
		e.CustomSplits = nil
	}
}

// Validate checks the expense after Normalize.
func (e *Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e.PayerID == "" {
		return ErrMissingPayer
	}
	if len(e.ParticipantIDs) == 0 {
		return ErrMissingParticipants
	}

	switch e.SplitType {
	case SplitEqual:
		return nil
	case SplitCustom:
		return e.validateCustomSplits()
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidSplitType, e.SplitType)
	}
}

func (e *Expense) validateCustomSplits() error {
	if len(e.CustomSplits) == 0 {
		return fmt.Errorf("%w: custom split requires per-participant amounts", ErrInvalidCustomSplits)
	}

	participants := make(map[string]bool, len(e.ParticipantIDs))
	for _, id := range e.ParticipantIDs {
		participants[id] = true
	}

	total := decimal.Zero
	for id, share := range e.CustomSplits {
		if !participants[id] {
			return fmt.Errorf("%w: %q is not a participant", ErrInvalidCustomSplits, id)
		}
		if share.IsNegative() {
			return fmt.Errorf("%w: share for %q is negative", ErrInvalidCustomSplits, id)
		}
		total = total.Add(share)
	}

	if total.Sub(e.Amount).Abs().GreaterThan(splitTolerance) {
		return fmt.Errorf("%w: splits total %s but amount is %s",
			ErrInvalidCustomSplits, total.StringFixed(2), e.Amount.StringFixed(2))
	}
	return nil
}
