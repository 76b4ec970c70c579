package models

import (
	"fmt"
	"strings"
)

// TourStatus is the lifecycle stage of a tour.
type TourStatus string

const (
	TourPlanning  TourStatus = "planning"
	TourActive    TourStatus = "active"
	TourCompleted TourStatus = "completed"
)

// ParseTourStatus validates a status string.
func ParseTourStatus(s string) (TourStatus, error) {
	switch status := TourStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case TourPlanning, TourActive, TourCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("invalid tour status %q: must be planning, active or completed", s)
	}
}

// Tour represents a trip shared by a group of members.
type Tour struct {
	// ID is the unique identifier for the tour (UUID format).
	ID string

	// Name is the display name of the tour (e.g., "Goa 2026").
	Name string

	Description string
	Destination string

	// StartDate and EndDate are Unix timestamps; zero when unset.
	StartDate int64
	EndDate   int64

	Status TourStatus

	// CaptainID is the user who created the tour. Only the captain may change its status.
	CaptainID string

	// JoinCode lets other users join the tour. Generated by the store.
	JoinCode string

	// IsActive is false for archived tours; they cannot be joined or listed.
	IsActive bool

	// Members in the order they joined. The captain is always first.
	Members []Member

	// CreatedAt is the Unix timestamp when the tour was created.
	CreatedAt int64
}

// Member is one user's membership of a tour.
type Member struct {
	UserID string
	// Name is the user's display name.
	Name     string
	JoinedAt int64
}

// HasMember reports whether the user belongs to the tour.
func (t *Tour) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
