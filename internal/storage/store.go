// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique record is inserted twice.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for SplitTrip storage operations.
// This abstraction allows swapping storage backends without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns ErrAlreadyExists for a taken email.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateTour persists a new tour and adds its captain as the first member.
	// ID, JoinCode, Status and CreatedAt are filled in by the store when empty.
	CreateTour(ctx context.Context, tour *models.Tour) error

	// GetTour retrieves a tour with its members in join order.
	GetTour(ctx context.Context, tourID string) (*models.Tour, error)

	// GetTourByJoinCode finds an active tour by its join code.
	GetTourByJoinCode(ctx context.Context, code string) (*models.Tour, error)

	// ListToursForMember returns active tours the user belongs to, newest first.
	ListToursForMember(ctx context.Context, userID string) ([]*models.Tour, error)

	// AddTourMember adds a user to a tour. Returns ErrAlreadyExists if already a member.
	AddTourMember(ctx context.Context, tourID, userID string) error

	UpdateTourStatus(ctx context.Context, tourID string, status models.TourStatus) error

	// CreateExpense persists a new expense. ID and CreatedAt are filled in when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense, including participants and splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns a tour's expenses ordered by date.
	ListExpenses(ctx context.Context, tourID string) ([]*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
