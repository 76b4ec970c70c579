package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/auth"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/calculator"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/middleware"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage"
)

var (
	errNotMember       = errors.New("you are not a member of this tour")
	errNotCaptain      = errors.New("only the tour captain can do this")
	errNotExpenseOwner = errors.New("only the expense creator or the tour captain can change this expense")
)

// toConnectError maps domain errors to Connect codes.
// Errors already carrying a code are returned unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrMissingName),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrMissingPayer),
		errors.Is(err, models.ErrMissingParticipants),
		errors.Is(err, models.ErrInvalidSplitType),
		errors.Is(err, models.ErrInvalidCustomSplits):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, calculator.ErrNoMembers):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// memberTour loads a tour and checks that userID belongs to it.
func memberTour(ctx context.Context, store storage.Store, tourID, userID string) (*models.Tour, error) {
	if tourID == "" {
		return nil, invalidArgument("tour_id is required")
	}
	tour, err := store.GetTour(ctx, tourID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !tour.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return tour, nil
}
