package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/events"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	reports   *Reports
	publisher events.Publisher
	logger    *slog.Logger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, reports *Reports, publisher events.Publisher, logger *slog.Logger) *ExpenseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{store: store, reports: reports, publisher: publisher, logger: logger}
}

// AddExpense records a payment in a tour. The payer defaults to the caller.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Expense == nil {
		return nil, invalidArgument("expense is required")
	}

	tour, err := memberTour(ctx, s.store, req.Msg.TourId, userID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		TourID:    tour.ID,
		PayerID:   userID,
		CreatedBy: userID,
		Date:      time.Now().Unix(),
	}
	if err := s.prepare(tour, expense, req.Msg.Expense); err != nil {
		s.logger.Warn("AddExpense rejected", "tour_id", tour.ID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("AddExpense failed", "tour_id", tour.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.changed(ctx, expense, events.ActionCreated)

	s.logger.Info("Expense added",
		"tour_id", tour.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount.StringFixed(2),
		"split_type", expense.SplitType,
	)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: expenseToAPI(expense, memberNames(tour))}), nil
}

// GetExpense returns one expense to a member of its tour.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, tour, err := s.load(ctx, req.Msg.ExpenseId, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense, memberNames(tour))}), nil
}

// UpdateExpense replaces an expense's editable fields.
// Only its creator or the tour captain may do this.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Expense == nil {
		return nil, invalidArgument("expense is required")
	}

	expense, tour, err := s.load(ctx, req.Msg.ExpenseId, userID)
	if err != nil {
		return nil, err
	}
	if err := canModify(tour, expense, userID); err != nil {
		return nil, err
	}

	if err := s.prepare(tour, expense, req.Msg.Expense); err != nil {
		s.logger.Warn("UpdateExpense rejected", "expense_id", expense.ID, "error", err)
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		s.logger.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.changed(ctx, expense, events.ActionUpdated)

	s.logger.Info("Expense updated", "tour_id", tour.ID, "expense_id", expense.ID)
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: expenseToAPI(expense, memberNames(tour))}), nil
}

// DeleteExpense removes an expense. Only its creator or the tour captain may do this.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, tour, err := s.load(ctx, req.Msg.ExpenseId, userID)
	if err != nil {
		return nil, err
	}
	if err := canModify(tour, expense, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.changed(ctx, expense, events.ActionDeleted)

	s.logger.Info("Expense deleted", "tour_id", tour.ID, "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a tour's expenses ordered by date.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tour, err := memberTour(ctx, s.store, req.Msg.TourId, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, tour.ID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "tour_id", tour.ID, "error", err)
		return nil, toConnectError(err)
	}

	names := memberNames(tour)
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e, names)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// load fetches an expense and its tour, checking the caller is a member.
func (s *ExpenseService) load(ctx context.Context, expenseID, userID string) (*models.Expense, *models.Tour, error) {
	if expenseID == "" {
		return nil, nil, invalidArgument("expense_id is required")
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	tour, err := memberTour(ctx, s.store, expense.TourID, userID)
	if err != nil {
		return nil, nil, err
	}
	return expense, tour, nil
}

// prepare applies input to expense, then normalizes and validates it against the tour.
func (s *ExpenseService) prepare(tour *models.Tour, expense *models.Expense, in *api.ExpenseInput) error {
	if err := applyExpenseInput(expense, in); err != nil {
		return toConnectError(err)
	}

	expense.Normalize()
	if err := expense.Validate(); err != nil {
		return toConnectError(err)
	}

	if !tour.HasMember(expense.PayerID) {
		return invalidArgument("payer %q is not a member of this tour", expense.PayerID)
	}
	for _, id := range expense.ParticipantIDs {
		if !tour.HasMember(id) {
			return invalidArgument("participant %q is not a member of this tour", id)
		}
	}
	return nil
}

func canModify(tour *models.Tour, expense *models.Expense, userID string) error {
	if expense.CreatedBy == userID || tour.CaptainID == userID {
		return nil
	}
	return connect.NewError(connect.CodePermissionDenied, errNotExpenseOwner)
}

// changed invalidates the tour's report and announces the change.
func (s *ExpenseService) changed(ctx context.Context, expense *models.Expense, action string) {
	s.reports.Invalidate(expense.TourID)

	event := events.ExpenseChanged{
		TourID:    expense.TourID,
		ExpenseID: expense.ID,
		Action:    action,
		At:        time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.KeyExpenseChanged, event); err != nil {
		s.logger.Warn("Failed to publish expense change", "expense_id", expense.ID, "action", action, "error", err)
	}
}
