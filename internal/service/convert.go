package service

import (
	"github.com/shopspring/decimal"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/calculator"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api"
)

func userToAPI(user *models.User) *api.User {
	return &api.User{
		Id:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

func tourToAPI(tour *models.Tour) *api.Tour {
	members := make([]*api.Member, len(tour.Members))
	for i, m := range tour.Members {
		members[i] = &api.Member{
			UserId:    m.UserID,
			Name:      m.Name,
			JoinedAt:  m.JoinedAt,
			IsCaptain: m.UserID == tour.CaptainID,
		}
	}
	return &api.Tour{
		Id:          tour.ID,
		Name:        tour.Name,
		Description: tour.Description,
		Destination: tour.Destination,
		StartDate:   tour.StartDate,
		EndDate:     tour.EndDate,
		Status:      string(tour.Status),
		CaptainId:   tour.CaptainID,
		JoinCode:    tour.JoinCode,
		Members:     members,
		CreatedAt:   tour.CreatedAt,
	}
}

func memberNames(tour *models.Tour) map[string]string {
	names := make(map[string]string, len(tour.Members))
	for _, m := range tour.Members {
		names[m.UserID] = m.Name
	}
	return names
}

func expenseToAPI(e *models.Expense, names map[string]string) *api.Expense {
	out := &api.Expense{
		Id:             e.ID,
		TourId:         e.TourID,
		Description:    e.Description,
		Category:       e.Category,
		Amount:         calculator.Format(e.Amount),
		PayerId:        e.PayerID,
		PayerName:      names[e.PayerID],
		ParticipantIds: e.ParticipantIDs,
		SplitType:      string(e.SplitType),
		Date:           e.Date,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
	}
	if out.ParticipantIds == nil {
		out.ParticipantIds = []string{}
	}
	if len(e.CustomSplits) > 0 {
		out.CustomSplits = make(map[string]string, len(e.CustomSplits))
		for id, share := range e.CustomSplits {
			out.CustomSplits[id] = calculator.Format(share)
		}
	}
	return out
}

// applyExpenseInput copies the editable fields of in onto e, parsing money strings.
func applyExpenseInput(e *models.Expense, in *api.ExpenseInput) error {
	amount, err := models.ParseAmount(in.Amount)
	if err != nil {
		return err
	}

	var splits map[string]decimal.Decimal
	if len(in.CustomSplits) > 0 {
		splits = make(map[string]decimal.Decimal, len(in.CustomSplits))
		for id, s := range in.CustomSplits {
			share, err := decimal.NewFromString(s)
			if err != nil {
				return invalidArgument("custom split for %q: %q is not a number", id, s)
			}
			splits[id] = share
		}
	}

	e.Description = in.Description
	e.Category = in.Category
	e.Amount = amount
	e.ParticipantIDs = in.ParticipantIds
	e.SplitType = models.SplitType(in.SplitType)
	e.CustomSplits = splits
	if in.PayerId != "" {
		e.PayerID = in.PayerId
	}
	if in.Date != 0 {
		e.Date = in.Date
	}
	return nil
}

func calculatorMembers(tour *models.Tour) []calculator.Member {
	members := make([]calculator.Member, len(tour.Members))
	for i, m := range tour.Members {
		members[i] = calculator.Member{ID: m.UserID, Name: m.Name}
	}
	return members
}

func calculatorExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = calculator.Expense{
			ID:             e.ID,
			Amount:         e.Amount,
			PayerID:        e.PayerID,
			ParticipantIDs: e.ParticipantIDs,
			Policy:         calculator.SplitPolicy(e.SplitType),
			CustomShares:   e.CustomSplits,
		}
	}
	return out
}

func settlementsToAPI(settlements []calculator.Settlement) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{
			FromId:   s.FromID,
			FromName: s.FromName,
			ToId:     s.ToID,
			ToName:   s.ToName,
			Amount:   calculator.Format(s.Amount),
		}
	}
	return out
}
