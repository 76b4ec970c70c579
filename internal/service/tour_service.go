package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/events"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api/apiconnect"
)

var _ apiconnect.TourServiceHandler = (*TourService)(nil)

// TourService implements the Connect TourService.
type TourService struct {
	store     storage.Store
	reports   *Reports
	publisher events.Publisher
	logger    *slog.Logger
}

// NewTourService creates a new TourService.
func NewTourService(store storage.Store, reports *Reports, publisher events.Publisher, logger *slog.Logger) *TourService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TourService{store: store, reports: reports, publisher: publisher, logger: logger}
}

// CreateTour creates a tour led by the caller.
func (s *TourService) CreateTour(ctx context.Context, req *connect.Request[api.CreateTourRequest]) (*connect.Response[api.CreateTourResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("tour name is required")
	}
	if req.Msg.StartDate != 0 && req.Msg.EndDate != 0 && req.Msg.EndDate < req.Msg.StartDate {
		return nil, invalidArgument("end date must not be before start date")
	}

	tour := &models.Tour{
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		Destination: strings.TrimSpace(req.Msg.Destination),
		StartDate:   req.Msg.StartDate,
		EndDate:     req.Msg.EndDate,
		Status:      models.TourPlanning,
		CaptainID:   userID,
	}
	if err := s.store.CreateTour(ctx, tour); err != nil {
		s.logger.Error("CreateTour failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Tour created", "tour_id", tour.ID, "captain_id", userID)
	return connect.NewResponse(&api.CreateTourResponse{Tour: tourToAPI(tour)}), nil
}

// ListTours returns the caller's active tours, newest first.
func (s *TourService) ListTours(ctx context.Context, req *connect.Request[api.ListToursRequest]) (*connect.Response[api.ListToursResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tours, err := s.store.ListToursForMember(ctx, userID)
	if err != nil {
		s.logger.Error("ListTours failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Tour, len(tours))
	for i, t := range tours {
		out[i] = tourToAPI(t)
	}
	return connect.NewResponse(&api.ListToursResponse{Tours: out}), nil
}

// GetTour returns a tour to one of its members.
func (s *TourService) GetTour(ctx context.Context, req *connect.Request[api.GetTourRequest]) (*connect.Response[api.GetTourResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tour, err := memberTour(ctx, s.store, req.Msg.TourId, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetTourResponse{Tour: tourToAPI(tour)}), nil
}

// JoinTour adds the caller to the tour with the given join code.
func (s *TourService) JoinTour(ctx context.Context, req *connect.Request[api.JoinTourRequest]) (*connect.Response[api.JoinTourResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Msg.JoinCode)
	if code == "" {
		return nil, invalidArgument("join code is required")
	}

	tour, err := s.store.GetTourByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errors.New("no active tour with that join code"))
		}
		return nil, toConnectError(err)
	}
	if tour.HasMember(userID) {
		return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("you are already a member of this tour"))
	}

	if err := s.store.AddTourMember(ctx, tour.ID, userID); err != nil {
		return nil, toConnectError(err)
	}
	s.reports.Invalidate(tour.ID)

	tour, err = s.store.GetTour(ctx, tour.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Joined tour", "tour_id", tour.ID, "user_id", userID, "members", len(tour.Members))
	return connect.NewResponse(&api.JoinTourResponse{Tour: tourToAPI(tour)}), nil
}

// UpdateTourStatus moves a tour through planning, active and completed.
// Only the captain may do this. Completing a tour publishes its settlements.
func (s *TourService) UpdateTourStatus(ctx context.Context, req *connect.Request[api.UpdateTourStatusRequest]) (*connect.Response[api.UpdateTourStatusResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	status, err := models.ParseTourStatus(req.Msg.Status)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	tour, err := memberTour(ctx, s.store, req.Msg.TourId, userID)
	if err != nil {
		return nil, err
	}
	if tour.CaptainID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotCaptain)
	}

	previous := tour.Status
	if err := s.store.UpdateTourStatus(ctx, tour.ID, status); err != nil {
		return nil, toConnectError(err)
	}
	s.reports.Invalidate(tour.ID)
	tour.Status = status

	s.logger.Info("Tour status updated", "tour_id", tour.ID, "from", previous, "to", status)

	if status == models.TourCompleted && previous != models.TourCompleted {
		s.publishSettled(ctx, tour)
	}

	return connect.NewResponse(&api.UpdateTourStatusResponse{Tour: tourToAPI(tour)}), nil
}

// GetTourReport returns balances and settlements for a tour.
func (s *TourService) GetTourReport(ctx context.Context, req *connect.Request[api.GetTourReportRequest]) (*connect.Response[api.GetTourReportResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tour, err := memberTour(ctx, s.store, req.Msg.TourId, userID)
	if err != nil {
		return nil, err
	}

	report, err := s.reports.Get(ctx, tour)
	if err != nil {
		s.logger.Error("GetTourReport failed", "tour_id", tour.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Debug("Report served",
		"tour_id", tour.ID,
		"expenses", report.Summary.TotalTransactions,
		"settlements", len(report.Settlements),
	)
	return connect.NewResponse(&api.GetTourReportResponse{Report: report}), nil
}

// publishSettled sends the final settlements. Failures are logged, not returned:
// the status change has already been stored.
func (s *TourService) publishSettled(ctx context.Context, tour *models.Tour) {
	report, err := s.reports.Get(ctx, tour)
	if err != nil {
		s.logger.Warn("Could not compute settlements for completed tour", "tour_id", tour.ID, "error", err)
		return
	}

	payments := make([]events.Payment, len(report.Settlements))
	for i, st := range report.Settlements {
		payments[i] = events.Payment{
			FromID:   st.FromId,
			FromName: st.FromName,
			ToID:     st.ToId,
			ToName:   st.ToName,
			Amount:   st.Amount,
		}
	}

	event := events.TourSettled{
		TourID:      tour.ID,
		TourName:    tour.Name,
		Settlements: payments,
		At:          time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.KeyTourSettled, event); err != nil {
		s.logger.Warn("Failed to publish tour.settled", "tour_id", tour.ID, "error", err)
	}
}
