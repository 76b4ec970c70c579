package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/cache"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/calculator"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api"
)

// ReportObserver is told about every report computed from scratch.
type ReportObserver interface {
	ObserveReport(settlements int)
}

type nopObserver struct{}

func (nopObserver) ObserveReport(int) {}

// Reports computes tour reports and caches them per tour until the tour or
// its expenses change.
//
// Each tour has a generation that Invalidate bumps. A report is cached only if
// its tour's generation did not change while it was being built.
type Reports struct {
	store    storage.Store
	cache    *cache.TTL[*api.TourReport]
	observer ReportObserver
	logger   *slog.Logger

	fills singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
}

// NewReports creates a report builder. A non-positive ttl disables caching.
func NewReports(store storage.Store, ttl time.Duration, observer ReportObserver, logger *slog.Logger) *Reports {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reports{
		store:       store,
		cache:       cache.New[*api.TourReport](ttl),
		observer:    observer,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Invalidate drops the cached report for a tour. Reports already being built
// from older data are not cached.
func (r *Reports) Invalidate(tourID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations[tourID]++
	r.cache.Delete(tourID)
}

func (r *Reports) generation(tourID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[tourID]
}

// storeIfCurrent caches report unless tourID was invalidated after gen was read.
func (r *Reports) storeIfCurrent(tourID string, gen uint64, report *api.TourReport) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generations[tourID] != gen {
		return false
	}
	r.cache.Set(tourID, report)
	return true
}

// Get returns the report for tour, from cache when possible.
// The returned report is shared and must not be modified.
func (r *Reports) Get(ctx context.Context, tour *models.Tour) (*api.TourReport, error) {
	if report, ok := r.cache.Get(tour.ID); ok {
		r.logger.DebugContext(ctx, "Report cache hit", "tour_id", tour.ID)
		return report, nil
	}

	// Callers sharing a generation share one computation, which outlives any
	// single caller's cancellation.
	gen := r.generation(tour.ID)
	fillCtx := context.WithoutCancel(ctx)
	v, err, _ := r.fills.Do(fmt.Sprintf("%s/%d", tour.ID, gen), func() (any, error) {
		expenses, err := r.store.ListExpenses(fillCtx, tour.ID)
		if err != nil {
			return nil, err
		}

		report, err := r.build(fillCtx, tour, expenses)
		if err != nil {
			return nil, err
		}

		r.observer.ObserveReport(len(report.Settlements))
		if !r.storeIfCurrent(tour.ID, gen, report) {
			r.logger.DebugContext(fillCtx, "Report outdated before caching", "tour_id", tour.ID)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.TourReport), nil
}

func (r *Reports) build(ctx context.Context, tour *models.Tour, expenses []*models.Expense) (*api.TourReport, error) {
	members := calculatorMembers(tour)
	calcExpenses := calculatorExpenses(expenses)

	// Balances tolerate references to people who are no longer members; flag them.
	if err := calculator.CheckReferences(members, calcExpenses); err != nil {
		r.logger.WarnContext(ctx, "Tour has expenses referencing non-members", "tour_id", tour.ID, "error", err)
	}

	result, err := calculator.BuildReport(members, calcExpenses)
	if err != nil {
		return nil, err
	}

	names := memberNames(tour)
	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	apiExpenses := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		total = total.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		apiExpenses[i] = expenseToAPI(e, names)
	}

	breakdown := make(map[string]string, len(byCategory))
	for category, sum := range byCategory {
		breakdown[category] = calculator.Format(sum)
	}

	balances := make([]*api.Balance, len(result.Balances))
	for i, b := range result.Balances {
		balances[i] = &api.Balance{
			UserId:     b.MemberID,
			Name:       b.Name,
			TotalPaid:  calculator.Format(b.TotalPaid),
			TotalShare: calculator.Format(b.TotalShare),
			NetBalance: calculator.Format(b.NetBalance),
		}
	}

	return &api.TourReport{
		Tour: &api.TourHeader{
			Id:          tour.ID,
			Name:        tour.Name,
			Destination: tour.Destination,
			StartDate:   tour.StartDate,
			EndDate:     tour.EndDate,
			Status:      string(tour.Status),
		},
		Summary: &api.ReportSummary{
			TotalExpenses:     calculator.Format(total),
			TotalMembers:      len(tour.Members),
			TotalTransactions: len(expenses),
			CategoryBreakdown: breakdown,
		},
		Balances:    balances,
		Settlements: settlementsToAPI(result.Settlements),
		Expenses:    apiExpenses,
		GeneratedAt: time.Now().Unix(),
	}, nil
}
