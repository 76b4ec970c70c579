package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/SoumyajitPaul-git/SplitTrip/internal/middleware"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/models"
	"github.com/SoumyajitPaul-git/SplitTrip/internal/storage/sqlite"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api"
	"github.com/SoumyajitPaul-git/SplitTrip/pkg/api/apiconnect"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor trusts the user ID in the X-Test-User header.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type recordedEvent struct {
	key   string
	value any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{key: key, value: v})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byKey(key string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []any
	for _, e := range p.events {
		if e.key == key {
			out = append(out, e.value)
		}
	}
	return out
}

type countingObserver struct {
	mu      sync.Mutex
	reports int
}

func (o *countingObserver) ObserveReport(int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reports++
}

func (o *countingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.reports
}

type testEnv struct {
	tours     apiconnect.TourServiceClient
	expenses  apiconnect.ExpenseServiceClient
	publisher *recordingPublisher
	observer  *countingObserver
}

// Seeded users. IDs double as display names to keep assertions short.
const (
	asha   = "asha"
	bikram = "bikram"
	chitra = "chitra"
	dev    = "dev"
)

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{asha, bikram, chitra, dev} {
		user := models.NewUser(id+"@example.com", id, "hash")
		user.ID = id
		require.NoError(t, store.CreateUser(context.Background(), user))
	}

	publisher := &recordingPublisher{}
	observer := &countingObserver{}
	reports := NewReports(store, time.Minute, observer, nil)

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTourServiceHandler(NewTourService(store, reports, publisher, nil), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, reports, publisher, nil), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		tours:     apiconnect.NewTourServiceClient(server.Client(), server.URL),
		expenses:  apiconnect.NewExpenseServiceClient(server.Client(), server.URL),
		publisher: publisher,
		observer:  observer,
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if userID != "" {
		req.Header().Set(testUserHeader, userID)
	}
	return req
}

// newTour creates a tour captained by captain and joins the other members in order.
func (e *testEnv) newTour(t *testing.T, captain string, members ...string) *api.Tour {
	t.Helper()
	ctx := context.Background()

	resp, err := e.tours.CreateTour(ctx, as(captain, &api.CreateTourRequest{Name: "Goa 2026", Destination: "Goa"}))
	require.NoError(t, err)
	tour := resp.Msg.Tour

	for _, m := range members {
		joined, err := e.tours.JoinTour(ctx, as(m, &api.JoinTourRequest{JoinCode: tour.JoinCode}))
		require.NoError(t, err)
		tour = joined.Msg.Tour
	}
	return tour
}

func (e *testEnv) addExpense(t *testing.T, userID, tourID string, in *api.ExpenseInput) *api.Expense {
	t.Helper()
	resp, err := e.expenses.AddExpense(context.Background(), as(userID, &api.AddExpenseRequest{TourId: tourID, Expense: in}))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func (e *testEnv) report(t *testing.T, userID, tourID string) *api.TourReport {
	t.Helper()
	resp, err := e.tours.GetTourReport(context.Background(), as(userID, &api.GetTourReportRequest{TourId: tourID}))
	require.NoError(t, err)
	return resp.Msg.Report
}

func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}
