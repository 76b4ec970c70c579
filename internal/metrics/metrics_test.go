package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequest satisfies connect.AnyRequest for interceptor tests.
type fakeRequest struct {
	connect.AnyRequest
	spec connect.Spec
}

func (r fakeRequest) Spec() connect.Spec { return r.spec }

func TestInterceptor_CountsByCode(t *testing.T) {
	m := New()
	intercept := m.Interceptor()
	req := fakeRequest{spec: connect.Spec{Procedure: "/splittrip.v1.TourService/GetTour"}}

	ok := intercept(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, nil
	})
	failing := intercept(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("tour not found"))
	})

	for range 2 {
		_, err := ok(context.Background(), req)
		require.NoError(t, err)
	}
	_, err := failing(context.Background(), req)
	require.Error(t, err)

	body := scrape(t, m)
	assert.Contains(t, body, `splittrip_rpc_requests_total{code="ok",procedure="/splittrip.v1.TourService/GetTour"} 2`)
	assert.Contains(t, body, `splittrip_rpc_requests_total{code="not_found",procedure="/splittrip.v1.TourService/GetTour"} 1`)
	assert.Contains(t, body, `splittrip_rpc_duration_seconds_count{procedure="/splittrip.v1.TourService/GetTour"} 3`)
}

func TestObserveReportAndHandler(t *testing.T) {
	m := New()
	m.ObserveReport(2)
	m.ObserveReport(0)

	body := scrape(t, m)
	assert.Contains(t, body, "splittrip_reports_computed_total 2")
	assert.Contains(t, body, "splittrip_report_settlements_count 2")
	assert.Contains(t, body, "splittrip_report_settlements_sum 2")
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}
