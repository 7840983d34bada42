package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metric:
		for _, metric := range family.GetMetric() {
			for key, value := range labels {
				if !hasLabel(metric, key, value) {
					continue metric
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func hasLabel(metric *dto.Metric, key, value string) bool {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == key && pair.GetValue() == value {
			return true
		}
	}
	return false
}

func TestBoardCountersIncrement(t *testing.T) {
	before := counterValue(t, "signup_board_board_signups_created_total", nil)
	RecordSignupCreated()
	RecordSignupCreated()
	after := counterValue(t, "signup_board_board_signups_created_total", nil)
	require.Equal(t, before+2, after)

	before = counterValue(t, "signup_board_board_signups_rejected_full_total", nil)
	RecordSignupRejectedFull()
	after = counterValue(t, "signup_board_board_signups_rejected_full_total", nil)
	require.Equal(t, before+1, after)

	before = counterValue(t, "signup_board_board_activities_created_total", nil)
	RecordActivityCreated()
	after = counterValue(t, "signup_board_board_activities_created_total", nil)
	require.Equal(t, before+1, after)
}

func TestRequestMetricsRecordsStatus(t *testing.T) {
	handler := RequestMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	labels := map[string]string{"path": "/activity", "method": http.MethodGet, "code": "404"}
	before := counterValue(t, "signup_board_http_requests_total", labels)

	req := httptest.NewRequest(http.MethodGet, "/activity?id=missing", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	after := counterValue(t, "signup_board_http_requests_total", labels)
	require.Equal(t, before+1, after)
}
