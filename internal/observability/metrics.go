// Package observability registers prometheus metrics for the signup board.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_board",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by path, method and status code.",
	}, []string{"path", "method", "code"})

	activitiesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "signup_board",
		Subsystem: "board",
		Name:      "activities_created_total",
		Help:      "Activities created since process start.",
	})

	signupsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "signup_board",
		Subsystem: "board",
		Name:      "signups_created_total",
		Help:      "Signups created since process start.",
	})

	signupsRejectedFull = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "signup_board",
		Subsystem: "board",
		Name:      "signups_rejected_full_total",
		Help:      "Signup attempts rejected because the activity was at capacity.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, activitiesCreated, signupsCreated, signupsRejectedFull)
}

// RecordActivityCreated increments the created-activities counter.
func RecordActivityCreated() {
	activitiesCreated.Inc()
}

// RecordSignupCreated increments the created-signups counter.
func RecordSignupCreated() {
	signupsCreated.Inc()
}

// RecordSignupRejectedFull increments the at-capacity rejection counter.
func RecordSignupRejectedFull() {
	signupsRejectedFull.Inc()
}

// RequestMetrics wraps a handler and counts requests by path, method and
// status.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		requestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(recorder.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
