// Package metrics holds the Prometheus collectors shared by the application
// and HTTP layers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blogsphere"

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts by result (success, invalid, error).",
	}, []string{"result"})

	PostOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_total",
		Help:      "Successful post mutations by operation.",
	}, []string{"op"})

	Comments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_total",
		Help:      "Comments appended to posts.",
	})

	SessionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_resolved_total",
		Help:      "Session resolutions by outcome (authenticated, anonymous, error).",
	}, []string{"state"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
)
