package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChatRequests counts /api/chat requests by mode and outcome.
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webchat_chat_requests_total",
		Help: "Chat requests processed, by mode and outcome.",
	}, []string{"mode", "outcome"})

	// CollaboratorFailures counts failed outbound calls by collaborator.
	CollaboratorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webchat_collaborator_failures_total",
		Help: "Failed calls to external collaborators.",
	}, []string{"collaborator"})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
