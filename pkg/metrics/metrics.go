package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasklists", Name: "auth_rejected_total", Help: "Number of requests rejected by an auth gate."},
		[]string{"gate", "reason"},
	)
	SessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "tasklists", Name: "sessions_created_total", Help: "Number of refresh sessions appended to users."},
	)
	CascadeJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tasklists", Name: "cascade_jobs_total", Help: "Task cascade jobs by backend and outcome."},
		[]string{"backend", "outcome"},
	)
	CascadeTasksDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "tasklists", Name: "cascade_tasks_deleted_total", Help: "Tasks removed by list-delete cascades."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AuthRejected)
	reg.MustRegister(SessionsCreated)
	reg.MustRegister(CascadeJobs)
	reg.MustRegister(CascadeTasksDeleted)
}
