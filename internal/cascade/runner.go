package cascade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tasklists/tasklists-api/pkg/logger"
	"github.com/tasklists/tasklists-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TaskTypeDeleteTasks = "cascade:delete-tasks"
	QueueName           = "cascade"

	BackendLocal = "local"
	BackendAsynq = "asynq"
)

// TaskDeleter removes every task of a list. Implemented by the list repositories.
type TaskDeleter interface {
	DeleteTasksByList(ctx context.Context, listID primitive.ObjectID) (int64, error)
}

// Payload is the body of a cascade:delete-tasks task.
type Payload struct {
	JobID  string `json:"jobId"`
	ListID string `json:"listId"`
}

// Runner executes cascade jobs and records their outcome.
type Runner struct {
	deleter TaskDeleter
	store   Store
	timeout time.Duration
}

func NewRunner(deleter TaskDeleter, store Store, timeout time.Duration) *Runner {
	return &Runner{deleter: deleter, store: store, timeout: timeout}
}

// Run deletes the tasks of listID and stores the result under jobID.
func (r *Runner) Run(ctx context.Context, jobID string, listID primitive.ObjectID, backend string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	rec, err := r.store.Get(ctx, jobID)
	if err != nil || rec == nil {
		rec = &Record{JobID: jobID, ListID: listID.Hex(), Backend: backend}
	}
	rec.Status = StatusRunning
	if err := r.store.Save(ctx, rec); err != nil {
		logger.Warnf("cascade: job %s: save running state: %v", jobID, err)
	}

	n, runErr := r.deleter.DeleteTasksByList(ctx, listID)
	rec.Deleted = n
	outcome := "done"
	if runErr != nil {
		outcome = "error"
		rec.Status = StatusError
		rec.Error = runErr.Error()
	} else {
		rec.Status = StatusDone
		rec.Error = ""
		metrics.CascadeTasksDeleted.Add(float64(n))
	}
	metrics.CascadeJobs.WithLabelValues(backend, outcome).Inc()

	// the job context may already be past its deadline
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.store.Save(saveCtx, rec); err != nil {
		logger.Warnf("cascade: job %s: save %s state: %v", jobID, outcome, err)
	}

	l := logger.With(map[string]interface{}{
		"jobId":   jobID,
		"listId":  listID.Hex(),
		"backend": backend,
		"deleted": n,
	})
	if runErr != nil {
		l.Error().Err(runErr).Msg("cascade job failed")
		return fmt.Errorf("delete tasks of list %s: %w", listID.Hex(), runErr)
	}
	l.Info().Msgf("Tasks from %s were deleted", listID.Hex())
	return nil
}

// ProcessTask implements asynq.Handler.
func (r *Runner) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	listID, err := primitive.ObjectIDFromHex(p.ListID)
	if err != nil || p.JobID == "" {
		return fmt.Errorf("invalid payload %q: %w", t.Payload(), asynq.SkipRetry)
	}
	return r.Run(ctx, p.JobID, listID, BackendAsynq)
}
