package cascade

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enqueuer is the part of *asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqScheduler hands cascade jobs to Redis for cmd/cascade-worker (or an
// in-process asynq server) to execute.
type AsynqScheduler struct {
	client   Enqueuer
	store    Store
	timeout  time.Duration
	maxRetry int
}

func NewAsynqScheduler(client Enqueuer, store Store, timeout time.Duration) *AsynqScheduler {
	return &AsynqScheduler{client: client, store: store, timeout: timeout, maxRetry: 3}
}

// Enqueue records a queued job and pushes the task. The job id doubles as the
// asynq task id.
func (s *AsynqScheduler) Enqueue(ctx context.Context, listID primitive.ObjectID) (string, error) {
	jobID := uuid.NewString()
	rec := &Record{JobID: jobID, ListID: listID.Hex(), Backend: BackendAsynq, Status: StatusQueued}
	if err := s.store.Save(ctx, rec); err != nil {
		return "", err
	}

	body, err := json.Marshal(Payload{JobID: jobID, ListID: listID.Hex()})
	if err != nil {
		return "", err
	}
	opts := []asynq.Option{
		asynq.TaskID(jobID),
		asynq.Queue(QueueName),
		asynq.MaxRetry(s.maxRetry),
	}
	if s.timeout > 0 {
		opts = append(opts, asynq.Timeout(s.timeout))
	}
	if _, err := s.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeDeleteTasks, body), opts...); err != nil {
		rec.Status = StatusError
		rec.Error = err.Error()
		_ = s.store.Save(ctx, rec)
		return "", fmt.Errorf("enqueue cascade task: %w", err)
	}
	return jobID, nil
}

// RedisOpt builds the asynq connection settings.
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// NewServer returns an asynq server consuming the cascade queue.
func NewServer(opt asynq.RedisConnOpt, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 1
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
	})
}

// NewServeMux routes cascade tasks to runner.
func NewServeMux(runner *Runner) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeDeleteTasks, runner)
	return mux
}
