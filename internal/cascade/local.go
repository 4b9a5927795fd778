package cascade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tasklists/tasklists-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalScheduler runs cascade jobs on goroutines inside the API process.
// Jobs outlive the request that scheduled them; Wait drains them on shutdown.
type LocalScheduler struct {
	runner *Runner
	store  Store
	sem    chan struct{}
	wg     sync.WaitGroup
}

func NewLocalScheduler(runner *Runner, store Store, concurrency int) *LocalScheduler {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &LocalScheduler{runner: runner, store: store, sem: make(chan struct{}, concurrency)}
}

// Enqueue records a queued job and starts it in the background.
func (s *LocalScheduler) Enqueue(ctx context.Context, listID primitive.ObjectID) (string, error) {
	jobID := uuid.NewString()
	rec := &Record{JobID: jobID, ListID: listID.Hex(), Backend: BackendLocal, Status: StatusQueued}
	if err := s.store.Save(ctx, rec); err != nil {
		return "", err
	}

	jobCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
		if err := s.runner.Run(jobCtx, jobID, listID, BackendLocal); err != nil {
			logger.Debugf("cascade: local job %s ended with error: %v", jobID, err)
		}
	}()
	return jobID, nil
}

// Wait blocks until all scheduled jobs have finished or ctx is done.
func (s *LocalScheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
