// Command cascade-worker consumes cascade:delete-tasks jobs from Redis and
// removes the tasks of deleted lists from MongoDB.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tasklists/tasklists-api/internal/cascade"
	"github.com/tasklists/tasklists-api/internal/config"
	"github.com/tasklists/tasklists-api/internal/database"
	"github.com/tasklists/tasklists-api/internal/lists/repository"
	"github.com/tasklists/tasklists-api/pkg/logger"
	"github.com/tasklists/tasklists-api/pkg/metrics"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("cascade-worker requires MONGODB_URI")
	}
	if cfg.Redis.Addr() == "" {
		logger.Fatalf("cascade-worker requires REDIS_HOST")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, func(attempt int, err error) {
		logger.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
	})
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)

	repo := repository.NewMongoRepo(db.Collection(database.ListsCollection), db.Collection(database.TasksCollection))
	store := cascade.NewMongoStore(db.Collection(database.CascadeJobsCollection))
	runner := cascade.NewRunner(repo, store, cfg.Cascade.Timeout)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	if port := os.Getenv("WORKER_METRICS_PORT"); port != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(":"+port, mux); err != nil {
				logger.Errorf("metrics listener: %v", err)
			}
		}()
	}

	srv := cascade.NewServer(cascade.RedisOpt(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB), cfg.Cascade.Concurrency)
	if err := srv.Start(cascade.NewServeMux(runner)); err != nil {
		logger.Fatalf("asynq server: %v", err)
	}
	logger.Infof("cascade-worker consuming queue %q (concurrency=%d)", cascade.QueueName, cfg.Cascade.Concurrency)

	<-ctx.Done()
	logger.Infof("shutting down cascade-worker")
	srv.Shutdown()
}
