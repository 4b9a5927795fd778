package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/tasklists/tasklists-api/internal/cascade"
	"github.com/tasklists/tasklists-api/internal/config"
	"github.com/tasklists/tasklists-api/internal/database"
	"github.com/tasklists/tasklists-api/internal/lists/repository"
	"github.com/tasklists/tasklists-api/internal/lists/service"
	"github.com/tasklists/tasklists-api/internal/sessions"
	"github.com/tasklists/tasklists-api/internal/tokens"
	"github.com/tasklists/tasklists-api/internal/users"
	"github.com/tasklists/tasklists-api/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// userStore is what both user repositories provide.
type userStore interface {
	users.UserRepository
	sessions.Repository
}

// app holds the wired services plus whatever must be released on shutdown.
type app struct {
	users          *users.Service
	sessions       *sessions.Service
	codec          *tokens.Codec
	lists          service.Service
	listRepo       repository.Repository
	requestTimeout time.Duration

	mongo  *mongo.Client
	redis  *redis.Client
	local  *cascade.LocalScheduler
	asynqC *asynq.Client
	asynqS *asynq.Server
}

// newApp wires storage, auth and the cascade backend from cfg. Without
// MONGODB_URI everything is kept in memory.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{
		codec:          tokens.NewCodec([]byte(cfg.JWT.Secret), cfg.JWT.AccessTokenTTL),
		requestTimeout: cfg.Server.RequestTimeout,
	}

	var (
		userRepo  userStore
		listRepo  repository.Repository
		jobsStore cascade.Store
	)

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, func(attempt int, err error) {
			logger.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
		})
		if err != nil {
			return nil, err
		}
		a.mongo = client
		db := client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Warnf("index bootstrap failed: %v", err)
		}
		userRepo = users.NewMongoUserRepository(db.Collection(database.UsersCollection))
		listRepo = repository.NewMongoRepo(db.Collection(database.ListsCollection), db.Collection(database.TasksCollection))
		jobsStore = cascade.NewMongoStore(db.Collection(database.CascadeJobsCollection))
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set: using in-memory storage")
		userRepo = users.NewMemoryRepository()
		listRepo = repository.NewMemoryRepo()
	}

	if addr := cfg.Redis.Addr(); addr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		if jobsStore == nil {
			jobsStore = cascade.NewRedisStore(a.redis, cfg.Cascade.RecordTTL)
		}
	}
	if jobsStore == nil {
		jobsStore = cascade.NewMemoryStore()
	}

	a.users = users.NewService(userRepo, cfg.Auth.BcryptCost)
	a.sessions = sessions.NewService(userRepo, cfg.JWT.RefreshTokenTTL)

	runner := cascade.NewRunner(listRepo, jobsStore, cfg.Cascade.Timeout)
	var cascader service.Cascader
	switch cfg.Cascade.Backend {
	case config.CascadeBackendAsynq:
		opt := cascade.RedisOpt(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		a.asynqC = asynq.NewClient(opt)
		cascader = cascade.NewAsynqScheduler(a.asynqC, jobsStore, cfg.Cascade.Timeout)
		if cfg.Cascade.InProcessWorker {
			a.asynqS = cascade.NewServer(opt, cfg.Cascade.Concurrency)
			if err := a.asynqS.Start(cascade.NewServeMux(runner)); err != nil {
				return nil, fmt.Errorf("start cascade worker: %w", err)
			}
			logger.Infof("cascade: in-process asynq worker started")
		}
	default:
		a.local = cascade.NewLocalScheduler(runner, jobsStore, cfg.Cascade.Concurrency)
		cascader = a.local
	}
	logger.Infof("cascade backend: %s", cfg.Cascade.Backend)

	a.listRepo = listRepo
	a.lists = service.New(listRepo, cascader)
	return a, nil
}

// readiness reports each configured dependency.
func (a *app) readiness(ctx context.Context) map[string]bool {
	deps := map[string]bool{"storage": a.users != nil && a.lists != nil}
	if a.mongo != nil {
		deps["mongodb"] = a.mongo.Ping(ctx, nil) == nil
	}
	if a.redis != nil {
		deps["redis"] = a.redis.Ping(ctx).Err() == nil
	}
	return deps
}

// close drains local cascade jobs and releases connections.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.local != nil {
		if err := a.local.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain cascade jobs: %w", err))
		}
	}
	if a.asynqS != nil {
		a.asynqS.Shutdown()
	}
	if a.asynqC != nil {
		errs = append(errs, a.asynqC.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
