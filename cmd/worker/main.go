package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/config"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/db"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/logging"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/metrics"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/processor"
	"github.com/Swordopolis/sc2-replay-analyzer/internal/queue"
)

func main() {
	enqueue := flag.String("enqueue", "", "push a job for this replay id and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Errorf("config load failed: %v", err)
		os.Exit(1)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Logger().Warnf("invalid LOG_LEVEL %q, using info: %v", cfg.LogLevel, err)
	}
	logger := logging.Logger()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Errorf("invalid redis url: %v", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	q := queue.NewRedisQueue(redisClient, cfg.RedisQueue)

	if *enqueue != "" {
		if err := enqueueReplay(ctx, q, *enqueue); err != nil {
			logger.Errorf("enqueue failed: %v", err)
			os.Exit(1)
		}
		logger.Infof("enqueued replay %s on %s", *enqueue, q.Key())
		return
	}

	pool, err := db.NewPool(ctx, cfg.DBURL, int32(cfg.WorkerCount+2))
	if err != nil {
		logger.Errorf("db connection failed: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	proc := processor.NewReplayProcessor(
		db.NewReplayReader(pool),
		db.NewSeriesWriter(pool),
		db.NewViewRefresher(pool, cfg.RefreshViews),
		cfg.IngestWorkers,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("metrics listening on %s", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		err := q.Consume(gctx, cfg.WorkerCount, cfg.JobBufferSize, proc.Handle)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("worker stopped: %v", err)
		os.Exit(1)
	}
	logger.Infof("worker stopped")
}

func enqueueReplay(ctx context.Context, q *queue.RedisQueue, id string) error {
	replayID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(processor.JobPayload{ReplayID: replayID.String()})
	if err != nil {
		return err
	}
	return q.Enqueue(ctx, payload)
}
