package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"go-aws-clients/internal/queue"
	"go-aws-clients/internal/worker"
)

func consumeCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "consume",
		Usage: "Drain a queue, logging and deleting each message",
		Flags: []cli.Flag{queueURLFlag()},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := rt.cfg
			q, err := rt.queue(ctx, queue.WithWaitTimeSeconds(int32(cfg.WaitSeconds)))
			if err != nil {
				return err
			}

			leases, closeLeases, err := rt.leaseStore(ctx)
			if err != nil {
				return err
			}
			defer closeLeases()

			queueURL := c.String("queue-url")
			rt.log.Info().
				Str("region", cfg.AWSRegion).
				Str("endpoint", cfg.AWSEndpoint).
				Str("queue", queueURL).
				Int("concurrency", cfg.Concurrency).
				Int("max_in_flight", cfg.MaxInFlight).
				Msg("consumer starting")

			handler := func(ctx context.Context, msg *worker.Message) error {
				rt.log.Info().Str("id", msg.ID).Str("body", msg.Body).Msg("processing")
				return nil
			}

			opts := []worker.RunnerOption{
				worker.WithLeaseStore(leases, cfg.LeaseTTL),
				worker.WithLogger(rt.log),
			}
			if cfg.WaitSeconds > 0 {
				// the long poll already paces empty receives
				opts = append(opts, worker.WithIdleDelay(0))
			}
			runner := worker.NewRunner(worker.NewPoller(q, queueURL), handler, cfg.MaxInFlight, cfg.Concurrency, opts...)
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// leaseStore returns a redis-backed store when REDIS_ADDR is set, otherwise an
// in-process one.
func (rt *runtime) leaseStore(ctx context.Context) (worker.LeaseStore, func(), error) {
	if rt.cfg.RedisAddr == "" {
		return worker.NewMemoryLeaseStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: rt.cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", rt.cfg.RedisAddr, err)
	}
	return worker.NewRedisLeaseStore(client), func() { _ = client.Close() }, nil
}
