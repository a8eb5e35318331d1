package main

import (
	"context"

	"go-aws-clients/internal/notify"
	"go-aws-clients/internal/queue"
	"go-aws-clients/internal/storage"
)

func (rt *runtime) storage(ctx context.Context) (*storage.Client, error) {
	return storage.NewFromCredentials(ctx, rt.cfg.Credentials(), storage.WithLogger(rt.log))
}

func (rt *runtime) notify(ctx context.Context) (*notify.Client, error) {
	return notify.NewFromCredentials(ctx, rt.cfg.Credentials(), notify.WithLogger(rt.log))
}

func (rt *runtime) queue(ctx context.Context, opts ...queue.Option) (*queue.Client, error) {
	opts = append([]queue.Option{queue.WithLogger(rt.log)}, opts...)
	return queue.NewFromCredentials(ctx, rt.cfg.Credentials(), opts...)
}
