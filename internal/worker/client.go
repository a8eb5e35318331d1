package worker

import (
	"context"

	"go-aws-clients/internal/queue"
)

// QueueClient is the part of queue.Client the poller depends on.
type QueueClient interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxCount int) ([]queue.Message, error)
	DeleteMessage(ctx context.Context, queueURL, receiptHandle string) error
}

// Verify *queue.Client implements QueueClient at compile time
var _ QueueClient = (*queue.Client)(nil)
