package worker

import (
	"context"
	"fmt"

	"go-aws-clients/internal/queue"
)

type Poller struct {
	client   QueueClient
	queueURL string
}

type Message = queue.Message

type Handler func(ctx context.Context, msg *Message) error

func NewPoller(client QueueClient, queueURL string) *Poller {
	return &Poller{
		client:   client,
		queueURL: queueURL,
	}
}

func (p *Poller) ProcessOne(ctx context.Context, handler Handler) error {
	msg, err := p.ReceiveOne(ctx)
	if err != nil {
		return err
	}

	if msg == nil {
		return nil // no messages
	}

	if err := handler(ctx, msg); err != nil {
		return fmt.Errorf("handler: %w", err)
	}

	// Delete only on success
	return p.Delete(ctx, msg)
}

func (p *Poller) Delete(ctx context.Context, msg *Message) error {
	if err := p.client.DeleteMessage(ctx, p.queueURL, msg.ReceiptHandle); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// ReceiveOne returns the next message, or nil when the receive came back empty.
func (p *Poller) ReceiveOne(ctx context.Context) (*Message, error) {
	msgs, err := p.client.ReceiveMessages(ctx, p.queueURL, 1)
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}

	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}
