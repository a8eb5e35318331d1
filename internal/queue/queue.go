// Package queue wraps queue lifecycle and messaging operations of SQS.
package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog"

	"go-aws-clients/internal/awsconf"
)

// MaxBatchSize is the most messages SQS returns from a single receive.
const MaxBatchSize = 10

// ErrInvalidMaxCount is returned by ReceiveMessages when the requested count is
// outside [1, MaxBatchSize]. No request is sent in that case.
var ErrInvalidMaxCount = errors.New("max count must be in range 1-10")

type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
	Attributes    map[string]string
}

type Client struct {
	api         SQSAPI
	log         zerolog.Logger
	waitSeconds int32
}

type Option func(*Client)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithWaitTimeSeconds enables long polling on ReceiveMessages.
func WithWaitTimeSeconds(s int32) Option {
	return func(c *Client) { c.waitSeconds = s }
}

func New(api SQSAPI, opts ...Option) *Client {
	c := &Client{api: api, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromCredentials builds a Client backed by a fresh SQS SDK client.
func NewFromCredentials(ctx context.Context, creds awsconf.Credentials, opts ...Option) (*Client, error) {
	cfg, err := awsconf.Load(ctx, creds)
	if err != nil {
		return nil, err
	}
	api := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		o.BaseEndpoint = creds.BaseEndpoint()
	})
	return New(api, opts...), nil
}

// ListQueues returns the URLs of all queues, or nil when there are none.
func (c *Client) ListQueues(ctx context.Context) ([]string, error) {
	out, err := c.api.ListQueues(ctx, &sqs.ListQueuesInput{})
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}
	c.log.Info().Strs("queues", out.QueueUrls).Msg("all queues")
	return out.QueueUrls, nil
}

func (c *Client) CreateQueue(ctx context.Context, name string) error {
	if _, err := c.api.CreateQueue(ctx, &sqs.CreateQueueInput{QueueName: aws.String(name)}); err != nil {
		return fmt.Errorf("create queue %s: %w", name, err)
	}
	return nil
}

func (c *Client) DeleteQueue(ctx context.Context, queueURL string) error {
	if _, err := c.api.DeleteQueue(ctx, &sqs.DeleteQueueInput{QueueUrl: aws.String(queueURL)}); err != nil {
		return fmt.Errorf("delete queue %s: %w", queueURL, err)
	}
	return nil
}

func (c *Client) ResolveQueueURL(ctx context.Context, name string) (string, error) {
	out, err := c.api.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		return "", fmt.Errorf("get queue url %s: %w", name, err)
	}
	url := aws.ToString(out.QueueUrl)
	c.log.Info().Str("queue", name).Str("url", url).Msg("queue url")
	return url, nil
}

func (c *Client) GetQueueAttributes(ctx context.Context, queueURL string) (map[string]string, error) {
	out, err := c.api.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(queueURL),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameAll},
	})
	if err != nil {
		return nil, fmt.Errorf("get queue attributes %s: %w", queueURL, err)
	}
	return out.Attributes, nil
}

// QueueARN reads the queue's ARN, the endpoint SNS expects when subscribing a queue.
func (c *Client) QueueARN(ctx context.Context, queueURL string) (string, error) {
	attrs, err := c.GetQueueAttributes(ctx, queueURL)
	if err != nil {
		return "", err
	}
	arn, ok := attrs[string(types.QueueAttributeNameQueueArn)]
	if !ok {
		return "", fmt.Errorf("queue %s: no %s attribute", queueURL, types.QueueAttributeNameQueueArn)
	}
	return arn, nil
}

func (c *Client) SendMessage(ctx context.Context, queueURL, body string) error {
	_, err := c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("send message to %s: %w", queueURL, err)
	}
	return nil
}

// ReceiveMessages returns up to maxCount messages. The service may return fewer,
// including none, even when the queue is not empty.
func (c *Client) ReceiveMessages(ctx context.Context, queueURL string, maxCount int) ([]Message, error) {
	if maxCount < 1 || maxCount > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxCount, maxCount)
	}

	out, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: int32(maxCount),
		WaitTimeSeconds:     c.waitSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("receive from %s: %w", queueURL, err)
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, Message{
			ID:            aws.ToString(m.MessageId),
			Body:          aws.ToString(m.Body),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			Attributes:    m.Attributes,
		})
	}
	c.log.Info().Str("queue", queueURL).Int("count", len(msgs)).Interface("messages", msgs).Msg("messages for queue")
	return msgs, nil
}

func (c *Client) DeleteMessage(ctx context.Context, queueURL, receiptHandle string) error {
	_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("delete message from %s: %w", queueURL, err)
	}
	return nil
}
