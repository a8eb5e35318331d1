// Package notify wraps topic and subscription operations of SNS.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/rs/zerolog"

	"go-aws-clients/internal/awsconf"
)

const (
	DefaultSubject  = "Default"
	DefaultProtocol = "sqs"
)

type Client struct {
	api SNSAPI
	log zerolog.Logger
}

type Option func(*Client)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(api SNSAPI, opts ...Option) *Client {
	c := &Client{api: api, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromCredentials builds a Client backed by a fresh SNS SDK client.
func NewFromCredentials(ctx context.Context, creds awsconf.Credentials, opts ...Option) (*Client, error) {
	cfg, err := awsconf.Load(ctx, creds)
	if err != nil {
		return nil, err
	}
	api := sns.NewFromConfig(cfg, func(o *sns.Options) {
		o.BaseEndpoint = creds.BaseEndpoint()
	})
	return New(api, opts...), nil
}

func (c *Client) ListTopics(ctx context.Context) ([]types.Topic, error) {
	topics := []types.Topic{}
	p := sns.NewListTopicsPaginator(c.api, &sns.ListTopicsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list topics: %w", err)
		}
		topics = append(topics, page.Topics...)
	}

	c.log.Info().Strs("topics", topicARNs(topics)).Msg("all topics")
	return topics, nil
}

func (c *Client) CreateTopic(ctx context.Context, name string) error {
	if _, err := c.api.CreateTopic(ctx, &sns.CreateTopicInput{Name: aws.String(name)}); err != nil {
		return fmt.Errorf("create topic %s: %w", name, err)
	}
	return nil
}

func (c *Client) DeleteTopic(ctx context.Context, topicARN string) error {
	if _, err := c.api.DeleteTopic(ctx, &sns.DeleteTopicInput{TopicArn: aws.String(topicARN)}); err != nil {
		return fmt.Errorf("delete topic %s: %w", topicARN, err)
	}
	return nil
}

// Publish sends message to the topic. An empty subject is sent as DefaultSubject.
func (c *Client) Publish(ctx context.Context, message, topicARN, subject string) error {
	if subject == "" {
		subject = DefaultSubject
	}
	_, err := c.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Message:  aws.String(message),
		Subject:  aws.String(subject),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topicARN, err)
	}
	return nil
}

func (c *Client) ListSubscriptions(ctx context.Context, topicARN string) ([]types.Subscription, error) {
	subs := []types.Subscription{}
	p := sns.NewListSubscriptionsByTopicPaginator(c.api, &sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(topicARN),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions of %s: %w", topicARN, err)
		}
		subs = append(subs, page.Subscriptions...)
	}

	arns := make([]string, 0, len(subs))
	for _, s := range subs {
		arns = append(arns, aws.ToString(s.SubscriptionArn))
	}
	c.log.Info().Str("topic", topicARN).Strs("subscriptions", arns).Msg("list of subscriptions of topic")
	return subs, nil
}

func (c *Client) GetTopicAttributes(ctx context.Context, topicARN string) (map[string]string, error) {
	out, err := c.api.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{TopicArn: aws.String(topicARN)})
	if err != nil {
		return nil, fmt.Errorf("get topic attributes %s: %w", topicARN, err)
	}
	c.log.Info().Str("topic", topicARN).Interface("attributes", out.Attributes).Msg("topic info")
	return out.Attributes, nil
}

// Subscribe attaches endpoint to the topic and returns the new subscription ARN.
// An empty protocol means DefaultProtocol.
func (c *Client) Subscribe(ctx context.Context, topicARN, endpoint, protocol string) (string, error) {
	if protocol == "" {
		protocol = DefaultProtocol
	}
	out, err := c.api.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn:              aws.String(topicARN),
		Protocol:              aws.String(protocol),
		Endpoint:              aws.String(endpoint),
		ReturnSubscriptionArn: true,
	})
	if err != nil {
		return "", fmt.Errorf("subscribe %s to %s: %w", endpoint, topicARN, err)
	}
	return aws.ToString(out.SubscriptionArn), nil
}

func (c *Client) Unsubscribe(ctx context.Context, subscriptionARN string) error {
	if _, err := c.api.Unsubscribe(ctx, &sns.UnsubscribeInput{SubscriptionArn: aws.String(subscriptionARN)}); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", subscriptionARN, err)
	}
	return nil
}

func topicARNs(topics []types.Topic) []string {
	arns := make([]string, 0, len(topics))
	for _, t := range topics {
		arns = append(arns, aws.ToString(t.TopicArn))
	}
	return arns
}
