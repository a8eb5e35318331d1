//go:build integration

package notify_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"go-aws-clients/internal/awsconf"
	"go-aws-clients/internal/notify"
	"go-aws-clients/internal/queue"
)

func TestClient_Integration_QueueSubscription(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	creds := awsconf.Credentials{
		AccessKey: "test",
		SecretKey: "test",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:4566",
	}
	topics, err := notify.NewFromCredentials(ctx, creds)
	if err != nil {
		t.Fatal(err)
	}
	queues, err := queue.NewFromCredentials(ctx, creds)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := topics.ListTopics(ctx); err != nil {
		t.Skipf("localstack unreachable: %v", err)
	}

	suffix := time.Now().UnixNano()
	topicName := fmt.Sprintf("TestTopic%d", suffix)
	queueName := fmt.Sprintf("TestQ%d", suffix)

	if err := topics.CreateTopic(ctx, topicName); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if err := queues.CreateQueue(ctx, queueName); err != nil {
		t.Fatalf("create queue: %v", err)
	}

	all, err := topics.ListTopics(ctx)
	if err != nil {
		t.Fatalf("list topics: %v", err)
	}
	var topicARN string
	for _, tp := range all {
		if arn := aws.ToString(tp.TopicArn); strings.HasSuffix(arn, ":"+topicName) {
			topicARN = arn
		}
	}
	if topicARN == "" {
		t.Fatalf("topic %s not listed", topicName)
	}

	queueURL, err := queues.ResolveQueueURL(ctx, queueName)
	if err != nil {
		t.Fatalf("resolve queue: %v", err)
	}
	defer func() { _ = queues.DeleteQueue(context.Background(), queueURL) }()

	queueARN, err := queues.QueueARN(ctx, queueURL)
	if err != nil {
		t.Fatalf("queue arn: %v", err)
	}

	subARN, err := topics.Subscribe(ctx, topicARN, queueARN, "")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	subs, err := topics.ListSubscriptions(ctx, topicARN)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if !hasTopic(subs, topicARN) {
		t.Fatalf("expected subscription for %s", topicARN)
	}

	if err := topics.Publish(ctx, "hello", topicARN, ""); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := topics.Unsubscribe(ctx, subARN); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	subs, err = topics.ListSubscriptions(ctx, topicARN)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if hasTopic(subs, topicARN) {
		t.Fatalf("expected no subscription for %s after unsubscribe", topicARN)
	}

	if err := topics.DeleteTopic(ctx, topicARN); err != nil {
		t.Fatalf("delete topic: %v", err)
	}
}

func hasTopic(subs []types.Subscription, topicARN string) bool {
	for _, s := range subs {
		if aws.ToString(s.TopicArn) == topicARN {
			return true
		}
	}
	return false
}
