package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// SNSPublisher publishes one message to a topic. The order and redemption
// services publish through this interface so tests can capture events.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// SNSClient is the SNS-backed publisher used outside tests.
type SNSClient struct {
	client *sns.Client
	logger *zap.Logger
}

func NewSNSClient(cfg sdkaws.Config, logger *zap.Logger) *SNSClient {
	return &SNSClient{
		client: sns.NewFromConfig(cfg),
		logger: logger,
	}
}

func (s *SNSClient) Publish(ctx context.Context, topicArn string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	msg := string(message)
	if _, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &topicArn,
		Message:  &msg,
	}); err != nil {
		return fmt.Errorf("sns publish to %s failed: %w", topicArn, err)
	}
	s.logger.Debug("SNS message published",
		zap.String("topic_arn", topicArn),
		zap.Int("bytes", len(message)),
	)
	return nil
}
