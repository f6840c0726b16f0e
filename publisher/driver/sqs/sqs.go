// Package sqs implements the publisher.Queue collaborator on AWS SQS via
// aws-sdk-go-v2. The queue URL is resolved once at construction; sends are
// plain SendMessage / SendMessageBatch calls with no retrying beyond what
// the SDK does internally.
package sqs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/infigaming-com/queue-publisher/publisher"
)

// API is the subset of *awssqs.Client this driver calls; tests inject a
// fake.
type API interface {
	GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *awssqs.SendMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageBatchOutput, error)
}

type Queue struct {
	api API
	url string
	lg  *zap.Logger
}

type Option func(*config)

type config struct {
	api             API
	region          string
	accessKeyId     string
	secretAccessKey string
	ownerAccountId  string
	lg              *zap.Logger
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(c *config) {
		c.region = region
	}
}

// WithStaticCredentials sets static AWS credentials instead of the default
// credential chain.
func WithStaticCredentials(accessKeyId, secretAccessKey string) Option {
	return func(c *config) {
		c.accessKeyId = accessKeyId
		c.secretAccessKey = secretAccessKey
	}
}

// WithOwnerAccountId sets the account id owning the queue, for queues
// shared across accounts.
func WithOwnerAccountId(accountId string) Option {
	return func(c *config) {
		c.ownerAccountId = accountId
	}
}

// WithAPI injects an SQS API implementation, bypassing AWS config loading.
func WithAPI(api API) Option {
	return func(c *config) {
		c.api = api
	}
}

// WithLogger sets the logger for the driver.
func WithLogger(lg *zap.Logger) Option {
	return func(c *config) {
		if lg != nil {
			c.lg = lg
		}
	}
}

// NewQueue builds the driver and resolves the queue URL. A resolution
// failure is returned as a coded error telling the operator to verify the
// queue name and credentials.
func NewQueue(ctx context.Context, queueName string, opts ...Option) (*Queue, error) {
	c := config{lg: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.api == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if c.region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(c.region))
		}
		if c.accessKeyId != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.accessKeyId, c.secretAccessKey, ""),
			))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("fail to load aws config: %w", err)
		}
		c.api = awssqs.NewFromConfig(cfg)
	}

	input := &awssqs.GetQueueUrlInput{QueueName: aws.String(queueName)}
	if c.ownerAccountId != "" {
		input.QueueOwnerAWSAccountId = aws.String(c.ownerAccountId)
	}
	out, err := c.api.GetQueueUrl(ctx, input)
	if err != nil {
		return nil, NewSqsError(
			ErrCodeEndpointResolution,
			fmt.Sprintf("fail to resolve queue %q, verify the queue name, owner account id and credentials", queueName),
			err,
		)
	}

	c.lg.Info("resolved queue url",
		zap.String("queue", queueName),
		zap.String("url", aws.ToString(out.QueueUrl)),
	)
	return &Queue{api: c.api, url: aws.ToString(out.QueueUrl), lg: c.lg}, nil
}

// URL is the resolved queue URL.
func (q *Queue) URL() string {
	return q.url
}

// SendOne publishes a single payload. Ordering attributes are set only
// when non-empty; standard queues reject unexpected ordering fields.
func (q *Queue) SendOne(ctx context.Context, payload []byte, attrs publisher.Attributes) error {
	input := &awssqs.SendMessageInput{
		QueueUrl:    aws.String(q.url),
		MessageBody: aws.String(string(payload)),
	}
	if attrs.GroupKey != "" {
		input.MessageGroupId = aws.String(attrs.GroupKey)
	}
	if attrs.DedupKey != "" {
		input.MessageDeduplicationId = aws.String(attrs.DedupKey)
	}
	_, err := q.api.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("fail to send message: %w", err)
	}
	return nil
}

// SendBatch publishes the entries in one SendMessageBatch call. Entries
// the service rejects are reported as a coded error carrying the failed
// entry ids; accepted entries of the same call stay sent.
func (q *Queue) SendBatch(ctx context.Context, entries []publisher.Entry) error {
	input := &awssqs.SendMessageBatchInput{
		QueueUrl: aws.String(q.url),
		Entries: lo.Map(entries, func(e publisher.Entry, _ int) types.SendMessageBatchRequestEntry {
			out := types.SendMessageBatchRequestEntry{
				Id:          aws.String(e.ID),
				MessageBody: aws.String(string(e.Payload)),
			}
			if e.GroupKey != "" {
				out.MessageGroupId = aws.String(e.GroupKey)
			}
			if e.DedupKey != "" {
				out.MessageDeduplicationId = aws.String(e.DedupKey)
			}
			return out
		}),
	}
	out, err := q.api.SendMessageBatch(ctx, input)
	if err != nil {
		return fmt.Errorf("fail to send message batch: %w", err)
	}
	if len(out.Failed) > 0 {
		failedIds := lo.Map(out.Failed, func(f types.BatchResultErrorEntry, _ int) string {
			return aws.ToString(f.Id)
		})
		q.lg.Warn("batch entries rejected by queue service",
			zap.String("url", q.url),
			zap.Strings("failed_ids", failedIds),
		)
		return NewSqsError(
			ErrCodeBatchPartialFailure,
			fmt.Sprintf("%d of %d batch entries failed", len(out.Failed), len(entries)),
			nil,
		).WithDetails(failedIds)
	}
	return nil
}
