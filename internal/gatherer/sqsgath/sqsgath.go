package sqsgath

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/gatherer"
	"github.com/programme-lv/labgrader/internal/grading"
)

// Sender is satisfied by *sqs.Client.
type Sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

const sendTimeout = 10 * time.Second

type sqsQueueGatherer struct {
	*gatherer.Stream

	sqsClient Sender
	queueUrl  string
	compress  bool
	log       *slog.Logger
}

var _ grading.Gatherer = (*sqsQueueGatherer)(nil)

func New(client Sender, queueUrl string, compress bool, log *slog.Logger) *sqsQueueGatherer {
	if log == nil {
		log = slog.Default()
	}
	g := &sqsQueueGatherer{
		sqsClient: client,
		queueUrl:  queueUrl,
		compress:  compress,
		log:       log.With("sink", "sqs", "queue", queueUrl),
	}
	g.Stream = gatherer.NewStream(g.send)
	return g
}

// NewClient loads the default AWS configuration for the region.
func NewClient(ctx context.Context, region string) (*sqs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

func (s *sqsQueueGatherer) send(msgType api.MsgType, msg any) {
	b, err := api.Encode(msg, s.compress)
	if err != nil {
		s.log.Error("failed to encode message", "type", msgType, "err", err)
		return
	}

	attrs := map[string]types.MessageAttributeValue{
		"MsgType": {DataType: aws.String("String"), StringValue: aws.String(string(msgType))},
	}
	body := string(b)
	if s.compress {
		// message bodies must be text
		body = base64.StdEncoding.EncodeToString(b)
		attrs["ContentEncoding"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(api.ContentEncodingSnappy),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	_, err = s.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueUrl),
		MessageBody:       aws.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		s.log.Warn("failed to send message", "type", msgType, "err", err)
	}
}
