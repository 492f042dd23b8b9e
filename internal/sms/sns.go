package sms

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSGateway delivers SMS notifications through AWS SNS.
type SNSGateway struct {
	client   *awssns.Client
	senderID string
}

// NewSNSGateway builds an SNS client for the given region.
func NewSNSGateway(ctx context.Context, region, senderID string) (*SNSGateway, error) {
	if strings.TrimSpace(region) == "" {
		return nil, errors.New("sms: region is empty")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSGateway{
		client:   awssns.NewFromConfig(cfg),
		senderID: senderID,
	}, nil
}

// Send publishes a transactional SMS to the given E.164 number.
func (g *SNSGateway) Send(ctx context.Context, to, body string) error {
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if g.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(g.senderID),
		}
	}

	_, err := g.client.Publish(ctx, &awssns.PublishInput{
		Message:           aws.String(body),
		PhoneNumber:       aws.String(to),
		MessageAttributes: attrs,
	})
	return err
}
