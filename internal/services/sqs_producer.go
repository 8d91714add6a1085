package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/lockwhz/leakcheck/internal/logger"
	"github.com/lockwhz/leakcheck/models"
)

// SQSAPI é o subconjunto do cliente SQS usado pelo produtor.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// VerdictMessage é o corpo publicado na fila ao fim de cada scan.
type VerdictMessage struct {
	ScanID       string    `json:"scan_id"`
	Repository   string    `json:"repository"`
	Clean        bool      `json:"clean"`
	FailedRules  []string  `json:"failed_rules,omitempty"`
	SecretsFiles int       `json:"secrets_files"`
	FinishedAt   time.Time `json:"finished_at"`
}

// DefaultSQSProducer publica o veredito de cada scan em uma fila SQS.
type DefaultSQSProducer struct {
	Client   SQSAPI
	QueueURL string
}

func NewSQSProducer(ctx context.Context, region, queueURL string) (*DefaultSQSProducer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("carregar configuração AWS: %w", err)
	}
	return &DefaultSQSProducer{Client: sqs.NewFromConfig(cfg), QueueURL: queueURL}, nil
}

func (p *DefaultSQSProducer) Notify(ctx context.Context, report *models.Report) error {
	start := time.Now()
	defer logger.Trace("SQSProducer.Notify", start)

	body, err := json.Marshal(VerdictMessage{
		ScanID:       report.ScanID.String(),
		Repository:   report.Repository,
		Clean:        report.Clean,
		FailedRules:  report.FailedRules(),
		SecretsFiles: len(report.SecretsFiles),
		FinishedAt:   report.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar veredito: %w", err)
	}

	out, err := p.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"clean": {
				DataType:    aws.String("String"),
				StringValue: aws.String(fmt.Sprintf("%t", report.Clean)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SendMessage: %w", err)
	}
	logger.GetSugaredLogger().Debugf("SQSProducer: veredito do scan %s publicado (mensagem %s)", report.ScanID, aws.ToString(out.MessageId))
	return nil
}
