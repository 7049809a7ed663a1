package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"voyagemate/src/config"
	"voyagemate/src/lib"
	"voyagemate/src/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, input *lib.SendMailInput) error
}

// New returns the mailer selected by MAIL_DRIVER.
func New(c *config.Config) (Mailer, error) {
	switch c.Mail.Driver {
	case "", "log":
		return LogMailer{}, nil
	case "smtp":
		return SMTPMailer{}, nil
	case "ses":
		client, err := lib.AWSGetSESClient()
		if err != nil {
			return nil, err
		}
		return &SESMailer{client: client}, nil
	case "sqs":
		client, err := lib.AWSGetSQSClient()
		if err != nil {
			return nil, err
		}
		return &QueueMailer{client: client, queue: c.Email.Queue}, nil
	}
	return nil, fmt.Errorf("unknown mail driver %q", c.Mail.Driver)
}

type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	logger.L.Info("mail", zap.Strings("to", input.To), zap.String("subject", input.Subject))
	return nil
}

type SMTPMailer struct{}

func (SMTPMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	return lib.SendMail(input)
}

type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESMailer struct {
	client SESAPI
}

func NewSESMailer(client SESAPI) *SESMailer {
	return &SESMailer{client: client}
}

func (m *SESMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	body := &sestypes.Body{}
	content := &sestypes.Content{Charset: aws.String("UTF-8"), Data: aws.String(input.Body)}
	if input.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	params := &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("%s <%s>", input.FromName, input.From)),
		Destination: &sestypes.Destination{
			ToAddresses:  input.To,
			CcAddresses:  input.Cc,
			BccAddresses: input.Bcc,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Charset: aws.String("UTF-8"), Data: aws.String(input.Subject)},
			Body:    body,
		},
	}
	if input.ReplyTo != "" {
		params.ReplyToAddresses = []string{input.ReplyTo}
	}
	out, err := m.client.SendEmail(ctx, params)
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	logger.L.Debug("ses message sent", zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// QueueMailer hands messages to the email worker queue instead of sending
// them inline.
type QueueMailer struct {
	client SQSAPI
	queue  string
}

func NewQueueMailer(client SQSAPI, queue string) *QueueMailer {
	return &QueueMailer{client: client, queue: queue}
}

func (m *QueueMailer) Send(ctx context.Context, input *lib.SendMailInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}
	qurl, err := m.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(m.queue)})
	if err != nil {
		return fmt.Errorf("error resolving queue %s: %w", m.queue, err)
	}
	if _, err := m.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    qurl.QueueUrl,
		MessageBody: aws.String(string(body)),
	}); err != nil {
		return fmt.Errorf("error sending message to queue: %w", err)
	}
	return nil
}
