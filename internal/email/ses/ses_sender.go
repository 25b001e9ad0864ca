package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	toAddress   string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, toAddress string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		toAddress:   toAddress,
	}, nil
}

func (s *sesSender) SendReportReady(ctx context.Context, report *domain.LabReport) error {
	subject := fmt.Sprintf("Your %s report is ready", report.ReportType)
	textBody := fmt.Sprintf(
		"Extraction of %s finished.\n\nSummary: %s\n\nOpen the app to review the extracted records.",
		report.FileName, report.Summary)
	return s.send(ctx, subject, textBody)
}

func (s *sesSender) SendReportFailed(ctx context.Context, report *domain.LabReport) error {
	subject := fmt.Sprintf("We couldn't read your %s report", report.ReportType)
	textBody := fmt.Sprintf(
		"Extraction of %s failed: %s\n\nTry uploading a clearer photo or a PDF with selectable text.",
		report.FileName, report.ErrorMessage)
	return s.send(ctx, subject, textBody)
}

func (s *sesSender) send(ctx context.Context, subject, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending email via SES: %w", err)
	}
	return nil
}
