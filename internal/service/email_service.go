package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// sesAPI is the part of the SES client the email service calls
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

const welcomeSubject = "Welcome to LinguaSpeak!"

var welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome.html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="background: #2a9d8f; color: #fff; padding: 20px; text-align: center;">Welcome to LinguaSpeak!</h1>
    <p>Hi {{.Name}},</p>
    <p>Your account is ready. Say a sentence in the language you are learning and get a corrected version, a reply from your tutor and a few new words to keep.</p>
    <p style="text-align: center;"><a href="{{.URL}}" style="padding: 12px 30px; background: #2a9d8f; color: #fff; text-decoration: none;">Start practicing</a></p>
  </div>
</body>
</html>
`))

var welcomeText = texttemplate.Must(texttemplate.New("welcome.txt").Parse(`Hi {{.Name}},

Your account is ready. Say a sentence in the language you are learning and get a corrected version, a reply from your tutor and a few new words to keep.

Start practicing: {{.URL}}
`))

type welcomeView struct {
	Name string
	URL  string
}

// EmailService sends transactional mail through Amazon SES. The zero sender
// configuration yields a disabled service whose sends are no-ops.
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *zap.Logger
}

func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, log *zap.Logger) (*EmailService, error) {
	if fromEmail == "" {
		log.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{log: log}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("email service enabled", zap.String("from", fromEmail), zap.String("region", awsRegion))
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		log:        log,
	}, nil
}

func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered learner
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		s.log.Debug("skipping welcome email (service disabled)", zap.String("to", toEmail))
		return nil
	}

	view := welcomeView{Name: toName, URL: s.appBaseURL}
	var html, text bytes.Buffer
	if err := welcomeHTML.Execute(&html, view); err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}
	if err := welcomeText.Execute(&text, view); err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	return s.send(ctx, toEmail, welcomeSubject, html.String(), text.String())
}

func (s *EmailService) sender() string {
	if s.fromName == "" {
		return s.fromEmail
	}
	return fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender()),
		Destination:      &types.Destination{ToAddresses: []string{toEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: utf8Content(subject),
				Body: &types.Body{
					Html: utf8Content(htmlBody),
					Text: utf8Content(textBody),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	s.log.Info("email sent",
		zap.String("to", toEmail),
		zap.String("subject", subject),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}
