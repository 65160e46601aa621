package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"
	"github.com/go-gomail/gomail"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
)

// sesAPI is the slice of the SES client the transport uses.
type sesAPI interface {
	SendRawEmail(ctx context.Context, in *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SES submits the same MIME message through Amazon SES.
type SES struct {
	api  sesAPI
	from string
}

// NewSES loads AWS credentials from the default chain for cfg.SESRegion.
func NewSES(ctx context.Context, cfg config.MailConfig) (*SES, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SESRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SES{api: ses.NewFromConfig(awsCfg), from: cfg.From}, nil
}

func (s *SES) Name() string { return config.TransportSES }

// sesAuthCodes are API error codes that mean the credentials are wrong.
var sesAuthCodes = map[string]bool{
	"InvalidClientTokenId":        true,
	"SignatureDoesNotMatch":       true,
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"UnrecognizedClientException": true,
	"ExpiredToken":                true,
	"InvalidAccessKeyId":          true,
}

func (s *SES) Send(ctx context.Context, m *gomail.Message) error {
	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return failedIn(StateSending, fmt.Errorf("encode message: %w", err))
	}

	_, err := s.api.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(s.from),
		Destinations: m.GetHeader("To"),
		RawMessage:   &types.RawMessage{Data: raw.Bytes()},
	})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if sesAuthCodes[apiErr.ErrorCode()] {
			return failedIn(StateAuthenticating, err)
		}
		return failedIn(StateSending, err)
	}
	return failedIn(StateConnecting, err)
}
