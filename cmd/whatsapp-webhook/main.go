package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	appconfig "github.com/heralf/legal-leads/internal/config"
	"github.com/heralf/legal-leads/pkg/logging"
)

// Webhook front door for the WhatsApp channel. Verification and delivery
// acknowledgement only; inbound messages are logged until the channel gets
// wired into consultations.
type webhook struct {
	verifyToken string
	logger      *logging.Logger
}

func (wh *webhook) handle(ctx context.Context, evt events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch strings.ToUpper(evt.HTTPMethod) {
	case http.MethodGet:
		return wh.verify(evt), nil
	case http.MethodPost:
		wh.logger.Info("webhook event received", "bytes", len(evt.Body))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"status":"received"}`,
		}, nil
	default:
		return events.APIGatewayProxyResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}
}

func (wh *webhook) verify(evt events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	mode := evt.QueryStringParameters["hub.mode"]
	token := evt.QueryStringParameters["hub.verify_token"]
	challenge := evt.QueryStringParameters["hub.challenge"]

	if mode != "subscribe" || wh.verifyToken == "" || token != wh.verifyToken {
		wh.logger.Warn("webhook verification rejected", "mode", mode)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusForbidden, Body: "verification failed"}
	}

	wh.logger.Info("webhook verified")
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       challenge,
	}
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	wh := &webhook{verifyToken: cfg.WhatsAppVerifyToken, logger: logger}
	lambda.Start(wh.handle)
}
