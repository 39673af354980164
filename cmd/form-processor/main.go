package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/heralf/legal-leads/cmd/mainconfig"
	appconfig "github.com/heralf/legal-leads/internal/config"
	httpmiddleware "github.com/heralf/legal-leads/internal/http/middleware"
	"github.com/heralf/legal-leads/internal/leads"
	"github.com/heralf/legal-leads/internal/notify"
	"github.com/heralf/legal-leads/pkg/logging"
)

// formEvent covers the gateway shapes this function gets invoked with. REST
// API proxy events carry the method at the top level or under
// requestContext.httpMethod; HTTP API v2 events nest it under
// requestContext.http.method.
type formEvent struct {
	HTTPMethod      string `json:"httpMethod"`
	Body            string `json:"body"`
	IsBase64Encoded bool   `json:"isBase64Encoded"`
	RequestContext  struct {
		HTTPMethod string `json:"httpMethod"`
		HTTP       struct {
			Method string `json:"method"`
		} `json:"http"`
	} `json:"requestContext"`
}

func (e formEvent) method() string {
	if m := strings.TrimSpace(e.HTTPMethod); m != "" {
		return strings.ToUpper(m)
	}
	if m := strings.TrimSpace(e.RequestContext.HTTPMethod); m != "" {
		return strings.ToUpper(m)
	}
	return strings.ToUpper(strings.TrimSpace(e.RequestContext.HTTP.Method))
}

type formResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type processor struct {
	handler *leads.Handler
	headers map[string]string
	logger  *logging.Logger
}

func (p *processor) handle(ctx context.Context, evt formEvent) (formResponse, error) {
	// Preflight short-circuits before any body handling.
	if evt.method() == http.MethodOptions {
		return formResponse{StatusCode: http.StatusOK, Headers: p.headers, Body: ""}, nil
	}

	body := []byte(evt.Body)
	if evt.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(evt.Body)
		if err != nil {
			return p.respond(http.StatusBadRequest, leads.ErrorResponse{
				Error:   "Formato de datos inválido",
				Details: "el cuerpo no es base64 válido",
			}), nil
		}
		body = decoded
	}

	status, payload := p.handler.Submit(ctx, body)
	return p.respond(status, payload), nil
}

// respond serializes the payload with the fixed CORS header set. Every
// branch, error or success, carries the same headers.
func (p *processor) respond(status int, payload any) formResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal response", "error", err)
		return formResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    p.headers,
			Body:       `{"error":"Error interno del servidor"}`,
		}
	}
	return formResponse{StatusCode: status, Headers: p.headers, Body: string(body)}
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	repo := leads.NewDynamoRepository(dynamoClient, cfg.LeadsTable, logger)

	var sender notify.EmailSender
	if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}, logger); s != nil {
		sender = s
	}
	notifier := notify.NewService(sender, cfg.NotifyEmail, logger)

	p := &processor{
		handler: leads.NewHandler(repo, notifier, nil, logger),
		headers: httpmiddleware.CORSHeaders(cfg.AllowedOrigin),
		logger:  logger,
	}

	lambda.Start(p.handle)
}
