package webform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single submission attempt. There are no retries;
// the user decides whether to try again.
const DefaultTimeout = 10 * time.Second

// Fields is a structured snapshot of the form values. The submitter never
// reads ambient UI state.
type Fields struct {
	Name        string `json:"nombre"`
	Email       string `json:"email"`
	Phone       string `json:"telefono"`
	ServiceType string `json:"servicio"`
	Description string `json:"descripcion"`
}

// Receipt is the server's acknowledgement of an accepted lead.
type Receipt struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LeadID    string `json:"leadId"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorCategory classifies a failed submission for the UI.
type ErrorCategory string

const (
	CategoryTimeout ErrorCategory = "timeout"
	CategoryNetwork ErrorCategory = "network"
	CategoryServer  ErrorCategory = "server"
)

// SubmitError carries the category-specific message shown to the user. Every
// category keeps the manual-contact fallback available through Hint.
type SubmitError struct {
	Category   ErrorCategory
	Message    string
	Hint       string
	StatusCode int
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("webform: %s: %s", e.Category, e.Message)
}

const contactHint = "Si el problema persiste, contáctanos por WhatsApp o teléfono."

// Client submits leads to the form endpoint. It performs no client-side
// validation; the server is the authority.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Submit performs one POST with a bounded wait and classifies any failure.
func (c *Client) Submit(ctx context.Context, fields Fields) (*Receipt, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, &SubmitError{Category: CategoryNetwork, Message: "Error al preparar la solicitud.", Hint: contactHint}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &SubmitError{Category: CategoryNetwork, Message: "Error al preparar la solicitud.", Hint: contactHint}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &SubmitError{
				Category: CategoryTimeout,
				Message:  "Tiempo de espera agotado. Por favor intenta nuevamente.",
				Hint:     contactHint,
			}
		}
		return nil, &SubmitError{
			Category: CategoryNetwork,
			Message:  "Error de conexión. Verifica tu conexión a internet e intenta recargar la página.",
			Hint:     contactHint,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &SubmitError{Category: CategoryNetwork, Message: "Error al leer la respuesta.", Hint: contactHint}
	}

	if resp.StatusCode != http.StatusOK {
		msg := "Error desconocido del servidor"
		var serverErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &serverErr) == nil && serverErr.Error != "" {
			msg = serverErr.Error
		}
		return nil, &SubmitError{
			Category:   CategoryServer,
			Message:    msg,
			Hint:       contactHint,
			StatusCode: resp.StatusCode,
		}
	}

	var receipt Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, &SubmitError{Category: CategoryServer, Message: "Respuesta inesperada del servidor.", Hint: contactHint, StatusCode: resp.StatusCode}
	}
	return &receipt, nil
}
