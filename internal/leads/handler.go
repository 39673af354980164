package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/heralf/legal-leads/internal/observability/metrics"
	"github.com/heralf/legal-leads/pkg/logging"
)

// User-facing messages. The Spanish strings are part of the deployed wire
// contract; the landing page renders them verbatim.
const (
	successMessage      = "Solicitud recibida correctamente. Te contactaremos en menos de 24 horas."
	errMalformedPayload = "Formato de datos inválido"
	errMissingFields    = "Campos requeridos faltantes"
	errInvalidEmail     = "Formato de email inválido"
	errTableNotFound    = "Tabla de base de datos no encontrada"
	errAccessDenied     = "Error de permisos en la base de datos"
	errInternal         = "Error interno del servidor"
)

// Persistence error codes surfaced in error responses.
const (
	CodeResourceNotFound = "ResourceNotFoundException"
	CodeAccessDenied     = "AccessDeniedException"
	CodeInternalError    = "InternalError"
)

const maxBodyBytes = 64 << 10

// Notifier alerts the firm about a freshly captured lead. Failures are
// logged, never surfaced: the lead is already persisted.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *Lead) error
}

// SubmitResponse is the success payload returned to the landing page.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LeadID    string `json:"leadId"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse is the error payload shape shared by every failure branch.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Details       string   `json:"details,omitempty"`
	Code          string   `json:"code,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// Handler orchestrates one submission: parse, validate, build the record,
// persist, respond. It is stateless and safe for concurrent use; both the
// HTTP server and the Lambda front door run requests through it.
type Handler struct {
	repo     Repository
	factory  *Factory
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
	tracer   trace.Tracer
}

// NewHandler creates a submission handler. notifier and m may be nil.
func NewHandler(repo Repository, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("leads: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		factory:  NewFactory(),
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("legal-leads/leads"),
	}
}

// Submit runs the pipeline over a raw JSON body and returns the HTTP status
// plus the response payload. Preflight short-circuiting happens upstream
// (CORS middleware or the Lambda front door) before a body ever gets here.
func (h *Handler) Submit(ctx context.Context, body []byte) (int, any) {
	ctx, span := h.tracer.Start(ctx, "leads.Submit")
	defer span.End()

	// An absent body counts as an empty submission, not malformed JSON, so
	// the client gets the full missing-fields list back.
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var req SubmitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Error("failed to decode submission", "error", err)
		h.metrics.ObserveSubmission(metrics.OutcomeMalformed)
		return http.StatusBadRequest, ErrorResponse{
			Error:   errMalformedPayload,
			Details: "el cuerpo de la solicitud debe ser JSON válido",
		}
	}

	fields, err := Validate(&req)
	if err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		var vErr *ValidationError
		if errors.As(err, &vErr) && len(vErr.MissingFields) > 0 {
			h.logger.Info("submission rejected", "missing_fields", vErr.MissingFields)
			return http.StatusBadRequest, ErrorResponse{
				Error:         errMissingFields,
				MissingFields: vErr.MissingFields,
			}
		}
		h.logger.Info("submission rejected", "reason", "invalid email")
		return http.StatusBadRequest, ErrorResponse{
			Error:   errInvalidEmail,
			Details: "el email debe tener la forma local@dominio.tld",
		}
	}

	lead := h.factory.NewLead(fields)
	span.SetAttributes(attribute.String("lead.id", lead.ID))

	start := time.Now()
	err = h.repo.Put(ctx, lead)
	h.metrics.ObservePersistLatency(time.Since(start).Seconds())
	if err != nil {
		h.logger.Error("failed to persist lead", "error", err, "lead_id", lead.ID)
		h.metrics.ObserveSubmission(metrics.OutcomeStoreError)
		return persistenceFailure(err)
	}

	h.logger.Info("lead saved", "lead_id", lead.ID, "service", lead.ServiceType)
	h.metrics.ObserveSubmission(metrics.OutcomeAccepted)

	if h.notifier != nil {
		if err := h.notifier.NotifyNewLead(ctx, lead); err != nil {
			h.logger.Warn("failed to notify new lead", "error", err, "lead_id", lead.ID)
		}
	}

	return http.StatusOK, SubmitResponse{
		Success:   true,
		Message:   successMessage,
		LeadID:    lead.ID,
		Timestamp: lead.CreatedAtEpochMillis,
	}
}

// persistenceFailure maps store errors onto the status/code taxonomy:
// missing table 503, denied access 403, everything else 500.
func persistenceFailure(err error) (int, any) {
	switch {
	case errors.Is(err, ErrTableNotFound):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error:   errTableNotFound,
			Details: err.Error(),
			Code:    CodeResourceNotFound,
		}
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden, ErrorResponse{
			Error:   errAccessDenied,
			Details: err.Error(),
			Code:    CodeAccessDenied,
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   errInternal,
			Details: err.Error(),
			Code:    CodeInternalError,
		}
	}
}

// SubmitHTTP handles POST /formulario. CORS headers are applied by the
// router middleware on every path, including failures.
func (h *Handler) SubmitHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   errMalformedPayload,
			Details: "no se pudo leer la solicitud",
		})
		return
	}

	status, payload := h.Submit(r.Context(), body)
	writeJSON(w, status, payload)
}

// ListLeadsResponse is the response for the admin listing.
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Count int     `json:"count"`
	Limit int     `json:"limit"`
}

// ListLeads handles GET /admin/leads. Read-only: persisted leads have no
// mutation path through this service.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	leads, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: errInternal,
			Code:  CodeInternalError,
		})
		return
	}
	if leads == nil {
		leads = []*Lead{}
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads: leads,
		Count: len(leads),
		Limit: limit,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
