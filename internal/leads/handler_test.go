package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heralf/legal-leads/pkg/logging"
)

func postForm(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/formulario", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.SubmitHTTP(w, req)
	return w
}

func validBody() string {
	return `{"nombre":"Ana","email":" Ana@Test.com ","telefono":"5551234567","servicio":"civil","descripcion":"consulta"}`
}

func TestSubmit_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, nil, logging.Default())

	w := postForm(t, handler, validBody())

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp SubmitResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if !strings.HasPrefix(resp.LeadID, IDPrefix) {
		t.Fatalf("expected leadId with prefix %q, got %q", IDPrefix, resp.LeadID)
	}
	if resp.Timestamp == 0 {
		t.Fatal("expected non-zero timestamp")
	}
	if resp.Message == "" {
		t.Fatal("expected confirmation message")
	}

	stored, err := repo.GetByID(context.Background(), resp.LeadID)
	if err != nil {
		t.Fatalf("lead was not persisted: %v", err)
	}
	if stored.Email != "ana@test.com" {
		t.Fatalf("expected normalized email, got %q", stored.Email)
	}
	if stored.Status != StatusNew || stored.Source != SourceWebForm {
		t.Fatalf("unexpected defaults: %#v", stored)
	}
	if stored.CreatedAtEpochMillis != resp.Timestamp {
		t.Fatalf("response timestamp %d disagrees with record %d", resp.Timestamp, stored.CreatedAtEpochMillis)
	}
}

func TestSubmit_TwoIdenticalSubmissionsGetDistinctIDs(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	var first, second SubmitResponse
	if err := json.NewDecoder(postForm(t, handler, validBody()).Body).Decode(&first); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.NewDecoder(postForm(t, handler, validBody()).Body).Decode(&second); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if first.LeadID == second.LeadID {
		t.Fatalf("expected distinct lead ids, both were %s", first.LeadID)
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	w := postForm(t, handler, "{")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "Formato de datos inválido" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
	if resp.Details == "" {
		t.Fatal("expected details on malformed payload")
	}
}

func TestSubmit_MissingFieldListsAll(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	w := postForm(t, handler, `{"nombre":"Ana","email":"ana@test.com","telefono":"5551234567","servicio":"civil"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.MissingFields) != 1 || resp.MissingFields[0] != "descripcion" {
		t.Fatalf("expected missingFields [descripcion], got %v", resp.MissingFields)
	}
}

func TestSubmit_EmptyBodyListsEveryField(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	// A POST with no body at all is an empty submission, not malformed JSON.
	for _, body := range []string{"", "   "} {
		w := postForm(t, handler, body)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected status %d, got %d", body, http.StatusBadRequest, w.Code)
		}
		var resp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("body %q: failed to decode response: %v", body, err)
		}
		if resp.Error != "Campos requeridos faltantes" {
			t.Fatalf("body %q: unexpected error message: %q", body, resp.Error)
		}
		want := []string{"nombre", "email", "telefono", "servicio", "descripcion"}
		if fmt.Sprint(resp.MissingFields) != fmt.Sprint(want) {
			t.Fatalf("body %q: expected missingFields %v, got %v", body, want, resp.MissingFields)
		}
	}
}

func TestSubmit_InvalidEmailHasNoMissingFields(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	w := postForm(t, handler, `{"nombre":"Ana","email":"not-an-email","telefono":"5551234567","servicio":"civil","descripcion":"consulta"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(strings.ToLower(resp.Error), "email") {
		t.Fatalf("expected email-specific error, got %q", resp.Error)
	}
	if len(resp.MissingFields) != 0 {
		t.Fatalf("expected no missingFields, got %v", resp.MissingFields)
	}
}

type failingRepository struct {
	putErr error
}

func (f *failingRepository) Put(context.Context, *Lead) error { return f.putErr }
func (f *failingRepository) GetByID(context.Context, string) (*Lead, error) {
	return nil, ErrLeadNotFound
}
func (f *failingRepository) ListRecent(context.Context, int) ([]*Lead, error) {
	return nil, f.putErr
}

func TestSubmit_PersistenceFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"table not found", fmt.Errorf("%w: no table", ErrTableNotFound), http.StatusServiceUnavailable, CodeResourceNotFound},
		{"access denied", fmt.Errorf("%w: no creds", ErrAccessDenied), http.StatusForbidden, CodeAccessDenied},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&failingRepository{putErr: tt.err}, nil, nil, logging.Default())

			w := postForm(t, handler, validBody())

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, resp.Code)
			}
			if resp.Error == "" || resp.Details == "" {
				t.Fatalf("expected error and details, got %#v", resp)
			}
		})
	}
}

type recordingNotifier struct {
	leads []*Lead
	err   error
}

func (n *recordingNotifier) NotifyNewLead(_ context.Context, lead *Lead) error {
	n.leads = append(n.leads, lead)
	return n.err
}

func TestSubmit_NotifiesAfterPersist(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := NewHandler(NewInMemoryRepository(), notifier, nil, logging.Default())

	w := postForm(t, handler, validBody())

	if w.Code != http.StatusOK {
		t.Fatalf("expected success, got %d", w.Code)
	}
	if len(notifier.leads) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.leads))
	}
}

func TestSubmit_NotifierFailureDoesNotFailRequest(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	handler := NewHandler(NewInMemoryRepository(), notifier, nil, logging.Default())

	w := postForm(t, handler, validBody())

	if w.Code != http.StatusOK {
		t.Fatalf("notification failure must not fail the submission, got %d", w.Code)
	}
}

func TestSubmit_NoNotificationOnValidationFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	handler := NewHandler(NewInMemoryRepository(), notifier, nil, logging.Default())

	postForm(t, handler, `{"nombre":"Ana"}`)

	if len(notifier.leads) != 0 {
		t.Fatalf("expected no notification, got %d", len(notifier.leads))
	}
}

func TestListLeads(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, nil, nil, logging.Default())

	for i := 0; i < 3; i++ {
		postForm(t, handler, validBody())
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?limit=2", nil)
	w := httptest.NewRecorder()
	handler.ListLeads(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Leads) != 2 || resp.Limit != 2 {
		t.Fatalf("unexpected listing: %#v", resp)
	}
}

func TestListLeads_RepositoryError(t *testing.T) {
	handler := NewHandler(&failingRepository{putErr: errors.New("boom")}, nil, nil, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	w := httptest.NewRecorder()
	handler.ListLeads(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestSubmit_BodyLimit(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil, logging.Default())

	huge := bytes.Repeat([]byte("a"), maxBodyBytes+1)
	body := fmt.Sprintf(`{"nombre":"Ana","email":"ana@test.com","telefono":"555","servicio":"civil","descripcion":"%s"}`, huge)

	w := postForm(t, handler, body)

	// The truncated body is no longer valid JSON.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
