package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/edvin/mailorg/internal/core"
)

type scanRow struct {
	scanFunc func(dest ...any) error
}

func (r *scanRow) Scan(dest ...any) error {
	return r.scanFunc(dest...)
}

func newProvisioningHandler(t *testing.T) (*Provisioning, *mocks.Client, *handlerMockDB) {
	t.Helper()
	tc := &mocks.Client{}
	db := &handlerMockDB{}
	return NewProvisioning(core.NewProvisioningService(db, tc)), tc, db
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing contact ID", map[string]any{"domain": "example.com", "email_username": "info"}},
		{"zero contact ID", map[string]any{"contact_id": 0, "domain": "example.com", "email_username": "info"}},
		{"missing domain", map[string]any{"contact_id": 42, "email_username": "info"}},
		{"bad email username", map[string]any{"contact_id": 42, "domain": "example.com", "email_username": "no spaces"}},
		{"unparseable domain", map[string]any{"contact_id": 42, "domain": "...", "email_username": "info"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, tc, _ := newProvisioningHandler(t)
			rec := httptest.NewRecorder()

			h.Create(rec, newRequest(http.MethodPost, "/api/v1/organizations", tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			tc.AssertNotCalled(t, "ExecuteWorkflow")
		})
	}
}

func TestCreateStartsWorkflow(t *testing.T) {
	h, tc, _ := newProvisioningHandler(t)

	run := &mocks.WorkflowRun{}
	run.On("GetID").Return("mailorg-create-42-mail.example.com")
	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, "CreateOrganizationWorkflow", mock.Anything).
		Return(run, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/organizations", map[string]any{
		"contact_id":     42,
		"domain":         "https://Mail.Example.com/",
		"email_username": "info",
	}))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "mailorg-create-42-mail.example.com", body["workflow_id"])
	assert.Equal(t, "mail.example.com", body["domain"])
	tc.AssertExpectations(t)
}

func TestCreateWorkflowStartFailure(t *testing.T) {
	h, tc, _ := newProvisioningHandler(t)

	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, "CreateOrganizationWorkflow", mock.Anything).
		Return((temporalclient.WorkflowRun)(nil), errors.New("connection refused"))

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/v1/organizations", map[string]any{
		"contact_id":     42,
		"domain":         "example.com",
		"email_username": "info",
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteStartsWorkflow(t *testing.T) {
	h, tc, _ := newProvisioningHandler(t)

	run := &mocks.WorkflowRun{}
	run.On("GetID").Return("mailorg-delete-42-example.com")
	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, "DeleteOrganizationWorkflow", mock.Anything).
		Return(run, nil)

	rec := httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/api/v1/organizations", map[string]any{
		"contact_id": 42,
		"domain":     "example.com",
	}))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "mailorg-delete-42-example.com", body["workflow_id"])
}

func TestCreateSMTPCredentialStartsWorkflow(t *testing.T) {
	h, tc, _ := newProvisioningHandler(t)

	run := &mocks.WorkflowRun{}
	run.On("GetID").Return("mailorg-smtp-42-example.com")
	tc.On("ExecuteWorkflow", mock.Anything, mock.Anything, "CreateSMTPCredentialWorkflow", mock.Anything).
		Return(run, nil)

	rec := httptest.NewRecorder()
	h.CreateSMTPCredential(rec, newRequest(http.MethodPost, "/api/v1/smtp-credentials", map[string]any{
		"contact_id": 42,
		"domain":     "example.com",
	}))

	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestGetInvalidContactID(t *testing.T) {
	h, _, _ := newProvisioningHandler(t)

	req := withChiURLParams(
		newRequest(http.MethodGet, "/api/v1/organizations/abc/example.com", nil),
		map[string]string{"contactID": "abc", "domain": "example.com"},
	)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRegistrationNotFound(t *testing.T) {
	h, _, db := newProvisioningHandler(t)

	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
		Return(&scanRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }})

	req := withChiURLParams(
		newRequest(http.MethodGet, "/api/v1/organizations/42/example.com", nil),
		map[string]string{"contactID": "42", "domain": "example.com"},
	)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
