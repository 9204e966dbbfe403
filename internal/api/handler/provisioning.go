package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/edvin/mailorg/internal/api/request"
	"github.com/edvin/mailorg/internal/api/response"
	"github.com/edvin/mailorg/internal/apperr"
	"github.com/edvin/mailorg/internal/core"
	"github.com/edvin/mailorg/internal/model"
	"github.com/edvin/mailorg/internal/platform"
)

type Provisioning struct {
	svc *core.ProvisioningService
}

func NewProvisioning(svc *core.ProvisioningService) *Provisioning {
	return &Provisioning{svc: svc}
}

// Create normalizes the submitted domain and starts the create saga.
// The response is the workflow handle, not the provisioned resources;
// provisioning continues after the request returns.
func (h *Provisioning) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrganization
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	fqdn, orgName, err := platform.NormalizeDomain(req.Domain)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	workflowID, err := h.svc.StartCreate(r.Context(), model.CreateOrganizationParams{
		ContactID:        req.ContactID,
		OrganizationName: orgName,
		VanityName:       fqdn,
		EmailUsername:    req.EmailUsername,
		EmailAddress:     req.EmailUsername + "@" + fqdn,
	})
	if err != nil {
		response.WriteError(w, apperr.HTTPStatus(err), "failed to start provisioning")
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{
		"workflow_id": workflowID,
		"domain":      fqdn,
	})
}

// Delete starts the delete saga for the contact's organization.
func (h *Provisioning) Delete(w http.ResponseWriter, r *http.Request) {
	var req request.DeleteOrganization
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	fqdn, _, err := platform.NormalizeDomain(req.Domain)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	workflowID, err := h.svc.StartDelete(r.Context(), model.DeleteOrganizationParams{
		ContactID:  req.ContactID,
		VanityName: fqdn,
	})
	if err != nil {
		response.WriteError(w, apperr.HTTPStatus(err), "failed to start deletion")
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{
		"workflow_id": workflowID,
		"domain":      fqdn,
	})
}

// Get returns the registration for a contact and domain.
func (h *Provisioning) Get(w http.ResponseWriter, r *http.Request) {
	contactID, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}

	fqdn, _, err := platform.NormalizeDomain(chi.URLParam(r, "domain"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	registration, err := h.svc.GetRegistration(r.Context(), contactID, fqdn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.WriteError(w, http.StatusNotFound, "registration not found")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, "failed to load registration")
		return
	}

	response.WriteJSON(w, http.StatusOK, registration)
}

// CreateSMTPCredential starts the SMTP credential workflow.
func (h *Provisioning) CreateSMTPCredential(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSMTPCredential
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	fqdn, _, err := platform.NormalizeDomain(req.Domain)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	workflowID, err := h.svc.StartSMTPCredential(r.Context(), model.CreateSMTPCredentialParams{
		ContactID:  req.ContactID,
		VanityName: fqdn,
	})
	if err != nil {
		response.WriteError(w, apperr.HTTPStatus(err), "failed to start credential provisioning")
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{
		"workflow_id": workflowID,
		"domain":      fqdn,
	})
}
