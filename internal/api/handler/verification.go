package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mailorg/internal/api/response"
	"github.com/edvin/mailorg/internal/apperr"
	"github.com/edvin/mailorg/internal/core"
	"github.com/edvin/mailorg/internal/platform"
)

type Verification struct {
	svc *core.VerificationService
}

func NewVerification(svc *core.VerificationService) *Verification {
	return &Verification{svc: svc}
}

// Get reports the domain's current verification state in the mail
// service. Read-only: repeating the call never changes anything.
func (h *Verification) Get(w http.ResponseWriter, r *http.Request) {
	organizationID := chi.URLParam(r, "organizationID")
	if organizationID == "" {
		response.WriteError(w, http.StatusBadRequest, "missing organization ID")
		return
	}

	fqdn, _, err := platform.NormalizeDomain(chi.URLParam(r, "domain"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	verification, err := h.svc.Check(r.Context(), organizationID, fqdn)
	if err != nil {
		response.WriteError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, verification)
}
