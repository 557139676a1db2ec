package api

import (
	"net/http"

	"rjboard/internal/service"
	"rjboard/internal/upstream"
)

type AccomplishmentHandler struct {
	accomplishments *service.AccomplishmentService
	upstream        *upstream.Client
}

func NewAccomplishmentHandler(accomplishments *service.AccomplishmentService, client *upstream.Client) *AccomplishmentHandler {
	return &AccomplishmentHandler{accomplishments: accomplishments, upstream: client}
}

// POST /challenges/{challengeId} — the form field "method" selects between
// submitting a proof and deciding an existing accomplishment.
func (h *AccomplishmentHandler) ChallengeAction(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	challengeID, ok := urlInt64(r, "challengeId")
	if !ok {
		notFound(w, "Invalid challenge query")
		return
	}

	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form body")
		return
	}

	switch r.PostFormValue("method") {
	case "create-accomplishment":
		accomplishment, err := h.accomplishments.Submit(r.Context(), identity.Token, challengeID, r.PostFormValue("proof"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, accomplishment)

	case "validate-accomplishment":
		h.decide(w, r)

	default:
		notFound(w, "Bad request method")
	}
}

func (h *AccomplishmentHandler) decide(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	accomplishmentID, err := formInt64(r, "accomplishmentId")
	if err != nil || accomplishmentID <= 0 {
		writeFieldErrors(w, service.FieldErrors{"accomplishmentId": "Accomplishment id must be a number"})
		return
	}

	var approve bool
	switch r.PostFormValue("validation") {
	case "1":
		approve = true
	case "-1":
		approve = false
	default:
		writeFieldErrors(w, service.FieldErrors{"validation": "Validation must be 1 or -1"})
		return
	}

	caller, err := currentUser(r.Context(), h.upstream, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	accomplishment, err := h.accomplishments.Decide(r.Context(), identity.Token, caller.Privilege, accomplishmentID, approve)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accomplishment)
}

// PATCH /accomplishments/{accomplishmentId} — owner reworks a pending proof.
func (h *AccomplishmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	accomplishmentID, ok := urlInt64(r, "accomplishmentId")
	if !ok {
		notFound(w, "Invalid accomplishment query")
		return
	}

	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form body")
		return
	}

	accomplishment, err := h.accomplishments.Update(r.Context(), identity.Token, identity.UserID, accomplishmentID, r.PostFormValue("proof"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accomplishment)
}

// DELETE /accomplishments/{accomplishmentId} — owner withdraws a pending proof.
func (h *AccomplishmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	accomplishmentID, ok := urlInt64(r, "accomplishmentId")
	if !ok {
		notFound(w, "Invalid accomplishment query")
		return
	}

	if err := h.accomplishments.Delete(r.Context(), identity.Token, identity.UserID, accomplishmentID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Accomplishment deleted"})
}
