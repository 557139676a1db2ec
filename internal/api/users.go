package api

import (
	"net/http"

	"rjboard/internal/service"
	"rjboard/internal/upstream"
)

type UserHandler struct {
	users    *service.UserService
	upstream *upstream.Client
}

func NewUserHandler(users *service.UserService, client *upstream.Client) *UserHandler {
	return &UserHandler{users: users, upstream: client}
}

// GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	user, err := currentUser(r.Context(), h.upstream, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// PATCH /users/{userId}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r)
	if !ok {
		internalError(w)
		return
	}

	targetID, ok := urlInt64(r, "userId")
	if !ok {
		notFound(w, "Invalid user query")
		return
	}

	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form body")
		return
	}

	fieldErrors := service.FieldErrors{}
	fields := service.UserFields{
		Pseudo:  r.PostFormValue("pseudo"),
		Name:    r.PostFormValue("name"),
		Surname: r.PostFormValue("surname"),
	}
	if value := r.PostFormValue("wallet"); value != "" {
		wallet, err := formInt(r, "wallet")
		if err != nil {
			fieldErrors["wallet"] = "Wallet must be a number"
		} else {
			fields.Wallet = &wallet
		}
	}
	if value := r.PostFormValue("privilege"); value != "" {
		privilege, err := formInt(r, "privilege")
		if err != nil {
			fieldErrors["privilege"] = "Privilege must be a number"
		} else {
			fields.Privilege = &privilege
		}
	}
	if len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	caller, err := currentUser(r.Context(), h.upstream, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	updated, err := h.users.Update(r.Context(), identity.Token, caller, targetID, fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
