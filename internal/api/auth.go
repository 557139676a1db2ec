package api

import (
	"log/slog"
	"net/http"
	"strings"

	"rjboard/internal/auth"
	"rjboard/internal/upstream"
)

type AuthHandler struct {
	sessions *auth.SessionStore
	upstream *upstream.Client
}

func NewAuthHandler(sessions *auth.SessionStore, client *upstream.Client) *AuthHandler {
	return &AuthHandler{sessions: sessions, upstream: client}
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required"`
}

// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form body")
		return
	}

	form := loginForm{
		Email:    strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
		Password: r.PostFormValue("password"),
	}
	if fieldErrors := validateForm(form); fieldErrors != nil {
		writeFieldErrors(w, fieldErrors)
		return
	}

	result, err := h.upstream.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cookie, err := h.sessions.Issue(result.Token, result.UserID)
	if err != nil {
		slog.Error("error issuing session", "error", err, "user_id", result.UserID)
		internalError(w)
		return
	}

	http.SetCookie(w, cookie)
	http.Redirect(w, r, safeRedirect(r.PostFormValue("redirectTo")), http.StatusFound)
}

// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.Destroy())
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}
