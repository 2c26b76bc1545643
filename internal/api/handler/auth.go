package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/api/validation"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/roles"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	// RoleKnown is false when a role lookup failed and the role could not
	// be confirmed; the client should not treat it as a confirmed "none".
	RoleKnown bool    `json:"roleKnown"`
	Warning   *string `json:"warning,omitempty"`
}

// AuthHandler handles sign-up, sign-in, sign-out and whoami.
type AuthHandler struct {
	provider identity.Provider
	resolver *roles.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider identity.Provider, resolver *roles.Service) *AuthHandler {
	return &AuthHandler{provider: provider, resolver: resolver}
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	principal, token, err := h.provider.SignUp(r.Context(), req.Email, req.Password, identity.SignUpMetadata{
		FullName:      req.FullName,
		RequestedRole: req.Role,
	})
	if err != nil {
		h.credentialError(w, err, requestID)
		return
	}

	setSessionCookie(w, token)
	response.Success(w, http.StatusCreated, h.sessionPayload(r, principal), requestID)
}

// SignIn handles POST /auth/login.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSignInRequest(validation.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	principal, token, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.credentialError(w, err, requestID)
		return
	}

	setSessionCookie(w, token)
	response.Success(w, http.StatusOK, h.sessionPayload(r, principal), requestID)
}

// SignOut handles POST /auth/logout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	token := middleware.SessionToken(r)
	if err := h.provider.SignOut(r.Context(), token); err != nil {
		slog.Error("failed to sign out", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign out", requestID)
		return
	}

	clearSessionCookie(w)
	response.NoContent(w)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snap := middleware.GetSnapshot(r.Context())
	if !snap.SignedIn() {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not signed in", requestID)
		return
	}

	resp := sessionResponse{
		ID:        snap.Principal.ID.String(),
		Email:     snap.Principal.Email,
		FullName:  snap.Principal.FullName,
		Role:      string(snap.Role),
		RoleKnown: !snap.RoleUnknown,
	}
	if snap.Role == roles.RoleNone && !snap.RoleUnknown {
		warning := "Account setup incomplete. Please contact support."
		resp.Warning = &warning
	}

	response.Success(w, http.StatusOK, resp, requestID)
}

// sessionPayload resolves the principal's role and builds the session body
// returned by sign-up and sign-in.
func (h *AuthHandler) sessionPayload(r *http.Request, principal *identity.Principal) sessionResponse {
	res := h.resolver.Resolve(r.Context(), principal.ID)

	resp := sessionResponse{
		ID:        principal.ID.String(),
		Email:     principal.Email,
		FullName:  principal.FullName,
		Role:      string(res.Role),
		RoleKnown: res.Known(),
	}
	if res.Role == roles.RoleNone && res.Known() {
		warning := "Account setup incomplete. Please contact support."
		resp.Warning = &warning
	}

	return resp
}

// credentialError writes a classified credential failure. Identity-provider
// rejections surface with user-facing messages; anything else is internal.
func (h *AuthHandler) credentialError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrEmailNotConfirmed):
		response.Err(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", identity.ClassifyCredentialError(err), requestID)
	case errors.Is(err, identity.ErrDuplicateAccount):
		response.Err(w, http.StatusConflict, "DUPLICATE_ACCOUNT", identity.ClassifyCredentialError(err), requestID)
	case errors.Is(err, identity.ErrWeakPassword):
		response.Err(w, http.StatusBadRequest, "WEAK_PASSWORD", identity.ClassifyCredentialError(err), requestID)
	case errors.Is(err, identity.ErrRateLimited):
		response.Err(w, http.StatusTooManyRequests, "RATE_LIMITED", identity.ClassifyCredentialError(err), requestID)
	default:
		slog.Error("authentication failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
	}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
