// internal/api/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/baharkarakas/event-hub/internal/api/httpx"
	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/middleware"
	"github.com/baharkarakas/event-hub/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !httpx.Decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, res, "login successful")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !httpx.Decode(w, r, &req) {
		return
	}
	u, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, u, "registration successful")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.FromCtx(r.Context())
	if !ok {
		httpx.WriteErr(w, r, apperr.ErrUnauthorized)
		return
	}
	if err := h.svc.Logout(r.Context(), u.Claims); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil, "logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.FromCtx(r.Context())
	if !ok {
		httpx.WriteErr(w, r, apperr.ErrUnauthorized)
		return
	}
	me, err := h.svc.Me(r.Context(), u.UserID)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, me, "")
}

// actor pulls the authenticated caller; the Auth middleware guarantees it on protected routes.
func actor(w http.ResponseWriter, r *http.Request) (middleware.UserCtx, bool) {
	u, ok := middleware.FromCtx(r.Context())
	if !ok {
		httpx.WriteErr(w, r, apperr.ErrUnauthorized)
	}
	return u, ok
}
