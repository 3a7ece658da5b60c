package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/event-hub/internal/api/httpx"
	"github.com/baharkarakas/event-hub/internal/services"
)

type RegistrationHandler struct {
	svc *services.RegistrationService
}

func NewRegistrationHandler(svc *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type registrationReq struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
}

func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var req registrationReq
	if !httpx.Decode(w, r, &req) {
		return
	}
	reg, err := h.svc.Register(r.Context(), req.EventID, req.UserID, u.Actor())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, reg, "registered")
}

func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), u.Actor()); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil, "registration cancelled")
}

// UserEvents lists the events a user registered for.
func (h *RegistrationHandler) UserEvents(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	events, err := h.svc.ListForUser(r.Context(), chi.URLParam(r, "userId"), u.Actor())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, events, "")
}
