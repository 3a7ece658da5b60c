package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/event-hub/internal/api/httpx"
	"github.com/baharkarakas/event-hub/internal/apperr"
	"github.com/baharkarakas/event-hub/internal/feed"
	"github.com/baharkarakas/event-hub/internal/models"
	"github.com/baharkarakas/event-hub/internal/services"
	"github.com/baharkarakas/event-hub/internal/validate"
)

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler { return &EventHandler{svc: svc} }

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	f := models.EventFilter{Type: models.EventType(r.URL.Query().Get("type"))}
	events, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, events, "")
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, e, "")
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var in models.EventInput
	if !httpx.Decode(w, r, &in) {
		return
	}
	e, err := h.svc.Create(r.Context(), in, u.Actor())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, e, "event created")
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	var in models.EventInput
	if !httpx.Decode(w, r, &in) {
		return
	}
	e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in, u.Actor())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, e, "event updated")
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), u.Actor()); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil, "event deleted")
}

// UploadImage takes a multipart "image" field.
func (h *EventHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	u, ok := actor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+(1<<20))
	file, hdr, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			httpx.WriteErr(w, r, apperr.Validation(validate.Errs{{Field: "image", Msg: "must be at most 5MB"}}))
			return
		}
		httpx.BadRequest(w, "multipart field \"image\" is required")
		return
	}
	defer file.Close()

	img := services.Image{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        file,
	}
	e, err := h.svc.SetImage(r.Context(), chi.URLParam(r, "id"), img, u.Actor())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, e, "image uploaded")
}

func (h *EventHandler) Feed(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context(), models.EventFilter{})
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	b, err := feed.Atom(feed.Info{Title: "Event Hub", BaseURL: scheme + "://" + r.Host}, events)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	_, _ = w.Write(b)
}
