package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/contacthub/internal/apperr"
	"github.com/starford/contacthub/internal/contactservice"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *contactservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *contactservice.Service) *Handler {
	return &Handler{svc: svc}
}

func contactID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListContacts handles GET /api/contacts.
//
//	@Summary		List contacts, newest first
//	@Description	total counts every contact; matched counts those passing q.
//	@Tags			contacts
//	@Produce		json
//	@Param			q	query		string	false	"Search term (name, email, phone, company, position, tags)"
//	@Success		200	{object}	ContactListResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, "list contacts", err)
		return
	}
	items := contactservice.Filter(all, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, ContactListResponse{Contacts: items, Matched: len(items), Total: len(all)})
}

// GetContact handles GET /api/contacts/{id}.
//
//	@Summary		Get a single contact
//	@Tags			contacts
//	@Produce		json
//	@Param			id	path		int	true	"Contact id"
//	@Success		200	{object}	Contact
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [get]
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid contact id"))
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get contact", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateContact handles POST /api/contacts.
//
//	@Summary		Create a contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ContactRequest	true	"Contact to create"
//	@Success		201		{object}	Contact
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts [post]
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.ValidateCreate(); err != nil {
		writeServiceError(w, "create contact", err)
		return
	}
	req.Normalize()

	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create contact", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateContact handles PATCH and PUT /api/contacts/{id}. Only the fields
// present in the body are changed.
//
//	@Summary		Update a contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Contact id"
//	@Param			body	body		ContactRequest	true	"Fields to change"
//	@Success		200		{object}	Contact
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [patch]
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid contact id"))
		return
	}
	var req ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.ValidateUpdate(); err != nil {
		writeServiceError(w, "update contact", err)
		return
	}
	req.Normalize()

	c, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, "update contact", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteContact handles DELETE /api/contacts/{id}.
//
//	@Summary		Delete a contact
//	@Tags			contacts
//	@Param			id	path	int	true	"Contact id"
//	@Success		204	"Contact deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [delete]
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid contact id"))
		return
	}
	if _, err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete contact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// writeServiceError maps the error taxonomy onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	fields := apperr.Fields(err)
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrTransport):
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("record store unavailable"))
	case errors.Is(err, apperr.ErrCreateFailed),
		errors.Is(err, apperr.ErrUpdateFailed),
		errors.Is(err, apperr.ErrDeleteFailed):
		slog.Warn(op+" rejected", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: op + " failed", Fields: fields})
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
