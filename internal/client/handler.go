package client

import (
	"encoding/json"
	"net/http"
	"strconv"

	errorsInternal "github.com/frahmantamala/schedule-management/internal"
	"github.com/frahmantamala/schedule-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetActiveClients() ([]*Client, error)
	GetByID(id int64) (*Client, error)
	Create(dto CreateClientDTO) (*Client, error)
	Update(id int64, dto UpdateClientDTO) (*Client, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetClients handles GET /clients
func (h *Handler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.GetActiveClients()
	if err != nil {
		h.Logger.Error("GetClients: failed to get clients", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get clients")
		return
	}

	h.WriteJSON(w, http.StatusOK, ClientsResponse{
		Clients: clients,
	})
}

// GetClient handles GET /clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	c, err := h.Service.GetByID(id)
	if err != nil {
		if err == ErrClientNotFound {
			h.WriteError(w, http.StatusNotFound, "client not found")
			return
		}
		h.Logger.Error("GetClient: service failed", "client_id", id, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// CreateClient handles POST /clients, supervisor only.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var dto CreateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(dto)
	if err != nil {
		if appErr, ok := errorsInternal.IsAppError(err); ok {
			status, body := appErr.ToHTTPResponse()
			h.WriteJSON(w, status, body)
			return
		}
		h.Logger.Error("CreateClient: service failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

// UpdateClient handles PATCH /clients/{id}, supervisor only.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var dto UpdateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(id, dto)
	if err != nil {
		switch {
		case err == ErrClientNotFound:
			h.WriteError(w, http.StatusNotFound, "client not found")
		default:
			if appErr, ok := errorsInternal.IsAppError(err); ok {
				status, body := appErr.ToHTTPResponse()
				h.WriteJSON(w, status, body)
				return
			}
			h.Logger.Error("UpdateClient: service failed", "client_id", id, "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
