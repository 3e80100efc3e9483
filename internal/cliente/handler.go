package cliente

import (
	"net/http"

	"github.com/KromaEnergia/relatorio-vendas/internal/utils"
	"go.uber.org/zap"
)

type Handler struct {
	Service *Service
	Log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	return &Handler{Service: s, Log: log}
}

// POST /clientes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ClienteRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	c, err := h.Service.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /clientes?q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /clientes/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// PUT /clientes/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	var req ClienteRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	c, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// DELETE /clientes/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
