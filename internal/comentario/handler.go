package comentario

import (
	"net/http"

	"github.com/KromaEnergia/relatorio-vendas/internal/auth"
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

// POST /relatorios/{id}/comentarios
func (h *Handler) CriarComentario(w http.ResponseWriter, r *http.Request) {
	relID, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	var req CriarComentarioRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	c, err := h.Service.Criar(r.Context(), auth.AtorFromContext(r.Context()), relID, req.Texto)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /relatorios/{id}/comentarios
func (h *Handler) ListarComentarios(w http.ResponseWriter, r *http.Request) {
	relID, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	list, err := h.Service.Listar(r.Context(), auth.AtorFromContext(r.Context()), relID)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// DELETE /comentarios/{id}
func (h *Handler) RemoverComentario(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	if err := h.Service.Remover(r.Context(), auth.AtorFromContext(r.Context()), id); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
