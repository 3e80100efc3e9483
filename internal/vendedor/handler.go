package vendedor

import (
	"net/http"

	"github.com/KromaEnergia/relatorio-vendas/internal/auth"
	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	dbutil "github.com/KromaEnergia/relatorio-vendas/internal/utils/db"
	"go.uber.org/zap"
)

type Handler struct {
	Repository Repository
	Resolver   *permissao.Resolver
	Log        *zap.Logger
}

func NewHandler(repo Repository, resolver *permissao.Resolver, log *zap.Logger) *Handler {
	return &Handler{Repository: repo, Resolver: resolver, Log: log}
}

// GET /vendedores/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ator := auth.AtorFromContext(r.Context())

	v, err := h.Repository.FindByID(r.Context(), ator.ID)
	if dbutil.IsNotFound(err) {
		utils.WriteError(w, h.Log, apperr.NotFound("vendedor não encontrado"))
		return
	}
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, v)
}

// GET /vendedores
// Gerente vê a si mesmo e os subordinados diretos; os demais, apenas a si.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ator := auth.AtorFromContext(r.Context())

	ids, err := h.Resolver.AllowedOwnerIDs(r.Context(), ator)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	list, err := h.Repository.FindByIDs(r.Context(), ids)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}
