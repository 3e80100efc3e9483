package relatorio

import (
	"net/http"
	"strconv"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/auth"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	"go.uber.org/zap"
)

type Handler struct {
	Service *Service
	Log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	return &Handler{Service: s, Log: log}
}

// POST /relatorios
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req RelatorioRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.Create(r.Context(), auth.AtorFromContext(r.Context()), req)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, out)
}

// GET /relatorios?de=&ate=&status=&vendedor_id=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	list, err := h.Service.Listar(r.Context(), auth.AtorFromContext(r.Context()), q)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /relatorios/export
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	data, err := h.Service.Exportar(r.Context(), auth.AtorFromContext(r.Context()), q)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorios.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /relatorios/{id}
func (h *Handler) Detalhe(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.Detalhe(r.Context(), auth.AtorFromContext(r.Context()), id)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// PUT /relatorios/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	var req RelatorioRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.Update(r.Context(), auth.AtorFromContext(r.Context()), id, req)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// DELETE /relatorios/{id}
func (h *Handler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	if err := h.Service.Excluir(r.Context(), auth.AtorFromContext(r.Context()), id); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /relatorios/{id}/status
func (h *Handler) MudarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	var req StatusRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.MudarStatus(r.Context(), auth.AtorFromContext(r.Context()), id, req.Status)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /relatorios/{id}/confirmar
func (h *Handler) Confirmar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.Confirmar(r.Context(), auth.AtorFromContext(r.Context()), id)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /relatorios/{id}/visitas
func (h *Handler) AdicionarVisita(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	var req VisitaRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.AdicionarVisita(r.Context(), auth.AtorFromContext(r.Context()), id, req)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, out)
}

// GET /relatorios/{id}/visitas
func (h *Handler) ListarVisitas(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	out, err := h.Service.ListarVisitas(r.Context(), auth.AtorFromContext(r.Context()), id)
	if err != nil {
		utils.WriteError(w, h.Log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	var q ListQuery
	v := r.URL.Query()
	fields := map[string]string{}

	parseDia := func(name string) *time.Time {
		raw := v.Get(name)
		if raw == "" {
			return nil
		}
		t, err := time.Parse(layoutData, raw)
		if err != nil {
			fields[name] = "datetime"
			return nil
		}
		return &t
	}
	q.De = parseDia("de")
	q.Ate = parseDia("ate")

	if raw := v.Get("status"); raw != "" {
		st := models.Status(raw)
		if !st.Valid() {
			fields["status"] = "oneof"
		} else {
			q.Status = &st
		}
	}
	if raw := v.Get("vendedor_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			fields["vendedor_id"] = "numeric"
		} else {
			vid := uint(id)
			q.VendedorID = &vid
		}
	}
	if len(fields) > 0 {
		return q, apperr.Validation("filtro inválido", fields)
	}
	return q, nil
}
