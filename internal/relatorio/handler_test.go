package relatorio

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/KromaEnergia/relatorio-vendas/internal/auth"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func (f *fixture) router() *mux.Router {
	h := NewHandler(f.svc, zap.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/relatorios", h.Criar).Methods(http.MethodPost)
	r.HandleFunc("/relatorios", h.Listar).Methods(http.MethodGet)
	r.HandleFunc("/relatorios/export", h.Exportar).Methods(http.MethodGet)
	r.HandleFunc("/relatorios/{id}", h.Detalhe).Methods(http.MethodGet)
	r.HandleFunc("/relatorios/{id}", h.Atualizar).Methods(http.MethodPut)
	r.HandleFunc("/relatorios/{id}", h.Excluir).Methods(http.MethodDelete)
	r.HandleFunc("/relatorios/{id}/status", h.MudarStatus).Methods(http.MethodPatch)
	r.HandleFunc("/relatorios/{id}/confirmar", h.Confirmar).Methods(http.MethodPost)
	r.HandleFunc("/relatorios/{id}/visitas", h.AdicionarVisita).Methods(http.MethodPost)
	r.HandleFunc("/relatorios/{id}/visitas", h.ListarVisitas).Methods(http.MethodGet)
	return r
}

func doComo(r http.Handler, ator permissao.Ator, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.WithAtor(req.Context(), ator))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

type erroResposta struct {
	Kind   string            `json:"kind"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func lerErro(t *testing.T, rec *httptest.ResponseRecorder) erroResposta {
	t.Helper()
	var e erroResposta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestHandler_FluxoCompleto(t *testing.T) {
	f := novoFixture(t)
	r := f.router()

	rec := doComo(r, atorO, http.MethodPost, "/relatorios",
		`{"data_relatorio":"2024-01-15","status":"submitted","visitas":[{"cliente_id":10,"conteudo":"apresentação"},{"cliente_id":11,"conteudo":"retorno","horario":"14:30"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var det RelatorioDetalhe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &det))
	assert.Equal(t, "2024-01-15", det.DataRelatorio)
	require.Len(t, det.Visitas, 2)
	assert.Equal(t, "Padaria Central", det.Visitas[0].ClienteNome)
	assert.NotNil(t, det.Comentarios)

	rec = doComo(r, atorO, http.MethodPost, "/relatorios",
		`{"data_relatorio":"2024-01-15","status":"draft","visitas":[]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_entry", lerErro(t, rec).Kind)

	rec = doComo(r, atorM, http.MethodPost, "/relatorios/1/confirmar", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	rec = doComo(r, atorO, http.MethodPost, "/relatorios/1/visitas", `{"cliente_id":10,"conteudo":"extra"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "add_visit_confirmed", lerErro(t, rec).Code)

	rec = doComo(r, atorG, http.MethodGet, "/relatorios/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "view", lerErro(t, rec).Code)
}

func TestHandler_Validacao(t *testing.T) {
	f := novoFixture(t)
	r := f.router()

	cases := []struct {
		nome, body, campo string
	}{
		{"data em formato errado", `{"data_relatorio":"15/01/2024","status":"draft"}`, "data_relatorio"},
		{"status desconhecido", `{"data_relatorio":"2024-01-15","status":"archived"}`, "status"},
		{"confirmado na criação", `{"data_relatorio":"2024-01-15","status":"confirmed"}`, "status"},
		{"visita sem conteúdo", `{"data_relatorio":"2024-01-15","status":"draft","visitas":[{"cliente_id":10}]}`, "visitas[0].conteudo"},
		{"horário inválido", `{"data_relatorio":"2024-01-15","status":"draft","visitas":[{"cliente_id":10,"conteudo":"x","horario":"25:00"}]}`, "visitas[0].horario"},
		{"data futura", `{"data_relatorio":"2024-02-01","status":"draft"}`, "data_relatorio"},
		{"cliente inexistente", `{"data_relatorio":"2024-01-15","status":"draft","visitas":[{"cliente_id":99,"conteudo":"x"}]}`, "visitas"},
	}
	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			rec := doComo(r, atorO, http.MethodPost, "/relatorios", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			e := lerErro(t, rec)
			assert.Equal(t, "validation", e.Kind)
			assert.Contains(t, e.Fields, tc.campo)
		})
	}

	rec := doComo(r, atorO, http.MethodPost, "/relatorios", `{`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, f.store.relatorios)
}

func TestHandler_StatusEExclusao(t *testing.T) {
	f := novoFixture(t)
	r := f.router()
	rel := f.criar(t, atorO, "2024-01-15", models.StatusRascunho, c1)
	path := "/relatorios/" + itoa(rel.ID)

	rec := doComo(r, atorM, http.MethodPatch, path+"/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "confirm_not_submitted", lerErro(t, rec).Code)

	rec = doComo(r, atorO, http.MethodPatch, path+"/status", `{"status":"submitted"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doComo(r, atorO, http.MethodPatch, path+"/status", `{"status":"closed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doComo(r, atorO, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "delete_not_draft", lerErro(t, rec).Code)

	rec = doComo(r, atorO, http.MethodPatch, path+"/status", `{"status":"draft"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doComo(r, atorO, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doComo(r, atorO, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doComo(r, atorO, http.MethodGet, "/relatorios/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_AtualizarEVisitas(t *testing.T) {
	f := novoFixture(t)
	r := f.router()
	rel := f.criar(t, atorO, "2024-01-15", models.StatusRascunho, c1)
	path := "/relatorios/" + itoa(rel.ID)

	rec := doComo(r, atorO, http.MethodPut, path,
		`{"data_relatorio":"2024-01-16","status":"draft","plano":"voltar sexta","visitas":[{"cliente_id":11,"conteudo":"nova"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"plano":"voltar sexta"`)

	rec = doComo(r, atorO, http.MethodPost, path+"/visitas", `{"cliente_id":10,"conteudo":"mais uma"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doComo(r, atorM, http.MethodGet, path+"/visitas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var vs []VisitaDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vs))
	require.Len(t, vs, 2)
	assert.Equal(t, "Mercado Sul", vs[0].ClienteNome)
	assert.Equal(t, "Padaria Central", vs[1].ClienteNome)
}

func TestHandler_ListarFiltros(t *testing.T) {
	f := novoFixture(t)
	r := f.router()
	f.criar(t, atorO, "2024-01-10", models.StatusRascunho)
	f.criar(t, atorO, "2024-01-12", models.StatusEnviado, c1)

	rec := doComo(r, atorM, http.MethodGet, "/relatorios?vendedor_id=3&status=submitted", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []RelatorioDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-12", list[0].DataRelatorio)

	rec = doComo(r, atorX, http.MethodGet, "/relatorios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doComo(r, atorG, http.MethodGet, "/relatorios?vendedor_id=3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "list_target", lerErro(t, rec).Code)

	rec = doComo(r, atorO, http.MethodGet, "/relatorios?de=ontem&status=x&vendedor_id=0", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := lerErro(t, rec)
	assert.Contains(t, e.Fields, "de")
	assert.Contains(t, e.Fields, "status")
	assert.Contains(t, e.Fields, "vendedor_id")
}

func TestHandler_Exportar(t *testing.T) {
	f := novoFixture(t)
	r := f.router()
	f.criar(t, atorO, "2024-01-12", models.StatusEnviado, c1, c2)

	rec := doComo(r, atorM, http.MethodGet, "/relatorios/export?vendedor_id=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relatorios.xlsx")

	x, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer x.Close()
	rows, err := x.GetRows(abaVisitas)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
