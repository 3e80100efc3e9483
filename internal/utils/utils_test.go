package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type itemReq struct {
	Conteudo string `json:"conteudo" validate:"required"`
}

type payloadReq struct {
	Status string    `json:"status" validate:"required,oneof=draft submitted"`
	Itens  []itemReq `json:"itens" validate:"dive"`
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"confirmed","itens":[{"conteudo":""}]}`))

	var p payloadReq
	err := DecodeAndValidate(r, &p)

	require.Error(t, err)
	e := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, "oneof", e.Fields["status"])
	assert.Equal(t, "required", e.Fields["itens[0].conteudo"])
}

func TestDecodeAndValidate_JSONInvalido(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

	var p payloadReq
	err := DecodeAndValidate(r, &p)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestWriteError_InternalNaoVazaCausa(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), errors.New("pq: senha incorreta para usuário postgres"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "postgres")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal", body["kind"])
}

func TestWriteError_Forbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil, apperr.Forbidden(apperr.CodeSelfConfirm, "não pode"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"self_confirm"`)
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": raw})
		_, err = PathID(r, "id")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), raw)
	}
}
