package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const segredo = "segredo-de-teste"

func assinar(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsValidas(id uint, manager bool) Claims {
	return Claims{
		UserID:    id,
		IsManager: manager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func executar(v *Verifier, header string) (*httptest.ResponseRecorder, permissao.Ator) {
	var visto permissao.Ator
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visto = AtorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/relatorios", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, visto
}

func TestMiddleware_TokenValido(t *testing.T) {
	v := NewVerifier(segredo)
	tok := assinar(t, jwt.SigningMethodHS256, []byte(segredo), claimsValidas(7, true))

	rec, ator := executar(v, "Bearer "+tok)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, permissao.Ator{ID: 7, IsManager: true}, ator)
}

func TestMiddleware_Rejeita(t *testing.T) {
	v := NewVerifier(segredo)
	expirado := claimsValidas(7, false)
	expirado.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	cases := map[string]string{
		"sem header":      "",
		"sem bearer":      "Basic abc",
		"lixo":            "Bearer abc.def.ghi",
		"segredo errado":  "Bearer " + assinar(t, jwt.SigningMethodHS256, []byte("outro"), claimsValidas(7, false)),
		"expirado":        "Bearer " + assinar(t, jwt.SigningMethodHS256, []byte(segredo), expirado),
		"algoritmo HS512": "Bearer " + assinar(t, jwt.SigningMethodHS512, []byte(segredo), claimsValidas(7, false)),
		"sem userId":      "Bearer " + assinar(t, jwt.SigningMethodHS256, []byte(segredo), claimsValidas(0, true)),
	}
	for nome, header := range cases {
		t.Run(nome, func(t *testing.T) {
			rec, _ := executar(v, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMiddleware_OptionsPassaDireto(t *testing.T) {
	v := NewVerifier(segredo)
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/relatorios", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAtorFromContext_SemAtor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, permissao.Ator{}, AtorFromContext(req.Context()))
}
