package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
)

type ctxKey string

const ctxAtor ctxKey = "ator"

// Middleware exige "Authorization: Bearer <jwt>" e coloca o permissao.Ator no contexto.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		claims, err := v.ValidarToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ator := permissao.Ator{ID: claims.UserID, IsManager: claims.IsManager}
		next.ServeHTTP(w, r.WithContext(WithAtor(r.Context(), ator)))
	})
}

func WithAtor(ctx context.Context, a permissao.Ator) context.Context {
	return context.WithValue(ctx, ctxAtor, a)
}

// AtorFromContext devolve o ator zero quando a rota não passou pelo middleware.
func AtorFromContext(ctx context.Context) permissao.Ator {
	a, _ := ctx.Value(ctxAtor).(permissao.Ator)
	return a
}
