package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// usa o nome do campo JSON nos detalhes de validação
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// WriteJSON escreve v como JSON com o status informado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError converte err para a taxonomia e responde; erros internos são
// logados com a causa e nunca expostos.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal && log != nil {
		log.Error("erro interno", zap.Error(err))
	}
	WriteJSON(w, apperr.HTTPStatus(e.Kind), e)
}

// DecodeAndValidate decodifica o corpo JSON em dst e aplica as tags `validate`.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("payload inválido", map[string]string{"body": err.Error()})
	}
	return Validate(dst)
}

// Validate aplica as tags `validate` de v.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return apperr.Validation("payload inválido", nil)
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fieldPath(fe)] = fe.Tag()
		}
		return apperr.Validation("payload inválido", fields)
	}
	return nil
}

// fieldPath remove o nome da struct raiz: "req.visitas[0].conteudo" -> "visitas[0].conteudo".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// PathID lê um ID numérico das variáveis da rota.
func PathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("ID inválido", map[string]string{name: raw})
	}
	return uint(id), nil
}
