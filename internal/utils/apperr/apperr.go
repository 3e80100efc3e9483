// Package apperr define o conjunto fechado de erros que a API devolve ao cliente.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind é a categoria estável de um erro.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindForbidden     Kind = "forbidden"
	KindValidation    Kind = "validation"
	KindDuplicate     Kind = "duplicate_entry"
	KindResourceInUse Kind = "resource_in_use"
	KindInternal      Kind = "internal"
)

// Códigos de forbidden usados pelas regras de status e permissão.
const (
	CodeView              = "view"
	CodeEdit              = "edit"
	CodeDelete            = "delete"
	CodeComment           = "comment"
	CodeCommentNotManager = "comment_not_manager"
	CodeEditConfirmed     = "edit_confirmed"
	CodeAddVisitConfirmed = "add_visit_confirmed"
	CodeDeleteNotDraft    = "delete_not_draft"
	CodeSelfConfirm       = "self_confirm"
	CodeConfirm           = "confirm"
	CodeConfirmNotSubmit  = "confirm_not_submitted"
	CodeListTarget        = "list_target"
)

const mensagemInterna = "erro interno"

// Error carrega tipo, código, mensagem legível e detalhes por campo.
type Error struct {
	Kind    Kind              `json:"kind"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is compara apenas Kind e Code, permitindo errors.Is(err, apperr.Forbidden(code, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Forbidden(code, msg string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: msg}
}

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Duplicate(msg string) *Error {
	return &Error{Kind: KindDuplicate, Message: msg}
}

func ResourceInUse(msg string) *Error {
	return &Error{Kind: KindResourceInUse, Message: msg}
}

// Internal esconde a causa atrás de uma mensagem genérica; a causa fica
// disponível apenas via Unwrap para log.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: mensagemInterna, cause: cause}
}

// As devolve o *Error contido em err, convertendo qualquer outro erro em internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// KindOf classifica qualquer erro; erros fora da taxonomia contam como internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return As(err).Kind
}

// HTTPStatus mapeia o tipo para o status HTTP da resposta.
func HTTPStatus(k Kind) int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDuplicate, KindResourceInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
