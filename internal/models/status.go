// models/status.go
package models

// Status é a etapa do ciclo de vida de um relatório diário.
// Fica fora do pacote relatorio para que permissao possa avaliar transições
// sem ciclo de importação.
type Status string

const (
	StatusRascunho   Status = "draft"
	StatusEnviado    Status = "submitted"
	StatusConfirmado Status = "confirmed"
)

// Valid informa se s é um dos três status conhecidos.
func (s Status) Valid() bool {
	switch s {
	case StatusRascunho, StatusEnviado, StatusConfirmado:
		return true
	}
	return false
}

// DoDono indica os status que apenas o dono do relatório pode definir.
func (s Status) DoDono() bool {
	return s == StatusRascunho || s == StatusEnviado
}
