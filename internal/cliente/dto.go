// internal/cliente/dto.go
package cliente

// ClienteRequest é usado em POST /clientes e PUT /clientes/{id}.
type ClienteRequest struct {
	Nome     string  `json:"nome" validate:"required,max=150"`
	Endereco *string `json:"endereco,omitempty" validate:"omitempty,max=255"`
	Telefone *string `json:"telefone,omitempty" validate:"omitempty,max=30"`
	Contato  *string `json:"contato,omitempty" validate:"omitempty,max=100"`
}
