// internal/relatorio/dto.go
package relatorio

import (
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/comentario"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
)

// VisitaRequest é um item de visita em POST/PUT /relatorios e em POST /relatorios/{id}/visitas.
type VisitaRequest struct {
	ClienteID uint    `json:"cliente_id" validate:"required"`
	Horario   *string `json:"horario,omitempty" validate:"omitempty,datetime=15:04"`
	Objetivo  *string `json:"objetivo,omitempty" validate:"omitempty,max=255"`
	Conteudo  string  `json:"conteudo" validate:"required,max=5000"`
	Resultado *string `json:"resultado,omitempty" validate:"omitempty,max=5000"`
}

// RelatorioRequest é o corpo de POST /relatorios e PUT /relatorios/{id}.
// As visitas enviadas substituem todas as existentes.
type RelatorioRequest struct {
	DataRelatorio string          `json:"data_relatorio" validate:"required,datetime=2006-01-02"`
	Status        models.Status   `json:"status" validate:"required,oneof=draft submitted"`
	Problema      *string         `json:"problema,omitempty" validate:"omitempty,max=5000"`
	Plano         *string         `json:"plano,omitempty" validate:"omitempty,max=5000"`
	Visitas       []VisitaRequest `json:"visitas" validate:"max=100,dive"`
}

// StatusRequest é o corpo de PATCH /relatorios/{id}/status.
type StatusRequest struct {
	Status models.Status `json:"status" validate:"required,oneof=draft submitted confirmed"`
}

// ListQuery são os filtros de GET /relatorios e GET /relatorios/export.
type ListQuery struct {
	De         *time.Time
	Ate        *time.Time
	Status     *models.Status
	VendedorID *uint
}

type RelatorioDTO struct {
	ID            uint          `json:"id"`
	VendedorID    uint          `json:"vendedor_id"`
	DataRelatorio string        `json:"data_relatorio"`
	Status        models.Status `json:"status"`
	Problema      *string       `json:"problema,omitempty"`
	Plano         *string       `json:"plano,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// VisitaDTO traz o nome atual do cliente, resolvido na leitura.
type VisitaDTO struct {
	ID          uint      `json:"id"`
	RelatorioID uint      `json:"relatorio_id"`
	ClienteID   uint      `json:"cliente_id"`
	ClienteNome string    `json:"cliente_nome"`
	Ordem       int       `json:"ordem"`
	Horario     *string   `json:"horario,omitempty"`
	Objetivo    *string   `json:"objetivo,omitempty"`
	Conteudo    string    `json:"conteudo"`
	Resultado   *string   `json:"resultado,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RelatorioDetalhe struct {
	RelatorioDTO
	Visitas     []VisitaDTO             `json:"visitas"`
	Comentarios []comentario.CommentDTO `json:"comentarios"`
}

func toDTO(r Relatorio) RelatorioDTO {
	return RelatorioDTO{
		ID:            r.ID,
		VendedorID:    r.VendedorID,
		DataRelatorio: r.Data(),
		Status:        r.Status,
		Problema:      r.Problema,
		Plano:         r.Plano,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toVisitaDTO(v visita.Visita, nomes map[uint]string) VisitaDTO {
	return VisitaDTO{
		ID:          v.ID,
		RelatorioID: v.RelatorioID,
		ClienteID:   v.ClienteID,
		ClienteNome: nomes[v.ClienteID],
		Ordem:       v.Ordem,
		Horario:     v.Horario,
		Objetivo:    v.Objetivo,
		Conteudo:    v.Conteudo,
		Resultado:   v.Resultado,
		CreatedAt:   v.CreatedAt,
	}
}

func novaVisita(relatorioID uint, ordem int, req VisitaRequest) *visita.Visita {
	return &visita.Visita{
		RelatorioID: relatorioID,
		ClienteID:   req.ClienteID,
		Ordem:       ordem,
		Horario:     req.Horario,
		Objetivo:    req.Objetivo,
		Conteudo:    req.Conteudo,
		Resultado:   req.Resultado,
	}
}
