// internal/visita/model.go
package visita

import (
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/cliente"
)

// Visita pertence a um relatório e apenas referencia o cliente.
type Visita struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RelatorioID uint             `gorm:"not null;index" json:"relatorio_id"`
	ClienteID   uint             `gorm:"not null;index" json:"cliente_id"`
	Cliente     *cliente.Cliente `gorm:"foreignKey:ClienteID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Ordem       int              `gorm:"not null" json:"ordem"`
	Horario     *string          `gorm:"size:5" json:"horario,omitempty"`
	Objetivo    *string          `gorm:"size:255" json:"objetivo,omitempty"`
	Conteudo    string           `gorm:"type:text;not null" json:"conteudo"`
	Resultado   *string          `gorm:"type:text" json:"resultado,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Visita) TableName() string { return "visitas" }
