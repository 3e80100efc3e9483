package comentario

import (
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/vendedor"
)

// Comentario de um gerente sobre um relatório. Não é editável.
type Comentario struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	RelatorioID uint               `gorm:"not null;index" json:"relatorio_id"`
	AutorID     uint               `gorm:"not null;index" json:"autor_id"`
	Autor       *vendedor.Vendedor `gorm:"foreignKey:AutorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Texto       string             `gorm:"type:text;not null" json:"texto"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (Comentario) TableName() string { return "comentarios" }
