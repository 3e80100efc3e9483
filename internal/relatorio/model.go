// internal/relatorio/model.go
package relatorio

import (
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/comentario"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/vendedor"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
	"gorm.io/gorm"
)

const layoutData = "2006-01-02"

// Relatorio é o registro diário de um vendedor. (vendedor_id, data_relatorio) é único.
type Relatorio struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	VendedorID    uint               `gorm:"not null;uniqueIndex:idx_relatorio_vendedor_data" json:"vendedor_id"`
	Vendedor      *vendedor.Vendedor `gorm:"foreignKey:VendedorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	DataRelatorio time.Time          `gorm:"type:date;not null;uniqueIndex:idx_relatorio_vendedor_data" json:"data_relatorio"`
	Status        models.Status      `gorm:"size:20;not null;index" json:"status"`
	Problema      *string            `gorm:"type:text" json:"problema,omitempty"`
	Plano         *string            `gorm:"type:text" json:"plano,omitempty"`

	Visitas     []visita.Visita         `gorm:"foreignKey:RelatorioID;constraint:OnDelete:CASCADE" json:"-"`
	Comentarios []comentario.Comentario `gorm:"foreignKey:RelatorioID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Relatorio) TableName() string { return "relatorios" }

// Data devolve a data do relatório no formato AAAA-MM-DD.
func (r Relatorio) Data() string { return r.DataRelatorio.Format(layoutData) }

// Migrate cria relatorios e as tabelas filhas, nessa ordem, para que as FKs
// com cascade apontem para uma tabela existente.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Relatorio{}, &visita.Visita{}, &comentario.Comentario{})
}
