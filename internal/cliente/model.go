// internal/cliente/model.go
package cliente

import (
	"time"

	"gorm.io/gorm"
)

// Cliente é referenciado pelas visitas apenas por ID; o nome exibido nos
// relatórios é sempre o atual.
type Cliente struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"size:150;not null" json:"nome"`
	Endereco  *string   `gorm:"size:255" json:"endereco,omitempty"`
	Telefone  *string   `gorm:"size:30" json:"telefone,omitempty"`
	Contato   *string   `gorm:"size:100" json:"contato,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cliente) TableName() string { return "clientes" }

// Migrate cria a tabela e o índice único case-insensitive do nome, que o
// AutoMigrate não sabe declarar.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Cliente{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_clientes_nome_lower ON clientes (LOWER(nome))`).Error
}
