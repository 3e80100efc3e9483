// internal/vendedor/model.go
package vendedor

import "time"

// Vendedor é cadastrado fora deste serviço; aqui é apenas lido.
type Vendedor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nome         string    `gorm:"size:100;not null" json:"nome"`
	Departamento string    `gorm:"size:100" json:"departamento"`
	IsManager    bool      `gorm:"default:false" json:"is_manager"`
	ManagerID    *uint     `gorm:"index" json:"manager_id,omitempty"`
	Manager      *Vendedor `gorm:"foreignKey:ManagerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Vendedor) TableName() string { return "vendedores" }
