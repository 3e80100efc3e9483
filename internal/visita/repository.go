// internal/visita/repository.go
package visita

import (
	"context"

	"gorm.io/gorm"
)

// Repository encapsula o acesso às visitas de um relatório.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB retorna uma cópia do repo usando um *gorm.DB específico (ex.: tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// CreateInBatch cria várias visitas de uma vez (ignora se vazio).
func (r *Repository) CreateInBatch(ctx context.Context, visitas []*Visita) error {
	if len(visitas) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(visitas).Error
}

func (r *Repository) Create(ctx context.Context, v *Visita) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

// ListByRelatorio mantém a ordem em que as visitas foram enviadas.
func (r *Repository) ListByRelatorio(ctx context.Context, relatorioID uint) ([]Visita, error) {
	var list []Visita
	err := r.DB.WithContext(ctx).
		Where("relatorio_id = ?", relatorioID).
		Order("ordem ASC, id ASC").
		Find(&list).Error
	return list, err
}

// ListByRelatorios carrega as visitas de vários relatórios numa consulta só.
func (r *Repository) ListByRelatorios(ctx context.Context, relatorioIDs []uint) ([]Visita, error) {
	var list []Visita
	if len(relatorioIDs) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).
		Where("relatorio_id IN ?", relatorioIDs).
		Order("relatorio_id ASC, ordem ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) CountByRelatorio(ctx context.Context, relatorioID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Visita{}).Where("relatorio_id = ?", relatorioID).Count(&n).Error
	return n, err
}

// MaxOrdem devolve -1 quando o relatório não tem visitas.
func (r *Repository) MaxOrdem(ctx context.Context, relatorioID uint) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).
		Model(&Visita{}).
		Where("relatorio_id = ?", relatorioID).
		Select("COALESCE(MAX(ordem), -1)").
		Scan(&max).Error
	return max, err
}

func (r *Repository) DeleteByRelatorio(ctx context.Context, relatorioID uint) error {
	return r.DB.WithContext(ctx).Where("relatorio_id = ?", relatorioID).Delete(&Visita{}).Error
}

// CountByCliente é a contagem consultada antes de excluir um cliente.
func (r *Repository) CountByCliente(ctx context.Context, clienteID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Visita{}).Where("cliente_id = ?", clienteID).Count(&n).Error
	return n, err
}
