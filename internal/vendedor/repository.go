package vendedor

import (
	"context"

	dbutil "github.com/KromaEnergia/relatorio-vendas/internal/utils/db"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id uint) (*Vendedor, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Vendedor, error)
	ManagerID(ctx context.Context, vendedorID uint) (*uint, error)
	SubordinateIDs(ctx context.Context, managerID uint) ([]uint, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uint) (*Vendedor, error) {
	var v Vendedor
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]Vendedor, error) {
	var list []Vendedor
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("nome").
		Find(&list).Error
	return list, err
}

// ManagerID devolve nil quando o vendedor não existe ou não tem gerente.
func (r *repositoryImpl) ManagerID(ctx context.Context, vendedorID uint) (*uint, error) {
	var v Vendedor
	err := r.db.WithContext(ctx).
		Select("id", "manager_id").
		First(&v, vendedorID).Error
	if dbutil.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v.ManagerID, nil
}

// SubordinateIDs considera apenas subordinados diretos.
func (r *repositoryImpl) SubordinateIDs(ctx context.Context, managerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&Vendedor{}).
		Where("manager_id = ?", managerID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
