package relatorio

import (
	"context"
	"fmt"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/comentario"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filtro restringe a listagem. VendedorIDs vazio não retorna nada.
type Filtro struct {
	VendedorIDs []uint
	De          *time.Time
	Ate         *time.Time
	Status      *models.Status
}

// Store é a persistência usada pelo Service. Transaction entrega a fn um Store
// ligado à transação; erro ou panic em fn desfaz tudo.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	FindByID(ctx context.Context, id uint) (*Relatorio, error)
	FindOwnerID(ctx context.Context, id uint) (uint, error)
	ExistsForDate(ctx context.Context, vendedorID uint, data time.Time, excludeID uint) (bool, error)
	List(ctx context.Context, f Filtro) ([]Relatorio, error)
	Create(ctx context.Context, r *Relatorio) error
	Update(ctx context.Context, r *Relatorio) error
	UpdateStatus(ctx context.Context, id uint, status models.Status) error
	Delete(ctx context.Context, id uint) error

	ListVisitas(ctx context.Context, relatorioID uint) ([]visita.Visita, error)
	ListVisitasByRelatorios(ctx context.Context, relatorioIDs []uint) ([]visita.Visita, error)
	CountVisitas(ctx context.Context, relatorioID uint) (int64, error)
	MaxOrdemVisita(ctx context.Context, relatorioID uint) (int, error)
	CreateVisitas(ctx context.Context, visitas []*visita.Visita) error
	CreateVisita(ctx context.Context, v *visita.Visita) error
	DeleteVisitas(ctx context.Context, relatorioID uint) error

	ListComentarios(ctx context.Context, relatorioID uint) ([]comentario.Comentario, error)
	DeleteComentarios(ctx context.Context, relatorioID uint) error
}

type gormStore struct {
	db          *gorm.DB
	visitas     *visita.Repository
	comentarios comentario.Repository
}

func NewStore(db *gorm.DB, visitas *visita.Repository, comentarios comentario.Repository) Store {
	return &gormStore{db: db, visitas: visitas, comentarios: comentarios}
}

func (s *gormStore) withDB(db *gorm.DB) *gormStore {
	return &gormStore{db: db, visitas: s.visitas.WithDB(db), comentarios: s.comentarios}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("iniciar transação: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(s.withDB(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("confirmar transação: %w", err)
	}
	return nil
}

func (s *gormStore) FindByID(ctx context.Context, id uint) (*Relatorio, error) {
	var r Relatorio
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *gormStore) FindOwnerID(ctx context.Context, id uint) (uint, error) {
	var r Relatorio
	if err := s.db.WithContext(ctx).Select("id", "vendedor_id").First(&r, id).Error; err != nil {
		return 0, err
	}
	return r.VendedorID, nil
}

// ExistsForDate compara pela data em texto para não depender do fuso da sessão.
func (s *gormStore) ExistsForDate(ctx context.Context, vendedorID uint, data time.Time, excludeID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&Relatorio{}).
		Where("vendedor_id = ? AND data_relatorio = ? AND id <> ?", vendedorID, data.Format(layoutData), excludeID).
		Count(&n).Error
	return n > 0, err
}

func (s *gormStore) List(ctx context.Context, f Filtro) ([]Relatorio, error) {
	list := []Relatorio{}
	if len(f.VendedorIDs) == 0 {
		return list, nil
	}
	q := s.db.WithContext(ctx).Where("vendedor_id IN ?", f.VendedorIDs)
	if f.De != nil {
		q = q.Where("data_relatorio >= ?", f.De.Format(layoutData))
	}
	if f.Ate != nil {
		q = q.Where("data_relatorio <= ?", f.Ate.Format(layoutData))
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	err := q.Order("data_relatorio DESC, id DESC").Find(&list).Error
	return list, err
}

func (s *gormStore) Create(ctx context.Context, r *Relatorio) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error
}

// Update regrava o conteúdo; o dono (vendedor_id) nunca muda.
func (s *gormStore) Update(ctx context.Context, r *Relatorio) error {
	return s.db.WithContext(ctx).
		Model(r).
		Select("data_relatorio", "status", "problema", "plano", "updated_at").
		Updates(r).Error
}

func (s *gormStore) UpdateStatus(ctx context.Context, id uint, status models.Status) error {
	res := s.db.WithContext(ctx).Model(&Relatorio{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Relatorio{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) ListVisitas(ctx context.Context, relatorioID uint) ([]visita.Visita, error) {
	return s.visitas.ListByRelatorio(ctx, relatorioID)
}

func (s *gormStore) ListVisitasByRelatorios(ctx context.Context, ids []uint) ([]visita.Visita, error) {
	return s.visitas.ListByRelatorios(ctx, ids)
}

func (s *gormStore) CountVisitas(ctx context.Context, relatorioID uint) (int64, error) {
	return s.visitas.CountByRelatorio(ctx, relatorioID)
}

func (s *gormStore) MaxOrdemVisita(ctx context.Context, relatorioID uint) (int, error) {
	return s.visitas.MaxOrdem(ctx, relatorioID)
}

func (s *gormStore) CreateVisitas(ctx context.Context, vs []*visita.Visita) error {
	return s.visitas.CreateInBatch(ctx, vs)
}

func (s *gormStore) CreateVisita(ctx context.Context, v *visita.Visita) error {
	return s.visitas.Create(ctx, v)
}

func (s *gormStore) DeleteVisitas(ctx context.Context, relatorioID uint) error {
	return s.visitas.DeleteByRelatorio(ctx, relatorioID)
}

func (s *gormStore) ListComentarios(ctx context.Context, relatorioID uint) ([]comentario.Comentario, error) {
	return s.comentarios.ListarPorRelatorio(s.db.WithContext(ctx), relatorioID)
}

func (s *gormStore) DeleteComentarios(ctx context.Context, relatorioID uint) error {
	return s.comentarios.RemoverPorRelatorio(s.db.WithContext(ctx), relatorioID)
}
