// internal/cliente/repository.go
package cliente

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de clientes.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*Cliente, error) {
	var c Cliente
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// List filtra por trecho do nome, sem diferenciar maiúsculas.
func (r *Repository) List(ctx context.Context, q string) ([]Cliente, error) {
	var list []Cliente
	db := r.DB.WithContext(ctx)
	if q = strings.TrimSpace(q); q != "" {
		db = db.Where("nome ILIKE ?", "%"+q+"%")
	}
	err := db.Order("nome").Find(&list).Error
	return list, err
}

// ExistsByNameCI procura outro cliente com o mesmo nome; excludeID = 0 não exclui nada.
func (r *Repository) ExistsByNameCI(ctx context.Context, nome string, excludeID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&Cliente{}).
		Where("LOWER(nome) = LOWER(?) AND id <> ?", nome, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) Create(ctx context.Context, c *Cliente) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repository) Update(ctx context.Context, c *Cliente) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

// Delete retorna gorm.ErrRecordNotFound se nada foi apagado.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&Cliente{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MissingIDs devolve, na ordem recebida e sem repetição, os IDs que não existem.
func (r *Repository) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.DB.WithContext(ctx).Model(&Cliente{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	existe := make(map[uint]bool, len(found))
	for _, id := range found {
		existe[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !existe[id] {
			missing = append(missing, id)
			existe[id] = true
		}
	}
	return missing, nil
}

// NamesByIDs resolve os nomes atuais dos clientes.
func (r *Repository) NamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []Cliente
	if err := r.DB.WithContext(ctx).Select("id", "nome").Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, c := range list {
		out[c.ID] = c.Nome
	}
	return out, nil
}
