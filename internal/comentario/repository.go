package comentario

import "gorm.io/gorm"

type Repository interface {
	Criar(db *gorm.DB, c *Comentario) error
	ListarPorRelatorio(db *gorm.DB, relatorioID uint) ([]Comentario, error)
	BuscarPorID(db *gorm.DB, id uint) (*Comentario, error)
	Remover(db *gorm.DB, id uint) error
	RemoverPorRelatorio(db *gorm.DB, relatorioID uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Comentario) error {
	return db.Omit("Autor").Create(c).Error
}

// ListarPorRelatorio já traz o autor para exibir o nome.
func (r *repositoryImpl) ListarPorRelatorio(db *gorm.DB, relatorioID uint) ([]Comentario, error) {
	var comentarios []Comentario
	err := db.Preload("Autor").
		Where("relatorio_id = ?", relatorioID).
		Order("created_at ASC, id ASC").
		Find(&comentarios).Error
	return comentarios, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Comentario, error) {
	var c Comentario
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&Comentario{}, id).Error
}

func (r *repositoryImpl) RemoverPorRelatorio(db *gorm.DB, relatorioID uint) error {
	return db.Where("relatorio_id = ?", relatorioID).Delete(&Comentario{}).Error
}
