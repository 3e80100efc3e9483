package comentario

import (
	"context"
	"strings"

	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	dbutil "github.com/KromaEnergia/relatorio-vendas/internal/utils/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RelatorioLookup devolve o dono de um relatório, ou gorm.ErrRecordNotFound.
type RelatorioLookup interface {
	FindOwnerID(ctx context.Context, relatorioID uint) (uint, error)
}

type Service struct {
	DB         *gorm.DB
	Repository Repository
	relatorios RelatorioLookup
	resolver   *permissao.Resolver
	log        *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, relatorios RelatorioLookup, resolver *permissao.Resolver, log *zap.Logger) *Service {
	return &Service{DB: db, Repository: repo, relatorios: relatorios, resolver: resolver, log: log.Named("comentario")}
}

func (s *Service) ownerOf(ctx context.Context, relatorioID uint) (uint, error) {
	owner, err := s.relatorios.FindOwnerID(ctx, relatorioID)
	if dbutil.IsNotFound(err) {
		return 0, apperr.NotFound("relatório não encontrado")
	}
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return owner, nil
}

// Criar exige gerente antes mesmo de olhar de quem é o relatório.
func (s *Service) Criar(ctx context.Context, ator permissao.Ator, relatorioID uint, texto string) (*CommentDTO, error) {
	if !ator.IsManager {
		return nil, apperr.Forbidden(apperr.CodeCommentNotManager, "apenas gerentes podem comentar")
	}
	owner, err := s.ownerOf(ctx, relatorioID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckComment(ctx, ator, owner); err != nil {
		return nil, err
	}

	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil, apperr.Validation("texto obrigatório", map[string]string{"texto": "required"})
	}
	c := &Comentario{RelatorioID: relatorioID, AutorID: ator.ID, Texto: texto}
	if err := s.Repository.Criar(s.DB.WithContext(ctx), c); err != nil {
		if dbutil.IsForeignKeyViolation(err) {
			return nil, apperr.NotFound("relatório não encontrado")
		}
		return nil, apperr.Internal(err)
	}
	s.log.Info("comentário criado",
		zap.Uint("comentario_id", c.ID),
		zap.Uint("relatorio_id", relatorioID),
		zap.Uint("autor_id", ator.ID))
	dto := toDTO(*c)
	return &dto, nil
}

func (s *Service) Listar(ctx context.Context, ator permissao.Ator, relatorioID uint) ([]CommentDTO, error) {
	owner, err := s.ownerOf(ctx, relatorioID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckView(ctx, ator, owner); err != nil {
		return nil, err
	}
	list, err := s.Repository.ListarPorRelatorio(s.DB.WithContext(ctx), relatorioID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ToDTOs(list), nil
}

// Remover só é permitido ao autor do comentário.
func (s *Service) Remover(ctx context.Context, ator permissao.Ator, id uint) error {
	db := s.DB.WithContext(ctx)
	c, err := s.Repository.BuscarPorID(db, id)
	if dbutil.IsNotFound(err) {
		return apperr.NotFound("comentário não encontrado")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if c.AutorID != ator.ID {
		return apperr.Forbidden(apperr.CodeComment, "apenas o autor pode remover o comentário")
	}
	if err := s.Repository.Remover(db, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
