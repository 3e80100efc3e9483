package cliente

import (
	"context"
	"strings"

	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	dbutil "github.com/KromaEnergia/relatorio-vendas/internal/utils/db"
	"go.uber.org/zap"
)

// Store é o subconjunto do Repository usado pelo Service.
type Store interface {
	FindByID(ctx context.Context, id uint) (*Cliente, error)
	List(ctx context.Context, q string) ([]Cliente, error)
	ExistsByNameCI(ctx context.Context, nome string, excludeID uint) (bool, error)
	Create(ctx context.Context, c *Cliente) error
	Update(ctx context.Context, c *Cliente) error
	Delete(ctx context.Context, id uint) error
}

// VisitCounter conta visitas que referenciam um cliente.
type VisitCounter interface {
	CountByCliente(ctx context.Context, clienteID uint) (int64, error)
}

type Service struct {
	store   Store
	visitas VisitCounter
	log     *zap.Logger
}

func NewService(store Store, visitas VisitCounter, log *zap.Logger) *Service {
	return &Service{store: store, visitas: visitas, log: log.Named("cliente")}
}

func (s *Service) Get(ctx context.Context, id uint) (*Cliente, error) {
	c, err := s.store.FindByID(ctx, id)
	if dbutil.IsNotFound(err) {
		return nil, apperr.NotFound("cliente não encontrado")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, q string) ([]Cliente, error) {
	list, err := s.store.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, req ClienteRequest) (*Cliente, error) {
	c := &Cliente{}
	aplicar(c, req)
	if err := s.checkNome(ctx, c.Nome, 0); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, s.traduzirEscrita(err)
	}
	s.log.Info("cliente criado", zap.Uint("cliente_id", c.ID))
	return c, nil
}

// Update nunca toca nas visitas: elas guardam só o ID do cliente.
func (s *Service) Update(ctx context.Context, id uint, req ClienteRequest) (*Cliente, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	aplicar(c, req)
	if err := s.checkNome(ctx, c.Nome, c.ID); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, s.traduzirEscrita(err)
	}
	return c, nil
}

// Delete recusa clientes ainda referenciados por alguma visita. A FK com
// ON DELETE RESTRICT cobre a corrida entre a contagem e o delete.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.visitas.CountByCliente(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return apperr.ResourceInUse("cliente referenciado por visitas")
	}

	err = s.store.Delete(ctx, id)
	switch {
	case err == nil:
		s.log.Info("cliente excluído", zap.Uint("cliente_id", id))
		return nil
	case dbutil.IsForeignKeyViolation(err):
		return apperr.ResourceInUse("cliente referenciado por visitas")
	case dbutil.IsNotFound(err):
		return apperr.NotFound("cliente não encontrado")
	default:
		return apperr.Internal(err)
	}
}

func (s *Service) checkNome(ctx context.Context, nome string, excludeID uint) error {
	if nome == "" {
		return apperr.Validation("nome obrigatório", map[string]string{"nome": "required"})
	}
	existe, err := s.store.ExistsByNameCI(ctx, nome, excludeID)
	if err != nil {
		return apperr.Internal(err)
	}
	if existe {
		return apperr.Duplicate("já existe um cliente com este nome")
	}
	return nil
}

func (s *Service) traduzirEscrita(err error) error {
	if dbutil.IsUniqueViolation(err) {
		return apperr.Duplicate("já existe um cliente com este nome")
	}
	return apperr.Internal(err)
}

func aplicar(c *Cliente, req ClienteRequest) {
	c.Nome = strings.TrimSpace(req.Nome)
	c.Endereco = req.Endereco
	c.Telefone = req.Telefone
	c.Contato = req.Contato
}
