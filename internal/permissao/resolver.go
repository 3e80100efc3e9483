// Package permissao decide quem pode ver, editar, excluir, confirmar e
// comentar um relatório.
package permissao

import (
	"context"
	"fmt"

	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
)

// Ator é a identidade já autenticada de quem faz a requisição.
type Ator struct {
	ID        uint
	IsManager bool
}

// Hierarquia responde consultas de um salto sobre manager_id.
type Hierarquia interface {
	// ManagerID devolve o gerente direto do vendedor, ou nil.
	ManagerID(ctx context.Context, vendedorID uint) (*uint, error)
	// SubordinateIDs devolve os vendedores cujo manager_id é managerID.
	SubordinateIDs(ctx context.Context, managerID uint) ([]uint, error)
}

type Resolver struct {
	hierarquia Hierarquia
}

func NewResolver(h Hierarquia) *Resolver {
	return &Resolver{hierarquia: h}
}

// CanAccess: o próprio dono sempre; não-gerente nunca; gerente apenas se for o
// gerente direto do dono. Não há transitividade.
func (r *Resolver) CanAccess(ctx context.Context, ator Ator, ownerID uint) (bool, error) {
	if ator.ID == ownerID {
		return true, nil
	}
	if !ator.IsManager {
		return false, nil
	}
	return r.isDirectManager(ctx, ator.ID, ownerID)
}

func (r *Resolver) isDirectManager(ctx context.Context, managerID, ownerID uint) (bool, error) {
	mid, err := r.hierarquia.ManagerID(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("consultar gerente de %d: %w", ownerID, err)
	}
	return mid != nil && *mid == managerID, nil
}

// DirectManager devolve o gerente direto do dono, ou nil.
func (r *Resolver) DirectManager(ctx context.Context, ownerID uint) (*uint, error) {
	return r.hierarquia.ManagerID(ctx, ownerID)
}

// AllowedOwnerIDs é o conjunto de donos cujos relatórios o ator pode listar.
func (r *Resolver) AllowedOwnerIDs(ctx context.Context, ator Ator) ([]uint, error) {
	ids := []uint{ator.ID}
	if !ator.IsManager {
		return ids, nil
	}
	subs, err := r.hierarquia.SubordinateIDs(ctx, ator.ID)
	if err != nil {
		return nil, fmt.Errorf("listar subordinados de %d: %w", ator.ID, err)
	}
	for _, id := range subs {
		if id != ator.ID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CheckView devolve forbidden quando o ator não pode ver dados do dono.
func (r *Resolver) CheckView(ctx context.Context, ator Ator, ownerID uint) error {
	ok, err := r.CanAccess(ctx, ator, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden(apperr.CodeView, "sem permissão para acessar este relatório")
	}
	return nil
}

// CheckTransition avalia a mudança de status atual -> alvo feita pelo ator.
func (r *Resolver) CheckTransition(ctx context.Context, ator Ator, ownerID uint, atual, alvo models.Status) error {
	switch {
	case alvo == models.StatusConfirmado:
		return r.checkConfirm(ctx, ator, ownerID, atual)
	case alvo.DoDono():
		return CheckEditContent(ator, ownerID, atual)
	default:
		return apperr.Validation("status inválido", map[string]string{"status": string(alvo)})
	}
}

func (r *Resolver) checkConfirm(ctx context.Context, ator Ator, ownerID uint, atual models.Status) error {
	if ator.ID == ownerID {
		return apperr.Forbidden(apperr.CodeSelfConfirm, "não é permitido confirmar o próprio relatório")
	}
	if !ator.IsManager {
		return apperr.Forbidden(apperr.CodeConfirm, "apenas gerentes podem confirmar relatórios")
	}
	ok, err := r.isDirectManager(ctx, ator.ID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden(apperr.CodeConfirm, "apenas o gerente direto pode confirmar este relatório")
	}
	if atual != models.StatusEnviado {
		return apperr.Forbidden(apperr.CodeConfirmNotSubmit, "apenas relatórios enviados podem ser confirmados")
	}
	return nil
}

// CheckComment exige gerente antes de qualquer verificação de hierarquia.
func (r *Resolver) CheckComment(ctx context.Context, ator Ator, ownerID uint) error {
	if !ator.IsManager {
		return apperr.Forbidden(apperr.CodeCommentNotManager, "apenas gerentes podem comentar")
	}
	ok, err := r.CanAccess(ctx, ator, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden(apperr.CodeComment, "sem permissão para comentar este relatório")
	}
	return nil
}

// CheckEditContent: só o dono edita, e nunca um relatório confirmado.
func CheckEditContent(ator Ator, ownerID uint, atual models.Status) error {
	if ator.ID != ownerID {
		return apperr.Forbidden(apperr.CodeEdit, "apenas o dono pode alterar o relatório")
	}
	if atual == models.StatusConfirmado {
		return apperr.Forbidden(apperr.CodeEditConfirmed, "relatório confirmado não pode ser alterado")
	}
	return nil
}

// CheckAddVisit: só o dono adiciona visitas, e nunca a um relatório confirmado.
func CheckAddVisit(ator Ator, ownerID uint, atual models.Status) error {
	if ator.ID != ownerID {
		return apperr.Forbidden(apperr.CodeEdit, "apenas o dono pode adicionar visitas")
	}
	if atual == models.StatusConfirmado {
		return apperr.Forbidden(apperr.CodeAddVisitConfirmed, "não é possível adicionar visitas a um relatório confirmado")
	}
	return nil
}

// CheckDelete: só o dono exclui, e apenas rascunhos.
func CheckDelete(ator Ator, ownerID uint, atual models.Status) error {
	if ator.ID != ownerID {
		return apperr.Forbidden(apperr.CodeDelete, "apenas o dono pode excluir o relatório")
	}
	if atual != models.StatusRascunho {
		return apperr.Forbidden(apperr.CodeDeleteNotDraft, "apenas rascunhos podem ser excluídos")
	}
	return nil
}
