package relatorio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/comentario"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/notificacao"
	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/apperr"
	dbutil "github.com/KromaEnergia/relatorio-vendas/internal/utils/db"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
	"go.uber.org/zap"
)

// ClienteChecker consulta clientes sem que este pacote dependa do repositório deles.
type ClienteChecker interface {
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
	NamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
}

type Service struct {
	store       Store
	clientes    ClienteChecker
	resolver    *permissao.Resolver
	notificador notificacao.Notificador
	log         *zap.Logger
	now         func() time.Time
}

func NewService(store Store, clientes ClienteChecker, resolver *permissao.Resolver, n notificacao.Notificador, log *zap.Logger) *Service {
	return &Service{
		store:       store,
		clientes:    clientes,
		resolver:    resolver,
		notificador: n,
		log:         log.Named("relatorio"),
		now:         time.Now,
	}
}

// Create grava o relatório e suas visitas numa única transação.
func (s *Service) Create(ctx context.Context, ator permissao.Ator, req RelatorioRequest) (*RelatorioDetalhe, error) {
	if !req.Status.DoDono() {
		return nil, apperr.Validation("status inválido para criação", map[string]string{"status": "oneof"})
	}
	data, err := parseData(req.DataRelatorio)
	if err != nil {
		return nil, err
	}
	if err := s.checarConteudo(ctx, ator.ID, 0, data, req); err != nil {
		return nil, err
	}

	r := &Relatorio{
		VendedorID:    ator.ID,
		DataRelatorio: data,
		Status:        req.Status,
		Problema:      req.Problema,
		Plano:         req.Plano,
	}
	var novas []*visita.Visita
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.Create(ctx, r); err != nil {
			return err
		}
		novas = montarVisitas(r.ID, req.Visitas)
		return tx.CreateVisitas(ctx, novas)
	})
	if err != nil {
		return nil, s.traduzir("criar relatório", err)
	}

	s.log.Info("relatório criado",
		zap.Uint("relatorio_id", r.ID),
		zap.Uint("vendedor_id", r.VendedorID),
		zap.String("data", r.Data()),
		zap.String("status", string(r.Status)),
		zap.Int("visitas", len(novas)))
	if r.Status == models.StatusEnviado {
		s.notificar(ctx, *r)
	}
	return s.montarDetalhe(ctx, *r, deref(novas), nil)
}

// Update substitui conteúdo e visitas: apaga todas, atualiza o relatório e
// reinsere as enviadas, tudo na mesma transação.
func (s *Service) Update(ctx context.Context, ator permissao.Ator, id uint, req RelatorioRequest) (*RelatorioDetalhe, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissao.CheckEditContent(ator, r.VendedorID, r.Status); err != nil {
		return nil, err
	}
	if !req.Status.DoDono() {
		return nil, apperr.Validation("status inválido para edição", map[string]string{"status": "oneof"})
	}
	data, err := parseData(req.DataRelatorio)
	if err != nil {
		return nil, err
	}
	if err := s.checarConteudo(ctx, r.VendedorID, r.ID, data, req); err != nil {
		return nil, err
	}

	anterior := r.Status
	r.DataRelatorio = data
	r.Status = req.Status
	r.Problema = req.Problema
	r.Plano = req.Plano

	var novas []*visita.Visita
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteVisitas(ctx, r.ID); err != nil {
			return err
		}
		if err := tx.Update(ctx, r); err != nil {
			return err
		}
		novas = montarVisitas(r.ID, req.Visitas)
		return tx.CreateVisitas(ctx, novas)
	})
	if err != nil {
		return nil, s.traduzir("atualizar relatório", err)
	}

	s.log.Info("relatório atualizado",
		zap.Uint("relatorio_id", r.ID),
		zap.String("status", string(r.Status)),
		zap.Int("visitas", len(novas)))
	if anterior != models.StatusEnviado && r.Status == models.StatusEnviado {
		s.notificar(ctx, *r)
	}
	comentarios, err := s.store.ListComentarios(ctx, r.ID)
	if err != nil {
		return nil, s.traduzir("listar comentários", err)
	}
	return s.montarDetalhe(ctx, *r, deref(novas), comentarios)
}

// MudarStatus aplica a transição pedida. Confirmar é do gerente direto;
// rascunho e enviado são do dono, e confirmado não volta atrás.
func (s *Service) MudarStatus(ctx context.Context, ator permissao.Ator, id uint, alvo models.Status) (*RelatorioDTO, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckTransition(ctx, ator, r.VendedorID, r.Status, alvo); err != nil {
		return nil, err
	}
	if alvo == models.StatusEnviado {
		n, err := s.store.CountVisitas(ctx, r.ID)
		if err != nil {
			return nil, s.traduzir("contar visitas", err)
		}
		if n == 0 {
			return nil, apperr.Validation("relatório enviado precisa de ao menos uma visita",
				map[string]string{"visitas": "required"})
		}
	}
	if alvo == r.Status {
		dto := toDTO(*r)
		return &dto, nil
	}

	if err := s.store.UpdateStatus(ctx, r.ID, alvo); err != nil {
		return nil, s.traduzir("mudar status", err)
	}
	s.log.Info("status alterado",
		zap.Uint("relatorio_id", r.ID),
		zap.Uint("ator_id", ator.ID),
		zap.String("de", string(r.Status)),
		zap.String("para", string(alvo)))

	atualizado, err := s.buscar(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	s.notificar(ctx, *atualizado)
	dto := toDTO(*atualizado)
	return &dto, nil
}

func (s *Service) Confirmar(ctx context.Context, ator permissao.Ator, id uint) (*RelatorioDTO, error) {
	return s.MudarStatus(ctx, ator, id, models.StatusConfirmado)
}

// AdicionarVisita insere uma visita no fim da lista do relatório.
func (s *Service) AdicionarVisita(ctx context.Context, ator permissao.Ator, id uint, req VisitaRequest) (*VisitaDTO, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckView(ctx, ator, r.VendedorID); err != nil {
		return nil, err
	}
	if err := permissao.CheckAddVisit(ator, r.VendedorID, r.Status); err != nil {
		return nil, err
	}
	missing, err := s.clientes.MissingIDs(ctx, []uint{req.ClienteID})
	if err != nil {
		return nil, s.traduzir("verificar cliente", err)
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("cliente inexistente", map[string]string{"cliente_id": fmt.Sprint(req.ClienteID)})
	}

	ultima, err := s.store.MaxOrdemVisita(ctx, r.ID)
	if err != nil {
		return nil, s.traduzir("ordem da visita", err)
	}
	v := novaVisita(r.ID, ultima+1, req)
	if err := s.store.CreateVisita(ctx, v); err != nil {
		return nil, s.traduzir("adicionar visita", err)
	}

	nomes, err := s.clientes.NamesByIDs(ctx, []uint{v.ClienteID})
	if err != nil {
		return nil, s.traduzir("nomes de clientes", err)
	}
	dto := toVisitaDTO(*v, nomes)
	return &dto, nil
}

func (s *Service) ListarVisitas(ctx context.Context, ator permissao.Ator, id uint) ([]VisitaDTO, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckView(ctx, ator, r.VendedorID); err != nil {
		return nil, err
	}
	vs, err := s.store.ListVisitas(ctx, r.ID)
	if err != nil {
		return nil, s.traduzir("listar visitas", err)
	}
	return s.visitasDTO(ctx, vs)
}

// Detalhe devolve relatório, visitas com o nome atual de cada cliente e comentários.
func (s *Service) Detalhe(ctx context.Context, ator permissao.Ator, id uint) (*RelatorioDetalhe, error) {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckView(ctx, ator, r.VendedorID); err != nil {
		return nil, err
	}
	vs, err := s.store.ListVisitas(ctx, r.ID)
	if err != nil {
		return nil, s.traduzir("listar visitas", err)
	}
	cs, err := s.store.ListComentarios(ctx, r.ID)
	if err != nil {
		return nil, s.traduzir("listar comentários", err)
	}
	return s.montarDetalhe(ctx, *r, vs, cs)
}

// Excluir remove comentários, visitas e o relatório, nessa ordem, numa transação.
func (s *Service) Excluir(ctx context.Context, ator permissao.Ator, id uint) error {
	r, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}
	if err := permissao.CheckDelete(ator, r.VendedorID, r.Status); err != nil {
		return err
	}
	err = s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteComentarios(ctx, r.ID); err != nil {
			return err
		}
		if err := tx.DeleteVisitas(ctx, r.ID); err != nil {
			return err
		}
		return tx.Delete(ctx, r.ID)
	})
	if err != nil {
		return s.traduzir("excluir relatório", err)
	}
	s.log.Info("relatório excluído", zap.Uint("relatorio_id", r.ID), zap.Uint("vendedor_id", r.VendedorID))
	return nil
}

// Listar já consulta restrito aos donos que o ator pode ver.
func (s *Service) Listar(ctx context.Context, ator permissao.Ator, q ListQuery) ([]RelatorioDTO, error) {
	list, err := s.listar(ctx, ator, q)
	if err != nil {
		return nil, err
	}
	out := make([]RelatorioDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toDTO(r))
	}
	return out, nil
}

func (s *Service) listar(ctx context.Context, ator permissao.Ator, q ListQuery) ([]Relatorio, error) {
	ids, err := s.resolver.AllowedOwnerIDs(ctx, ator)
	if err != nil {
		return nil, s.traduzir("listar subordinados", err)
	}
	if q.VendedorID != nil {
		if !slices.Contains(ids, *q.VendedorID) {
			return nil, apperr.Forbidden(apperr.CodeListTarget, "sem permissão para listar relatórios deste vendedor")
		}
		ids = []uint{*q.VendedorID}
	}
	if q.De != nil && q.Ate != nil && q.De.After(*q.Ate) {
		return nil, apperr.Validation("intervalo de datas inválido", map[string]string{"de": "ltefield=ate"})
	}
	list, err := s.store.List(ctx, Filtro{VendedorIDs: ids, De: q.De, Ate: q.Ate, Status: q.Status})
	if err != nil {
		return nil, s.traduzir("listar relatórios", err)
	}
	return list, nil
}

// checarConteudo aplica, em ordem: data não futura, enviado com visitas,
// unicidade por (vendedor, data) e existência dos clientes.
func (s *Service) checarConteudo(ctx context.Context, ownerID, excludeID uint, data time.Time, req RelatorioRequest) error {
	if data.After(s.hoje()) {
		return apperr.Validation("a data do relatório não pode estar no futuro",
			map[string]string{"data_relatorio": "future"})
	}
	if req.Status == models.StatusEnviado && len(req.Visitas) == 0 {
		return apperr.Validation("relatório enviado precisa de ao menos uma visita",
			map[string]string{"visitas": "required"})
	}
	existe, err := s.store.ExistsForDate(ctx, ownerID, data, excludeID)
	if err != nil {
		return s.traduzir("verificar data", err)
	}
	if existe {
		return apperr.Duplicate("já existe um relatório para esta data")
	}

	ids := make([]uint, 0, len(req.Visitas))
	for _, v := range req.Visitas {
		ids = append(ids, v.ClienteID)
	}
	missing, err := s.clientes.MissingIDs(ctx, ids)
	if err != nil {
		return s.traduzir("verificar clientes", err)
	}
	if len(missing) > 0 {
		return apperr.Validation("cliente inexistente", map[string]string{"visitas": "clientes inexistentes: " + joinIDs(missing)})
	}
	return nil
}

func (s *Service) buscar(ctx context.Context, id uint) (*Relatorio, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.traduzir("buscar relatório", err)
	}
	return r, nil
}

func (s *Service) montarDetalhe(ctx context.Context, r Relatorio, vs []visita.Visita, cs []comentario.Comentario) (*RelatorioDetalhe, error) {
	visitas, err := s.visitasDTO(ctx, vs)
	if err != nil {
		return nil, err
	}
	return &RelatorioDetalhe{
		RelatorioDTO: toDTO(r),
		Visitas:      visitas,
		Comentarios:  comentario.ToDTOs(cs),
	}, nil
}

func (s *Service) visitasDTO(ctx context.Context, vs []visita.Visita) ([]VisitaDTO, error) {
	nomes, err := s.clientes.NamesByIDs(ctx, clienteIDs(vs))
	if err != nil {
		return nil, s.traduzir("nomes de clientes", err)
	}
	out := make([]VisitaDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVisitaDTO(v, nomes))
	}
	return out, nil
}

// notificar avisa o gerente no envio e o dono na confirmação. Falhas só são logadas.
func (s *Service) notificar(ctx context.Context, r Relatorio) {
	m := notificacao.Mensagem{
		RelatorioID:   r.ID,
		VendedorID:    r.VendedorID,
		DataRelatorio: r.Data(),
		Status:        string(r.Status),
		Em:            s.now(),
	}
	switch r.Status {
	case models.StatusEnviado:
		m.Evento = notificacao.EventoEnviado
		mgr, err := s.resolver.DirectManager(ctx, r.VendedorID)
		if err != nil {
			s.log.Warn("gerente não resolvido para notificação", zap.Uint("relatorio_id", r.ID), zap.Error(err))
		}
		m.DestinatarioID = mgr
	case models.StatusConfirmado:
		m.Evento = notificacao.EventoConfirmado
		owner := r.VendedorID
		m.DestinatarioID = &owner
	default:
		return
	}
	if err := s.notificador.Notificar(ctx, m); err != nil {
		s.log.Warn("notificação não enviada",
			zap.String("evento", string(m.Evento)),
			zap.Uint("relatorio_id", r.ID),
			zap.Error(err))
	}
}

// traduzir converte erros de armazenamento para a taxonomia.
func (s *Service) traduzir(op string, err error) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case dbutil.IsNotFound(err):
		return apperr.NotFound("relatório não encontrado")
	case dbutil.IsUniqueViolation(err):
		return apperr.Duplicate("já existe um relatório para esta data")
	case dbutil.IsForeignKeyViolation(err):
		return apperr.Validation("cliente inexistente", map[string]string{"visitas": "cliente inexistente"})
	default:
		s.log.Error("falha de armazenamento", zap.String("op", op), zap.Error(err))
		return apperr.Internal(err)
	}
}

func (s *Service) hoje() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseData(v string) (time.Time, error) {
	t, err := time.Parse(layoutData, v)
	if err != nil {
		return time.Time{}, apperr.Validation("data inválida", map[string]string{"data_relatorio": "datetime"})
	}
	return t, nil
}

func montarVisitas(relatorioID uint, reqs []VisitaRequest) []*visita.Visita {
	out := make([]*visita.Visita, 0, len(reqs))
	for i, req := range reqs {
		out = append(out, novaVisita(relatorioID, i, req))
	}
	return out
}

func deref(vs []*visita.Visita) []visita.Visita {
	out := make([]visita.Visita, 0, len(vs))
	for _, v := range vs {
		out = append(out, *v)
	}
	return out
}

func clienteIDs(vs []visita.Visita) []uint {
	ids := make([]uint, 0, len(vs))
	for _, v := range vs {
		if !slices.Contains(ids, v.ClienteID) {
			ids = append(ids, v.ClienteID)
		}
	}
	return ids
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
