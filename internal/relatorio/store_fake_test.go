package relatorio

import (
	"context"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/KromaEnergia/relatorio-vendas/internal/comentario"
	"github.com/KromaEnergia/relatorio-vendas/internal/models"
	"github.com/KromaEnergia/relatorio-vendas/internal/notificacao"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
	"gorm.io/gorm"
)

// memStore imita o banco: índice único (vendedor, data), FK de cliente nas
// visitas e transação com snapshot/restore.
type memStore struct {
	relatorios  map[uint]Relatorio
	visitas     map[uint]visita.Visita
	comentarios map[uint]comentario.Comentario
	clientes    clientesFake

	nextRel, nextVis, nextCom uint

	falhaCreateVisitas error
	falhaUpdate        error
	semPrecheck        bool
}

func novoMemStore(clientes clientesFake) *memStore {
	return &memStore{
		relatorios:  map[uint]Relatorio{},
		visitas:     map[uint]visita.Visita{},
		comentarios: map[uint]comentario.Comentario{},
		clientes:    clientes,
	}
}

type snapshot struct {
	relatorios  map[uint]Relatorio
	visitas     map[uint]visita.Visita
	comentarios map[uint]comentario.Comentario
}

func (m *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	snap := snapshot{maps.Clone(m.relatorios), maps.Clone(m.visitas), maps.Clone(m.comentarios)}
	if err := fn(m); err != nil {
		m.relatorios, m.visitas, m.comentarios = snap.relatorios, snap.visitas, snap.comentarios
		return err
	}
	return nil
}

func (m *memStore) FindByID(_ context.Context, id uint) (*Relatorio, error) {
	r, ok := m.relatorios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memStore) FindOwnerID(ctx context.Context, id uint) (uint, error) {
	r, err := m.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return r.VendedorID, nil
}

func (m *memStore) ExistsForDate(_ context.Context, vendedorID uint, data time.Time, excludeID uint) (bool, error) {
	if m.semPrecheck {
		return false, nil
	}
	return m.conflito(vendedorID, data, excludeID), nil
}

func (m *memStore) conflito(vendedorID uint, data time.Time, excludeID uint) bool {
	for _, r := range m.relatorios {
		if r.ID != excludeID && r.VendedorID == vendedorID && r.Data() == data.Format(layoutData) {
			return true
		}
	}
	return false
}

func (m *memStore) List(_ context.Context, f Filtro) ([]Relatorio, error) {
	out := []Relatorio{}
	for _, r := range m.relatorios {
		if !slices.Contains(f.VendedorIDs, r.VendedorID) {
			continue
		}
		if f.De != nil && r.DataRelatorio.Before(*f.De) {
			continue
		}
		if f.Ate != nil && r.DataRelatorio.After(*f.Ate) {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DataRelatorio.Equal(out[j].DataRelatorio) {
			return out[i].DataRelatorio.After(out[j].DataRelatorio)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memStore) Create(_ context.Context, r *Relatorio) error {
	if m.conflito(r.VendedorID, r.DataRelatorio, 0) {
		return gorm.ErrDuplicatedKey
	}
	m.nextRel++
	r.ID = m.nextRel
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.relatorios[r.ID] = *r
	return nil
}

func (m *memStore) Update(_ context.Context, r *Relatorio) error {
	if m.falhaUpdate != nil {
		return m.falhaUpdate
	}
	if m.conflito(r.VendedorID, r.DataRelatorio, r.ID) {
		return gorm.ErrDuplicatedKey
	}
	r.UpdatedAt = time.Now()
	m.relatorios[r.ID] = *r
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, id uint, status models.Status) error {
	r, ok := m.relatorios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	m.relatorios[id] = r
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint) error {
	if _, ok := m.relatorios[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.relatorios, id)
	return nil
}

func (m *memStore) ListVisitas(_ context.Context, relatorioID uint) ([]visita.Visita, error) {
	return m.visitasDe(relatorioID), nil
}

func (m *memStore) visitasDe(ids ...uint) []visita.Visita {
	var out []visita.Visita
	for _, v := range m.visitas {
		if slices.Contains(ids, v.RelatorioID) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RelatorioID != out[j].RelatorioID {
			return out[i].RelatorioID < out[j].RelatorioID
		}
		if out[i].Ordem != out[j].Ordem {
			return out[i].Ordem < out[j].Ordem
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memStore) ListVisitasByRelatorios(_ context.Context, ids []uint) ([]visita.Visita, error) {
	return m.visitasDe(ids...), nil
}

func (m *memStore) CountVisitas(_ context.Context, relatorioID uint) (int64, error) {
	return int64(len(m.visitasDe(relatorioID))), nil
}

func (m *memStore) MaxOrdemVisita(_ context.Context, relatorioID uint) (int, error) {
	maior := -1
	for _, v := range m.visitasDe(relatorioID) {
		if v.Ordem > maior {
			maior = v.Ordem
		}
	}
	return maior, nil
}

func (m *memStore) CreateVisitas(ctx context.Context, vs []*visita.Visita) error {
	if m.falhaCreateVisitas != nil {
		return m.falhaCreateVisitas
	}
	for _, v := range vs {
		if err := m.CreateVisita(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) CreateVisita(_ context.Context, v *visita.Visita) error {
	if _, ok := m.clientes[v.ClienteID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	m.nextVis++
	v.ID = m.nextVis
	m.visitas[v.ID] = *v
	return nil
}

func (m *memStore) DeleteVisitas(_ context.Context, relatorioID uint) error {
	for id, v := range m.visitas {
		if v.RelatorioID == relatorioID {
			delete(m.visitas, id)
		}
	}
	return nil
}

func (m *memStore) ListComentarios(_ context.Context, relatorioID uint) ([]comentario.Comentario, error) {
	var out []comentario.Comentario
	for id := uint(1); id <= m.nextCom; id++ {
		if c, ok := m.comentarios[id]; ok && c.RelatorioID == relatorioID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) DeleteComentarios(_ context.Context, relatorioID uint) error {
	for id, c := range m.comentarios {
		if c.RelatorioID == relatorioID {
			delete(m.comentarios, id)
		}
	}
	return nil
}

func (m *memStore) comentar(relatorioID, autorID uint, texto string) {
	m.nextCom++
	m.comentarios[m.nextCom] = comentario.Comentario{ID: m.nextCom, RelatorioID: relatorioID, AutorID: autorID, Texto: texto}
}

// clientesFake: id -> nome atual.
type clientesFake map[uint]string

func (c clientesFake) MissingIDs(_ context.Context, ids []uint) ([]uint, error) {
	var out []uint
	for _, id := range ids {
		if _, ok := c[id]; !ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (c clientesFake) NamesByIDs(_ context.Context, ids []uint) (map[uint]string, error) {
	out := map[uint]string{}
	for _, id := range ids {
		if n, ok := c[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

// hierarquiaFake: vendedor -> gerente direto.
type hierarquiaFake map[uint]uint

func (h hierarquiaFake) ManagerID(_ context.Context, id uint) (*uint, error) {
	m, ok := h[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (h hierarquiaFake) SubordinateIDs(_ context.Context, managerID uint) ([]uint, error) {
	var ids []uint
	for v, m := range h {
		if m == managerID {
			ids = append(ids, v)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

type notificadorFake struct {
	enviadas []notificacao.Mensagem
	err      error
}

func (n *notificadorFake) Notificar(_ context.Context, m notificacao.Mensagem) error {
	n.enviadas = append(n.enviadas, m)
	return n.err
}
