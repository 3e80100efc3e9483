package relatorio

import (
	"context"
	"fmt"

	"github.com/KromaEnergia/relatorio-vendas/internal/permissao"
	"github.com/KromaEnergia/relatorio-vendas/internal/visita"
	"github.com/xuri/excelize/v2"
)

const (
	abaRelatorios = "Relatorios"
	abaVisitas    = "Visitas"
)

var (
	cabecalhoRelatorios = []string{"ID", "Vendedor", "Data", "Status", "Problema", "Plano", "Visitas"}
	cabecalhoVisitas    = []string{"Relatório", "Data", "Ordem", "Cliente", "Horário", "Objetivo", "Conteúdo", "Resultado"}
)

// Exportar gera um .xlsx com os relatórios que o ator pode listar e suas visitas.
func (s *Service) Exportar(ctx context.Context, ator permissao.Ator, q ListQuery) ([]byte, error) {
	list, err := s.listar(ctx, ator, q)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	vs, err := s.store.ListVisitasByRelatorios(ctx, ids)
	if err != nil {
		return nil, s.traduzir("listar visitas", err)
	}
	nomes, err := s.clientes.NamesByIDs(ctx, clienteIDs(vs))
	if err != nil {
		return nil, s.traduzir("nomes de clientes", err)
	}
	return gerarPlanilha(list, vs, nomes)
}

func gerarPlanilha(list []Relatorio, vs []visita.Visita, nomes map[uint]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", abaRelatorios); err != nil {
		return nil, fmt.Errorf("renomear aba: %w", err)
	}
	if _, err := f.NewSheet(abaVisitas); err != nil {
		return nil, fmt.Errorf("criar aba: %w", err)
	}

	estilo, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("criar estilo: %w", err)
	}

	datas := make(map[uint]string, len(list))
	qtd := make(map[uint]int, len(list))
	for _, v := range vs {
		qtd[v.RelatorioID]++
	}

	linhas := make([][]any, 0, len(list))
	for _, r := range list {
		datas[r.ID] = r.Data()
		linhas = append(linhas, []any{r.ID, r.VendedorID, r.Data(), string(r.Status), texto(r.Problema), texto(r.Plano), qtd[r.ID]})
	}
	if err := escreverAba(f, abaRelatorios, cabecalhoRelatorios, linhas, estilo); err != nil {
		return nil, err
	}

	linhas = linhas[:0]
	for _, v := range vs {
		linhas = append(linhas, []any{v.RelatorioID, datas[v.RelatorioID], v.Ordem + 1, nomes[v.ClienteID],
			texto(v.Horario), texto(v.Objetivo), v.Conteudo, texto(v.Resultado)})
	}
	if err := escreverAba(f, abaVisitas, cabecalhoVisitas, linhas, estilo); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("gerar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

func escreverAba(f *excelize.File, aba string, cabecalho []string, linhas [][]any, estilo int) error {
	if err := f.SetSheetRow(aba, "A1", &cabecalho); err != nil {
		return fmt.Errorf("cabeçalho %s: %w", aba, err)
	}
	fim, err := excelize.CoordinatesToCellName(len(cabecalho), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(aba, "A1", fim, estilo); err != nil {
		return fmt.Errorf("estilo %s: %w", aba, err)
	}
	for i, linha := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(aba, cell, &linha); err != nil {
			return fmt.Errorf("linha %d de %s: %w", i+2, aba, err)
		}
	}
	return nil
}

func texto(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
