// Package pipeline liga as pontas do processamento SEGIF: carrega os
// arquivos, roda o transformador de cada formato e o cruzamento, e monta o
// arquivo .xlsx final.
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cebdast/SEGIF-CARUARU/internal/core/crossref"
	"github.com/cebdast/SEGIF-CARUARU/internal/core/transform"
	"github.com/cebdast/SEGIF-CARUARU/internal/domain"
	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// NamedFile é um arquivo de entrada com seu nome original (usado na
// auto-detecção de papéis).
type NamedFile struct {
	Name   string
	Reader io.Reader
}

// CruzamentoOptions controla o cruzamento completo. V2 trata o arquivo de
// retenções como o relatório analítico de consignados (quinta aba direta, sem
// fases de retenção).
type CruzamentoOptions struct {
	V2 bool
}

// Service define as operações do pipeline.
type Service interface {
	TransformFile(file io.Reader, filename string, formato transform.Format) ([]byte, domain.Stats, error)
	DetectRoles(filenames []string) domain.DetectionResult
	Cruzamento(files []NamedFile, opts CruzamentoOptions) (*crossref.Resultado, domain.CrossRefStats, error)
}

type service struct {
	log *zap.Logger
}

// NewService cria o serviço do pipeline.
func NewService(log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{log: log}
}

// Nomes de aba usados quando o transformador devolve só a matriz principal.
var sheetNames = map[transform.Format]string{
	transform.FormatLiquidados:   "Liquidados Final",
	transform.FormatPagos:        "Pagos Final",
	transform.FormatAPagar:       "A Pagar Final",
	transform.FormatEmitidos:     "Emitidos Final",
	transform.FormatCredores:     "Credores",
	transform.FormatDetalhamento: "Detalhamento",
	transform.FormatConsignados:  "Consignados",
}

// TransformFile carrega um relatório e aplica o transformador do formato,
// devolvendo o .xlsx transformado e as estatísticas de linhas.
func (svc *service) TransformFile(file io.Reader, filename string, formato transform.Format) ([]byte, domain.Stats, error) {
	if !formato.Valid() {
		return nil, domain.Stats{}, fmt.Errorf("formato de transformação desconhecido: %q", formato)
	}

	sheets, err := workbook.Load(file, filename, workbook.LoadOptions{Raw: formato.RawLoad()})
	if err != nil {
		return nil, domain.Stats{}, fmt.Errorf("erro ao carregar %s: %w", filename, err)
	}

	res, err := transform.Run(formato, sheets)
	if err != nil {
		return nil, domain.Stats{}, err
	}

	out := outputSheets(formato, res)
	data, err := workbook.Write(out)
	if err != nil {
		return nil, domain.Stats{}, fmt.Errorf("erro ao gerar planilha transformada: %w", err)
	}

	svc.log.Info("transformação concluída",
		zap.String("formato", string(formato)),
		zap.String("arquivo", filename),
		zap.Int("linhas_final", res.Stats.LinhasFinal))
	return data, res.Stats, nil
}

// outputSheets monta as abas do arquivo transformado: o transformador manda
// quando produz múltiplas abas (retidos, liquidados formato antigo); senão a
// matriz principal vira uma aba única, com a planilha bruta ao lado se houver.
func outputSheets(formato transform.Format, res *transform.Result) []workbook.OutputSheet {
	if len(res.Sheets) > 0 {
		return res.Sheets
	}
	out := []workbook.OutputSheet{{Name: sheetNames[formato], Data: res.Matrix}}
	if len(res.Bruta) > 0 {
		out = append(out, workbook.OutputSheet{Name: "Planilha Bruta", Data: res.Bruta})
	}
	return out
}

// DetectRoles atribui cada nome de arquivo a um papel do cruzamento.
func (svc *service) DetectRoles(filenames []string) domain.DetectionResult {
	return crossref.AutoDetectar(filenames)
}

// Formato de transformação de cada papel detectado. Papéis sem entrada
// (simples, balancete) são carregados como matriz direta, sem transformador.
var roleFormats = map[crossref.Papel]transform.Format{
	crossref.PapelLiquidados:   transform.FormatLiquidados,
	crossref.PapelPagos:        transform.FormatPagos,
	crossref.PapelAPagar:       transform.FormatAPagar,
	crossref.PapelEmitidos:     transform.FormatEmitidos,
	crossref.PapelRetidos:      transform.FormatRetidos,
	crossref.PapelCredores:     transform.FormatCredores,
	crossref.PapelDetalhamento: transform.FormatDetalhamento,
}

// Cruzamento roda o fluxo completo: detecta o papel de cada arquivo, aplica o
// transformador correspondente e executa as fases de cruzamento. O resultado
// carrega as cinco abas finais; serializar fica a cargo do chamador
// (Resultado.Workbook).
func (svc *service) Cruzamento(files []NamedFile, opts CruzamentoOptions) (*crossref.Resultado, domain.CrossRefStats, error) {
	byName := make(map[string]NamedFile, len(files))
	names := make([]string, 0, len(files))
	for _, f := range files {
		byName[f.Name] = f
		names = append(names, f.Name)
	}

	det := crossref.AutoDetectar(names)
	if len(det.Faltantes) > 0 {
		return nil, domain.CrossRefStats{}, fmt.Errorf(
			"arquivos obrigatórios não identificados: %s", strings.Join(det.Faltantes, ", "))
	}

	stats := domain.CrossRefStats{Transformacoes: map[string]domain.Stats{}}
	var m crossref.Matrices

	for papel, rs := range det.Atribuicoes {
		f, ok := byName[rs.Arquivo]
		if !ok {
			continue
		}
		svc.log.Info("arquivo atribuído",
			zap.String("papel", papel),
			zap.String("arquivo", rs.Arquivo),
			zap.Int("score", rs.Score))

		formato, temTransformador := roleFormats[crossref.Papel(papel)]
		if opts.V2 && crossref.Papel(papel) == crossref.PapelRetidos {
			formato = transform.FormatConsignados
		}

		if !temTransformador {
			// simples e balancete entram como matriz direta
			mat, err := workbook.LoadFirstSheet(f.Reader, f.Name, workbook.LoadOptions{Raw: true})
			if err != nil {
				return nil, domain.CrossRefStats{}, fmt.Errorf("erro ao carregar %s (%s): %w", f.Name, papel, err)
			}
			assignRaw(&m, crossref.Papel(papel), mat)
			continue
		}

		sheets, err := workbook.Load(f.Reader, f.Name, workbook.LoadOptions{Raw: formato.RawLoad()})
		if err != nil {
			return nil, domain.CrossRefStats{}, fmt.Errorf("erro ao carregar %s (%s): %w", f.Name, papel, err)
		}
		res, err := transform.Run(formato, sheets)
		if err != nil {
			return nil, domain.CrossRefStats{}, fmt.Errorf("erro ao transformar %s (%s): %w", f.Name, papel, err)
		}
		stats.Transformacoes[papel] = res.Stats
		assignTransformed(&m, crossref.Papel(papel), opts.V2, res)
	}

	progress := func(fase int, msg string) {
		svc.log.Info("cruzamento", zap.Int("fase", fase), zap.String("msg", msg))
	}
	res, err := crossref.Executar(m, crossref.Options{SkipRetidos: opts.V2}, progress)
	if err != nil {
		return nil, domain.CrossRefStats{}, err
	}
	stats.FasesAplicadas = res.Fases
	return res, stats, nil
}

func assignRaw(m *crossref.Matrices, papel crossref.Papel, mat matrix.Matrix) {
	switch papel {
	case crossref.PapelSimples:
		m.Simples = mat
	case crossref.PapelBalancete:
		m.Balancete = mat
	}
}

func assignTransformed(m *crossref.Matrices, papel crossref.Papel, v2 bool, res *transform.Result) {
	switch papel {
	case crossref.PapelLiquidados:
		m.Liquidados = res.Matrix
	case crossref.PapelPagos:
		m.Pagos = res.Matrix
	case crossref.PapelAPagar:
		m.APagar = res.Matrix
	case crossref.PapelEmitidos:
		m.Emitidos = res.Matrix
	case crossref.PapelRetidos:
		if v2 {
			m.Consignados = res.Matrix
		} else {
			m.Retidos = res.Matrix
			m.RetidosSheets = res.Sheets
		}
	case crossref.PapelCredores:
		m.Credores = res.Matrix
	case crossref.PapelDetalhamento:
		m.Detalhamento = res.Matrix
	}
}
