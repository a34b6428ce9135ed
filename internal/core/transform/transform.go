// Package transform implementa os transformadores de relatórios SIGEF:
// cada formato bruto (liquidados, pagos, a pagar, emitidos, retidos,
// credores, detalhamento, consignados) vira uma matriz canônica pronta para
// o cruzamento, mais as abas de saída do formato.
package transform

import (
	"fmt"

	"github.com/cebdast/SEGIF-CARUARU/internal/domain"
	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
	"github.com/cebdast/SEGIF-CARUARU/internal/workbook"
)

// Format identifica um transformador registrado.
type Format string

const (
	FormatLiquidados   Format = "liquidados"
	FormatPagos        Format = "pagos"
	FormatAPagar       Format = "apagar"
	FormatEmitidos     Format = "emitidos"
	FormatRetidos      Format = "retidos"
	FormatCredores     Format = "credores"
	FormatDetalhamento Format = "detalhamento"
	FormatConsignados  Format = "consignados"
)

// Result é a saída de um transformador: a matriz canônica principal, a
// planilha bruta (quando o formato produz uma) e as abas do arquivo de saída.
type Result struct {
	Matrix matrix.Matrix
	Bruta  matrix.Matrix
	Sheets []workbook.OutputSheet
	Stats  domain.Stats
}

// Func é a assinatura de um transformador sobre as abas carregadas.
type Func func(sheets []workbook.Sheet) (*Result, error)

var registry = map[Format]Func{
	FormatLiquidados:   Liquidados,
	FormatPagos:        Pagos,
	FormatAPagar:       APagar,
	FormatEmitidos:     Emitidos,
	FormatRetidos:      Retidos,
	FormatCredores:     Credores,
	FormatDetalhamento: Detalhamento,
	FormatConsignados:  Consignados,
}

// Formats lista os formatos registrados.
func Formats() []Format {
	return []Format{
		FormatLiquidados, FormatPagos, FormatAPagar, FormatEmitidos,
		FormatRetidos, FormatCredores, FormatDetalhamento, FormatConsignados,
	}
}

// RawLoad indica se o formato lê valores brutos (números tipados, datas como
// serial) ou formatados como exibidos (credores e detalhamento preservam
// zeros à esquerda lendo como texto).
func (f Format) RawLoad() bool {
	switch f {
	case FormatCredores, FormatDetalhamento:
		return false
	}
	return true
}

// Valid informa se o formato existe no registro.
func (f Format) Valid() bool {
	_, ok := registry[f]
	return ok
}

// Run executa o transformador do formato sobre as abas carregadas.
func Run(f Format, sheets []workbook.Sheet) (*Result, error) {
	fn, ok := registry[f]
	if !ok {
		return nil, fmt.Errorf("formato de transformação desconhecido: %q", f)
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("nenhuma planilha carregada para o formato %q", f)
	}
	return fn(sheets)
}

func stats(original, final int) domain.Stats {
	return domain.Stats{
		LinhasOriginal:  original,
		LinhasFinal:     final,
		LinhasRemovidas: original - final,
	}
}
