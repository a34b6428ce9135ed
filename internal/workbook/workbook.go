// Package workbook isola a leitura e escrita de arquivos Excel: .xlsx via
// excelize (com desmesclagem de regiões), .xls legado via xlsReader, e a
// montagem do arquivo de saída com formatos numéricos.
package workbook

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

// Sheet é uma aba carregada: nome + matriz de células.
type Sheet struct {
	Name string
	Data matrix.Matrix
}

// LoadOptions controla o modo de leitura. Raw entrega valores como
// armazenados (números tipados, datas como serial); sem Raw os valores vêm
// formatados como o Excel exibiria.
type LoadOptions struct {
	Raw bool
}

var reNumeric = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ---------------------- leitura ----------------------

// Load carrega todas as abas de um arquivo .xlsx/.xlsm/.xls. Regiões
// mescladas do .xlsx são preenchidas com o valor da célula superior-esquerda
// em todas as posições da região.
func Load(file io.Reader, filename string, opts LoadOptions) ([]Sheet, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo %s: %w", filename, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err == nil {
		defer f.Close()
		return loadXLSX(f, opts)
	}

	// tenta xls legado
	if strings.EqualFold(filepath.Ext(filename), ".xls") {
		wb, errXLS := xls.OpenReader(bytes.NewReader(data))
		if errXLS == nil {
			return loadXLS(wb, opts), nil
		}
		return nil, fmt.Errorf("erro ao abrir %s como .xls: %w", filename, errXLS)
	}

	return nil, fmt.Errorf("formato de planilha não suportado em %s: %w", filename, err)
}

// LoadFirstSheet carrega apenas a primeira aba.
func LoadFirstSheet(file io.Reader, filename string, opts LoadOptions) (matrix.Matrix, error) {
	sheets, err := Load(file, filename, opts)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("arquivo %s não contém planilhas", filename)
	}
	return sheets[0].Data, nil
}

func loadXLSX(f *excelize.File, opts LoadOptions) ([]Sheet, error) {
	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: opts.Raw})
		if err != nil {
			continue
		}

		m := make(matrix.Matrix, len(rows))
		for r, row := range rows {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = convertCell(v, opts.Raw)
			}
			m[r] = cells
		}

		// Desmesclar: replicar o valor da célula superior-esquerda em toda a região
		merged, err := f.GetMergeCells(name)
		if err == nil {
			for _, mc := range merged {
				c1, r1, err1 := excelize.CellNameToCoordinates(mc.GetStartAxis())
				c2, r2, err2 := excelize.CellNameToCoordinates(mc.GetEndAxis())
				if err1 != nil || err2 != nil {
					continue
				}
				topLeft := matrix.SafeGet(m, r1-1, c1-1)
				if matrix.IsEmptyCell(topLeft) {
					continue
				}
				for r := r1 - 1; r <= r2-1; r++ {
					for c := c1 - 1; c <= c2-1; c++ {
						matrix.SafeSet(&m, r, c, topLeft)
					}
				}
			}
		}

		sheets = append(sheets, Sheet{Name: name, Data: matrix.NormalizeMatrix(m)})
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("o arquivo não contém planilhas legíveis")
	}
	return sheets, nil
}

func loadXLS(wb xls.Workbook, opts LoadOptions) []Sheet {
	var sheets []Sheet
	for i := range wb.GetSheets() {
		sheet, err := wb.GetSheet(i)
		if err != nil {
			continue
		}
		var m matrix.Matrix
		for _, row := range sheet.GetRows() {
			var cells []any
			for _, cell := range row.GetCols() {
				cells = append(cells, convertCell(cell.GetString(), opts.Raw))
			}
			m = append(m, cells)
		}
		sheets = append(sheets, Sheet{Name: sheet.GetName(), Data: matrix.NormalizeMatrix(m)})
	}
	return sheets
}

// convertCell tipa o valor bruto: em modo raw, texto numérico vira float64
// (datas seriais inclusas); fora dele tudo permanece string.
func convertCell(v string, raw bool) any {
	if v == "" {
		return nil
	}
	if raw && reNumeric.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

// ---------------------- escrita ----------------------

// OutputSheet é uma aba a gravar. PercentCols lista nomes de colunas cujas
// células de dados recebem o formato "0.00%".
type OutputSheet struct {
	Name        string
	Data        matrix.Matrix
	PercentCols []string
}

// Write monta o arquivo .xlsx de saída com as abas na ordem dada.
func Write(sheets []OutputSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	percentStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("0.00%")})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar estilo percentual: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet.Name)
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("erro ao criar aba %s: %w", sheet.Name, err)
			}
		}

		for r, row := range sheet.Data {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					continue
				}
				if err := f.SetCellValue(sheet.Name, axis, v); err != nil {
					return nil, fmt.Errorf("erro ao escrever célula %s em %s: %w", axis, sheet.Name, err)
				}
			}
		}

		if len(sheet.PercentCols) > 0 && len(sheet.Data) > 1 {
			for _, colName := range sheet.PercentCols {
				colIdx := matrix.FindColumnExact(sheet.Data[0], colName)
				if colIdx < 0 {
					continue
				}
				start, err1 := excelize.CoordinatesToCellName(colIdx+1, 2)
				end, err2 := excelize.CoordinatesToCellName(colIdx+1, len(sheet.Data))
				if err1 != nil || err2 != nil {
					continue
				}
				if err := f.SetCellStyle(sheet.Name, start, end, percentStyle); err != nil {
					return nil, fmt.Errorf("erro ao aplicar formato percentual em %s: %w", sheet.Name, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar planilha de saída: %w", err)
	}
	return buf.Bytes(), nil
}

func strPtr(s string) *string { return &s }
