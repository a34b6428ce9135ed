package matrix

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ---------------------- Normalização de texto ----------------------

var textNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText normaliza texto para comparação: trim, minúsculas e remoção
// de acentos (NFD + remoção de marcas combinantes).
func NormalizeText(v any) string {
	if IsEmptyCell(v) {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(CellString(v)))
	if out, _, err := transform.String(textNormalizer, s); err == nil {
		return out
	}
	return s
}

// ---------------------- Valores monetários brasileiros ----------------------

// ParseBRFloat interpreta valores no formato brasileiro ("R$ 1.234,56",
// "1234,56", "30.000") e devolve 0 para conteúdo não numérico. Números já
// tipados passam direto.
func ParseBRFloat(v any) float64 {
	if v == nil {
		return 0
	}
	if f, ok := v.(float64); ok {
		return f
	}
	s := strings.TrimSpace(CellString(v))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma > dot:
		// Formato brasileiro: 1.234,56 (ponto milhar, vírgula decimal)
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		// Apenas vírgula: 1234,56
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0:
		// Possível separador de milhar: 30.000 (sem decimais)
		parts := strings.Split(s, ".")
		if len(parts) == 2 && len(parts[1]) > 2 {
			s = strings.Replace(s, ".", "", 1)
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Round2 arredonda para 2 casas decimais (meio para cima).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ---------------------- Datas seriais do Excel ----------------------

var (
	reDateBR  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	reDateISO = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// ExcelDateToString converte um serial de data do Excel para "DD/MM/AAAA".
// Strings já em DD/MM/AAAA passam intactas; strings ISO (AAAA-MM-DD...) são
// reformatadas; qualquer outro conteúdo volta sem alteração.
//
// O serial 1 corresponde a 01/01/1900, mas o Excel considera 1900 bissexto
// (serial 60 = 29/02/1900, inexistente). Por isso o offset para a época Unix
// é 25569 para seriais acima de 60 e 25568 até 60.
func ExcelDateToString(v any) any {
	if s, ok := v.(string); ok {
		if reDateBR.MatchString(s) {
			return s
		}
		if reDateISO.MatchString(s) {
			p := strings.Split(strings.Split(s, "T")[0], "-")
			return p[2] + "/" + p[1] + "/" + p[0]
		}
		return v
	}
	serial, ok := v.(float64)
	if !ok || serial <= 0 || serial >= 100000 {
		return v
	}
	adjust := 25568.0
	if serial > 60 {
		adjust = 25569.0
	}
	sec := (serial - adjust) * 86400
	t := time.Unix(int64(math.Round(sec)), 0).UTC()
	return t.Format("02/01/2006")
}
