// Package crossref implementa o motor de cruzamento dos relatórios SIGEF já
// transformados: lookups chave→valores com política "última linha prevalece",
// as fases de enriquecimento (retenções, credores, balancete, detalhamento,
// Simples Nacional), a auto-detecção de papéis por nome de arquivo e o
// orquestrador que produz o workbook final de 5 abas.
package crossref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cebdast/SEGIF-CARUARU/internal/matrix"
)

var reBeforeHyphen = regexp.MustCompile(`^\s*(\d+)\s*-`)

// ExtractBeforeHyphen extrai o código numérico antes do hífen
// ("123 - Manutenção predial" vira "123"). Sem hífen, devolve o valor inteiro.
func ExtractBeforeHyphen(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(matrix.CellString(v))
	if m := reBeforeHyphen.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ExtractAfterHyphen extrai o texto depois do primeiro hífen
// ("123 - Manutenção predial" vira "Manutenção predial").
func ExtractAfterHyphen(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(matrix.CellString(v))
	if idx := strings.Index(s, "-"); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return ""
}

// OnlyDigits remove tudo que não for dígito ("12.345.678/0001-90" vira
// "12345678000190").
func OnlyDigits(v any) string {
	return matrix.ExtractDigits(v)
}

// NormKey normaliza uma chave de junção: texto com trim.
func NormKey(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(matrix.CellString(v))
}

// parseFloatLoose interpreta o maior prefixo numérico de um texto com vírgula
// decimal ("12,5 restante" vira 12.5). Números tipados passam direto.
func parseFloatLoose(v any) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	s := strings.Replace(strings.TrimSpace(matrix.CellString(v)), ",", ".", 1)
	end := 0
	seenDot := false
	seenDigit := false
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			end = i + 1
			continue
		}
		if r >= '0' && r <= '9' {
			seenDigit = true
			end = i + 1
			continue
		}
		if r == '.' && !seenDot {
			seenDot = true
			end = i + 1
			continue
		}
		break
	}
	if !seenDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
