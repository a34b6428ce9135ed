package matrix

import (
	"fmt"
	"strings"
)

// ---------------------- ColTracker ----------------------

// ColTracker mapeia nomes de cabeçalho para índices de coluna e acompanha
// inserções, remoções e renomeações feitas durante uma transformação.
// Cabeçalhos vazios recebem nomes sintéticos "_empty_N".
type ColTracker struct {
	names []string
}

// NewColTracker cria o rastreador a partir da linha de cabeçalho.
func NewColTracker(headerRow []any) *ColTracker {
	names := make([]string, 0, len(headerRow))
	emptyCount := 0
	for _, raw := range headerRow {
		s := strings.TrimSpace(CellString(raw))
		if s == "" {
			names = append(names, fmt.Sprintf("_empty_%d", emptyCount))
			emptyCount++
		} else {
			names = append(names, s)
		}
	}
	return &ColTracker{names: names}
}

func (ct *ColTracker) findIndex(name string) int {
	target := strings.ToLower(strings.TrimSpace(name))
	for i, n := range ct.names {
		if strings.ToLower(strings.TrimSpace(n)) == target {
			return i
		}
	}
	return -1
}

// Idx devolve o índice atual da coluna (case-insensitive). Erro descritivo
// com as colunas disponíveis quando não encontrada.
func (ct *ColTracker) Idx(name string) (int, error) {
	i := ct.findIndex(name)
	if i == -1 {
		return -1, fmt.Errorf("coluna %q não encontrada; colunas disponíveis: [%s]",
			name, strings.Join(ct.names, ", "))
	}
	return i, nil
}

// TryIdx devolve o índice ou -1, sem erro.
func (ct *ColTracker) TryIdx(name string) int {
	return ct.findIndex(name)
}

// IdxOf devolve o índice do primeiro nome encontrado dentre os candidatos.
func (ct *ColTracker) IdxOf(names ...string) (int, error) {
	for _, name := range names {
		if i := ct.findIndex(name); i != -1 {
			return i, nil
		}
	}
	return -1, fmt.Errorf("nenhuma coluna encontrada dentre [%s]; colunas disponíveis: [%s]",
		strings.Join(names, ", "), strings.Join(ct.names, ", "))
}

// InsertAt registra a inserção de uma coluna na posição indicada.
func (ct *ColTracker) InsertAt(index int, name string) {
	if name == "" {
		name = fmt.Sprintf("_ins_%d", index)
	}
	if index < 0 {
		index = 0
	}
	if index > len(ct.names) {
		index = len(ct.names)
	}
	ct.names = append(ct.names, "")
	copy(ct.names[index+1:], ct.names[index:])
	ct.names[index] = name
}

// Remove registra a remoção de uma coluna pelo nome e devolve o índice
// removido.
func (ct *ColTracker) Remove(name string) (int, error) {
	i := ct.findIndex(name)
	if i == -1 {
		return -1, fmt.Errorf("coluna %q não encontrada para remoção", name)
	}
	ct.RemoveAt(i)
	return i, nil
}

// RemoveAt registra a remoção de uma coluna pelo índice.
func (ct *ColTracker) RemoveAt(index int) {
	if index >= 0 && index < len(ct.names) {
		ct.names = append(ct.names[:index], ct.names[index+1:]...)
	}
}

// Rename renomeia uma coluna, se existir.
func (ct *ColTracker) Rename(oldName, newName string) {
	if i := ct.findIndex(oldName); i != -1 {
		ct.names[i] = newName
	}
}

// NameAt devolve o nome da coluna no índice, ou "".
func (ct *ColTracker) NameAt(index int) string {
	if index >= 0 && index < len(ct.names) {
		return ct.names[index]
	}
	return ""
}

// Names devolve uma cópia dos nomes atuais.
func (ct *ColTracker) Names() []string {
	return append([]string(nil), ct.names...)
}

// Len devolve a quantidade de colunas rastreadas.
func (ct *ColTracker) Len() int {
	return len(ct.names)
}

// ---------------------- Wrappers matrix + tracker ----------------------

// TrackedDeleteCol deleta uma coluna por nome, atualizando matriz e tracker.
func TrackedDeleteCol(m Matrix, ct *ColTracker, name string) error {
	idx, err := ct.Idx(name)
	if err != nil {
		return err
	}
	DeleteColumn(m, idx)
	ct.RemoveAt(idx)
	return nil
}

// TrackedDeleteAt deleta uma coluna por índice, atualizando matriz e tracker.
func TrackedDeleteAt(m Matrix, ct *ColTracker, index int) {
	DeleteColumn(m, index)
	ct.RemoveAt(index)
}

// TrackedInsertCol insere uma coluna vazia na posição, atualizando matriz,
// tracker e cabeçalho.
func TrackedInsertCol(m Matrix, ct *ColTracker, position int, name string) {
	InsertColumn(m, position)
	ct.InsertAt(position, name)
	if len(m) > 0 {
		SafeSet(&m, 0, position, name)
	}
}
