// package domain/models.go
package domain

// Stats resume o efeito de uma transformação sobre as linhas de dados.
type Stats struct {
	LinhasOriginal  int `json:"linhas_original"`
	LinhasFinal     int `json:"linhas_final"`
	LinhasRemovidas int `json:"linhas_removidas"`
	LinhasBruta     int `json:"linhas_bruta,omitempty"`
	TiposRetencao   int `json:"tipos_retencao,omitempty"`
	TotalAbas       int `json:"total_abas,omitempty"`
}

// RoleScore é a pontuação de um arquivo para um papel do cruzamento.
type RoleScore struct {
	Arquivo string `json:"arquivo"`
	Score   int    `json:"score"`
}

// DetectionResult é o resultado da detecção automática de arquivos:
// papel → arquivo escolhido, faltantes (rótulos) e sugestões aproximadas
// para papéis obrigatórios sem correspondência.
type DetectionResult struct {
	Atribuicoes map[string]RoleScore `json:"atribuicoes"`
	Faltantes   []string             `json:"faltantes"`
	Sugestoes   map[string]string    `json:"sugestoes,omitempty"`
}

// CrossRefStats resume a execução do cruzamento completo.
type CrossRefStats struct {
	Transformacoes map[string]Stats `json:"transformacoes"`
	FasesAplicadas []string         `json:"fases_aplicadas"`
}
