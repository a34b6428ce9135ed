// Package config carrega a configuração do serviço a partir do ambiente,
// com .env opcional para desenvolvimento local.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config reúne as variáveis de ambiente do serviço (prefixo SEGIF_).
type Config struct {
	Port    string `envconfig:"PORT" default:"8083"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`
	OutDir  string `envconfig:"OUT_DIR" default:"."`
}

// Load lê o .env (se existir) e o ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("segif", &cfg); err != nil {
		return nil, fmt.Errorf("erro ao carregar configuração: %w", err)
	}
	return &cfg, nil
}
