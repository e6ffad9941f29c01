package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config reúne as variáveis de ambiente do serviço.
// Sem DATABASE_URL o serviço roda com armazenamento em memória;
// sem as variáveis Solana o espelho on-chain fica desligado.
type Config struct {
	Port                     string `env:"PORT" envDefault:"8080"`
	DatabaseURL              string `env:"DATABASE_URL"`
	SolanaRPCURL             string `env:"SOLANA_RPC_URL"`
	SolanaWSURL              string `env:"SOLANA_WS_URL"`
	SolanaFeePayerPrivateKey string `env:"SOLANA_FEE_PAYER_PRIVATE_KEY"`
}

// LoadConfig lê a configuração do ambiente.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("falha ao ler configuração do ambiente: %w", err)
	}
	return cfg, nil
}
