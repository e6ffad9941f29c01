package models

import "time"

// Investor representa um investidor cadastrado na plataforma.
// O cadastro só é obrigatório para quem quiser receber o espelho
// on-chain das cotas; os aportes aceitam qualquer identificador.
type Investor struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	SolanaPubKey string    `db:"solana_pub_key" json:"solana_pub_key,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
