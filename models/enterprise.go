package models

import "time"

// Enterprise representa um empreendimento cujo capital é dividido em cotas.
type Enterprise struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`                       // Ex: "Cafeteria do Centro"
	TotalShares   int64     `db:"total_shares" json:"total_shares"`       // Quantidade total de cotas emitidas
	SharesSold    int64     `db:"shares_sold" json:"shares_sold"`         // Cotas já vendidas, nunca excede total_shares
	PricePerShare float64   `db:"price_per_share" json:"price_per_share"` // Preço de cada cota
	MintAddress   string    `db:"mint_address" json:"mint_address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Capacity retorna quantas cotas ainda podem ser vendidas.
func (e Enterprise) Capacity() int64 {
	return e.TotalShares - e.SharesSold
}
