package models

import "time"

// Asset representa um bem pertencente a um empreendimento, também vendido em cotas.
type Asset struct {
	ID            string    `db:"id" json:"id"`
	EnterpriseID  string    `db:"enterprise_id" json:"enterprise_id"` // Empreendimento dono deste bem
	Name          string    `db:"name" json:"name"`                   // Ex: "Forno industrial"
	DeclaredValue float64   `db:"declared_value" json:"declared_value"`
	TotalShares   int64     `db:"total_shares" json:"total_shares"`
	SharesSold    int64     `db:"shares_sold" json:"shares_sold"`
	ValuePerShare float64   `db:"value_per_share" json:"value_per_share"` // declared_value / total_shares, calculado no registro
	MintAddress   string    `db:"mint_address" json:"mint_address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Capacity retorna quantas cotas ainda podem ser vendidas.
func (a Asset) Capacity() int64 {
	return a.TotalShares - a.SharesSold
}
