package models

import "time"

// Investment registra um aporte aceito: valor recebido, cotas compradas
// e, quando o espelho on-chain está ativo, a transação Solana que o confirmou.
type Investment struct {
	ID            string    `db:"id" json:"id"`
	EnterpriseID  string    `db:"enterprise_id" json:"enterprise_id"`
	AssetID       string    `db:"asset_id" json:"asset_id,omitempty"` // Vazio para aporte no empreendimento
	InvestorID    string    `db:"investor_id" json:"investor_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Shares        int64     `db:"shares" json:"shares"` // floor(amount / preço unitário); o troco é perdido
	TransactionID string    `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
