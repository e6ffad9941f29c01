package models

// Holding é a posição acumulada de um investidor em uma entidade.
// AssetID vazio indica posição no próprio empreendimento.
type Holding struct {
	EnterpriseID string `db:"enterprise_id" json:"enterprise_id"`
	AssetID      string `db:"asset_id" json:"asset_id,omitempty"`
	InvestorID   string `db:"investor_id" json:"investor_id"`
	Shares       int64  `db:"shares" json:"shares"`
}
