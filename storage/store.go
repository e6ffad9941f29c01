package storage

import "github.com/ferreirogomes/fatia/models"

// Ambas as implementações precisam satisfazer o contrato.
var (
	_ Store = (*DB)(nil)
	_ Store = (*MemDB)(nil)
)

// Store é o contrato de persistência usado pelos serviços.
// Implementado por DB (PostgreSQL) e por MemDB (memória, para testes
// e execução local sem banco).
type Store interface {
	SaveEnterprise(e models.Enterprise) error
	GetEnterprise(id string) (models.Enterprise, bool, error)
	GetEnterpriseByMintAddress(mintAddress string) (models.Enterprise, bool, error)

	SaveAsset(a models.Asset) error
	GetAsset(enterpriseID, assetID string) (models.Asset, bool, error)
	GetAssetByMintAddress(mintAddress string) (models.Asset, bool, error)
	ListAssetsByEnterprise(enterpriseID string) ([]models.Asset, error)

	SaveInvestor(inv models.Investor) error
	GetInvestor(id string) (models.Investor, bool, error)

	// GetHolding retorna a posição acumulada; ausência vale zero, não é erro.
	GetHolding(enterpriseID, assetID, investorID string) (int64, error)
	ListHoldings(enterpriseID, assetID string) ([]models.Holding, error)

	// ApplyInvestment aplica um aporte aceito de forma atômica:
	// incrementa shares_sold da entidade alvo, credita a posição do
	// investidor e grava o histórico — tudo ou nada.
	ApplyInvestment(inv models.Investment) error
	ListInvestmentsByEnterprise(enterpriseID string) ([]models.Investment, error)
	FindUnconfirmedInvestment(enterpriseID, assetID string, shares int64) (models.Investment, bool, error)
	UpdateInvestmentTransaction(investmentID, transactionID string) error
}
