package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ferreirogomes/fatia/models"
)

// MemDB é uma implementação de Store inteiramente em memória.
// Usada nos testes e na execução local sem DATABASE_URL configurada.
// As tabelas são mapas indexados por ID, com os bens aninhados por
// empreendimento, espelhando o layout do banco.
type MemDB struct {
	mu          sync.RWMutex
	enterprises map[string]models.Enterprise
	assets      map[string]map[string]models.Asset // enterpriseID -> assetID -> Asset
	investors   map[string]models.Investor
	holdings    map[string]map[string]int64 // enterpriseID+"/"+assetID -> investorID -> cotas
	investments []models.Investment
}

// NewMemDB cria um MemDB vazio.
func NewMemDB() *MemDB {
	return &MemDB{
		enterprises: make(map[string]models.Enterprise),
		assets:      make(map[string]map[string]models.Asset),
		investors:   make(map[string]models.Investor),
		holdings:    make(map[string]map[string]int64),
	}
}

func holdingKey(enterpriseID, assetID string) string {
	return enterpriseID + "/" + assetID
}

func (m *MemDB) SaveEnterprise(e models.Enterprise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enterprises[e.ID] = e
	return nil
}

func (m *MemDB) GetEnterprise(id string) (models.Enterprise, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, found := m.enterprises[id]
	return e, found, nil
}

func (m *MemDB) GetEnterpriseByMintAddress(mintAddress string) (models.Enterprise, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.enterprises {
		if e.MintAddress != "" && e.MintAddress == mintAddress {
			return e, true, nil
		}
	}
	return models.Enterprise{}, false, nil
}

func (m *MemDB) SaveAsset(a models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.assets[a.EnterpriseID]
	if !ok {
		byID = make(map[string]models.Asset)
		m.assets[a.EnterpriseID] = byID
	}
	byID[a.ID] = a
	return nil
}

func (m *MemDB) GetAsset(enterpriseID, assetID string) (models.Asset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, found := m.assets[enterpriseID][assetID]
	return a, found, nil
}

func (m *MemDB) GetAssetByMintAddress(mintAddress string) (models.Asset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, byID := range m.assets {
		for _, a := range byID {
			if a.MintAddress != "" && a.MintAddress == mintAddress {
				return a, true, nil
			}
		}
	}
	return models.Asset{}, false, nil
}

func (m *MemDB) ListAssetsByEnterprise(enterpriseID string) ([]models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	assets := []models.Asset{}
	for _, a := range m.assets[enterpriseID] {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].CreatedAt.Before(assets[j].CreatedAt) })
	return assets, nil
}

func (m *MemDB) SaveInvestor(inv models.Investor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investors[inv.ID] = inv
	return nil
}

func (m *MemDB) GetInvestor(id string) (models.Investor, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, found := m.investors[id]
	return inv, found, nil
}

func (m *MemDB) GetHolding(enterpriseID, assetID, investorID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holdings[holdingKey(enterpriseID, assetID)][investorID], nil
}

func (m *MemDB) ListHoldings(enterpriseID, assetID string) ([]models.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	holdings := []models.Holding{}
	for investorID, shares := range m.holdings[holdingKey(enterpriseID, assetID)] {
		holdings = append(holdings, models.Holding{
			EnterpriseID: enterpriseID,
			AssetID:      assetID,
			InvestorID:   investorID,
			Shares:       shares,
		})
	}
	return holdings, nil
}

// ApplyInvestment aplica contador, posição e histórico sob o mesmo lock.
func (m *MemDB) ApplyInvestment(inv models.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Tudo ou nada: sem a entidade alvo, nada é gravado.
	if inv.AssetID == "" {
		e, ok := m.enterprises[inv.EnterpriseID]
		if !ok {
			return fmt.Errorf("empreendimento %s não existe", inv.EnterpriseID)
		}
		e.SharesSold += inv.Shares
		m.enterprises[inv.EnterpriseID] = e
	} else {
		a, ok := m.assets[inv.EnterpriseID][inv.AssetID]
		if !ok {
			return fmt.Errorf("bem %s do empreendimento %s não existe", inv.AssetID, inv.EnterpriseID)
		}
		a.SharesSold += inv.Shares
		m.assets[inv.EnterpriseID][inv.AssetID] = a
	}

	key := holdingKey(inv.EnterpriseID, inv.AssetID)
	byInvestor, ok := m.holdings[key]
	if !ok {
		byInvestor = make(map[string]int64)
		m.holdings[key] = byInvestor
	}
	byInvestor[inv.InvestorID] += inv.Shares

	m.investments = append(m.investments, inv)
	return nil
}

func (m *MemDB) ListInvestmentsByEnterprise(enterpriseID string) ([]models.Investment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	investments := []models.Investment{}
	for _, inv := range m.investments {
		if inv.EnterpriseID == enterpriseID {
			investments = append(investments, inv)
		}
	}
	return investments, nil
}

func (m *MemDB) FindUnconfirmedInvestment(enterpriseID, assetID string, shares int64) (models.Investment, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.investments {
		if inv.EnterpriseID == enterpriseID && inv.AssetID == assetID &&
			inv.Shares == shares && inv.TransactionID == "" {
			return inv, true, nil
		}
	}
	return models.Investment{}, false, nil
}

func (m *MemDB) UpdateInvestmentTransaction(investmentID, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.investments {
		if m.investments[i].ID == investmentID {
			m.investments[i].TransactionID = transactionID
			return nil
		}
	}
	return nil
}
