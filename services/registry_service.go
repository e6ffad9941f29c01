package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ferreirogomes/fatia/models"
	"github.com/ferreirogomes/fatia/storage"

	"github.com/google/uuid"
)

// RegistryService cadastra empreendimentos e os bens aninhados neles.
// Depois de criadas, as entidades nunca são alteradas estruturalmente:
// apenas shares_sold e as posições mudam, e só pelo InvestmentService.
type RegistryService struct {
	Store   storage.Store
	SolanaS SolanaService // nil desativa o espelho on-chain
}

// NewRegistryService cria uma nova instância do serviço de cadastro.
func NewRegistryService(store storage.Store, solanaS SolanaService) *RegistryService {
	return &RegistryService{Store: store, SolanaS: solanaS}
}

// CreateEnterprise valida e persiste um novo empreendimento com zero
// cotas vendidas e livro de investidores vazio.
func (s *RegistryService) CreateEnterprise(name string, totalShares int64, pricePerShare float64) (models.Enterprise, error) {
	if strings.TrimSpace(name) == "" {
		return models.Enterprise{}, fmt.Errorf("nome do empreendimento é obrigatório: %w", ErrInvalidArgument)
	}
	if totalShares <= 0 {
		return models.Enterprise{}, fmt.Errorf("quantidade de cotas deve ser positiva: %w", ErrInvalidArgument)
	}
	if pricePerShare <= 0 {
		return models.Enterprise{}, fmt.Errorf("preço por cota deve ser positivo: %w", ErrInvalidArgument)
	}

	enterprise := models.Enterprise{
		ID:            uuid.New().String(),
		Name:          name,
		TotalShares:   totalShares,
		SharesSold:    0,
		PricePerShare: pricePerShare,
		MintAddress:   s.mirrorMint(totalShares),
		CreatedAt:     time.Now(),
	}

	if err := s.Store.SaveEnterprise(enterprise); err != nil {
		return models.Enterprise{}, err
	}
	return enterprise, nil
}

// GetEnterprise busca um empreendimento. Ausência não é erro.
func (s *RegistryService) GetEnterprise(id string) (models.Enterprise, bool, error) {
	return s.Store.GetEnterprise(id)
}

// RegisterAsset valida e persiste um bem dentro do empreendimento dono.
// O valor por cota é derivado aqui (valor declarado / total de cotas,
// divisão real) e nunca recalculado depois.
func (s *RegistryService) RegisterAsset(enterpriseID, name string, declaredValue float64, totalShares int64) (models.Asset, error) {
	_, found, err := s.Store.GetEnterprise(enterpriseID)
	if err != nil {
		return models.Asset{}, err
	}
	if !found {
		return models.Asset{}, fmt.Errorf("empreendimento %s: %w", enterpriseID, ErrNotFound)
	}

	if strings.TrimSpace(name) == "" {
		return models.Asset{}, fmt.Errorf("nome do bem é obrigatório: %w", ErrInvalidArgument)
	}
	if declaredValue <= 0 {
		return models.Asset{}, fmt.Errorf("valor declarado deve ser positivo: %w", ErrInvalidArgument)
	}
	if totalShares <= 0 {
		return models.Asset{}, fmt.Errorf("quantidade de cotas deve ser positiva: %w", ErrInvalidArgument)
	}

	asset := models.Asset{
		ID:            uuid.New().String(),
		EnterpriseID:  enterpriseID,
		Name:          name,
		DeclaredValue: declaredValue,
		TotalShares:   totalShares,
		SharesSold:    0,
		ValuePerShare: declaredValue / float64(totalShares),
		MintAddress:   s.mirrorMint(totalShares),
		CreatedAt:     time.Now(),
	}

	if err := s.Store.SaveAsset(asset); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

// GetAsset busca um bem em dois níveis. Ausência de qualquer chave não é erro.
func (s *RegistryService) GetAsset(enterpriseID, assetID string) (models.Asset, bool, error) {
	return s.Store.GetAsset(enterpriseID, assetID)
}

// ListAssets lista os bens de um empreendimento existente.
func (s *RegistryService) ListAssets(enterpriseID string) ([]models.Asset, error) {
	_, found, err := s.Store.GetEnterprise(enterpriseID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("empreendimento %s: %w", enterpriseID, ErrNotFound)
	}
	return s.Store.ListAssetsByEnterprise(enterpriseID)
}

// mirrorMint cria o mint SPL espelhando as cotas da entidade. Falha no
// espelho não impede o cadastro: o registro interno é a fonte de verdade
// e o listener reconcilia depois.
func (s *RegistryService) mirrorMint(totalShares int64) string {
	if s.SolanaS == nil {
		return ""
	}
	mint, err := s.SolanaS.CreateShareMint(uint64(totalShares))
	if err != nil {
		log.Printf("Falha ao criar mint espelho na Solana (prosseguindo sem espelho): %v", err)
		return ""
	}
	return mint.String()
}
