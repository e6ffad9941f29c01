package services

import (
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/ferreirogomes/fatia/models"
	"github.com/ferreirogomes/fatia/storage"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// InvestmentService é o motor de alocação de cotas: converte um valor em
// dinheiro em quantidade de cotas, garante que nenhuma entidade venda mais
// do que emitiu e mantém o livro de investidores consistente com o contador
// agregado shares_sold.
type InvestmentService struct {
	Store   storage.Store
	SolanaS SolanaService // nil desativa o espelho on-chain

	// Um mutex por entidade: a sequência ler-validar-gravar não pode
	// rodar intercalada para o mesmo empreendimento ou bem, senão duas
	// compras passam na checagem de capacidade com o mesmo snapshot.
	mu          sync.Mutex
	entityLocks map[string]*sync.Mutex
}

// NewInvestmentService cria uma nova instância do motor de alocação.
func NewInvestmentService(store storage.Store, solanaS SolanaService) *InvestmentService {
	return &InvestmentService{
		Store:       store,
		SolanaS:     solanaS,
		entityLocks: make(map[string]*sync.Mutex),
	}
}

// lockEntity devolve o mutex da entidade, criando-o na primeira compra.
func (s *InvestmentService) lockEntity(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.entityLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.entityLocks[key] = l
	}
	return l
}

// sharesFor converte o valor aportado em cotas por divisão inteira.
// O troco que não cobre uma cota inteira é perdido de propósito:
// não há reembolso nem crédito parcial.
//
// O resultado só vira int64 depois da checagem de capacidade: um quociente
// maior que a capacidade já é rejeitado como float64, porque a conversão
// de um valor fora da faixa do int64 produziria lixo negativo.
func sharesFor(amount, unitPrice, capacity float64) (int64, bool) {
	quotient := math.Floor(amount / unitPrice)
	if quotient > capacity {
		return 0, false
	}
	return int64(quotient), true
}

func validateInvestmentInput(investorID string, amount float64) error {
	if strings.TrimSpace(investorID) == "" {
		return fmt.Errorf("identificador do investidor é obrigatório: %w", ErrInvalidArgument)
	}
	if amount <= 0 {
		return fmt.Errorf("valor do aporte deve ser positivo: %w", ErrInvalidArgument)
	}
	return nil
}

// InvestInEnterprise compra cotas do próprio empreendimento.
func (s *InvestmentService) InvestInEnterprise(enterpriseID, investorID string, amount float64) (models.Investment, error) {
	lock := s.lockEntity(enterpriseID)
	lock.Lock()
	defer lock.Unlock()

	// A entidade é resolvida antes de validar o aporte: id desconhecido
	// responde NotFound mesmo com valor inválido.
	enterprise, found, err := s.Store.GetEnterprise(enterpriseID)
	if err != nil {
		return models.Investment{}, err
	}
	if !found {
		return models.Investment{}, fmt.Errorf("empreendimento %s: %w", enterpriseID, ErrNotFound)
	}

	if err := validateInvestmentInput(investorID, amount); err != nil {
		return models.Investment{}, err
	}

	shares, ok := sharesFor(amount, enterprise.PricePerShare, float64(enterprise.Capacity()))
	if !ok {
		return models.Investment{}, fmt.Errorf("empreendimento %s tem %d cotas disponíveis, aporte de %.2f compraria mais que isso: %w",
			enterpriseID, enterprise.Capacity(), amount, ErrCapacityExceeded)
	}

	investment := models.Investment{
		ID:           uuid.New().String(),
		EnterpriseID: enterpriseID,
		InvestorID:   investorID,
		Amount:       amount,
		Shares:       shares,
		CreatedAt:    time.Now(),
	}
	if err := s.Store.ApplyInvestment(investment); err != nil {
		return models.Investment{}, err
	}

	s.mirrorShares(enterprise.MintAddress, investorID, shares)
	return investment, nil
}

// InvestInAsset compra cotas de um bem do empreendimento. Mesmo algoritmo,
// mudando apenas a entidade alvo e o preço unitário (value_per_share).
func (s *InvestmentService) InvestInAsset(enterpriseID, assetID, investorID string, amount float64) (models.Investment, error) {
	lock := s.lockEntity(enterpriseID + "/" + assetID)
	lock.Lock()
	defer lock.Unlock()

	asset, found, err := s.Store.GetAsset(enterpriseID, assetID)
	if err != nil {
		return models.Investment{}, err
	}
	if !found {
		return models.Investment{}, fmt.Errorf("bem %s do empreendimento %s: %w", assetID, enterpriseID, ErrNotFound)
	}

	if err := validateInvestmentInput(investorID, amount); err != nil {
		return models.Investment{}, err
	}

	shares, ok := sharesFor(amount, asset.ValuePerShare, float64(asset.Capacity()))
	if !ok {
		return models.Investment{}, fmt.Errorf("bem %s tem %d cotas disponíveis, aporte de %.2f compraria mais que isso: %w",
			assetID, asset.Capacity(), amount, ErrCapacityExceeded)
	}

	investment := models.Investment{
		ID:           uuid.New().String(),
		EnterpriseID: enterpriseID,
		AssetID:      assetID,
		InvestorID:   investorID,
		Amount:       amount,
		Shares:       shares,
		CreatedAt:    time.Now(),
	}
	if err := s.Store.ApplyInvestment(investment); err != nil {
		return models.Investment{}, err
	}

	s.mirrorShares(asset.MintAddress, investorID, shares)
	return investment, nil
}

// GetEnterpriseHolding retorna a posição do investidor no empreendimento.
// Investidor (ou empreendimento) desconhecido vale zero, não é erro.
func (s *InvestmentService) GetEnterpriseHolding(enterpriseID, investorID string) (int64, error) {
	return s.Store.GetHolding(enterpriseID, "", investorID)
}

// GetAssetHolding retorna a posição do investidor no bem. Zero se ausente.
func (s *InvestmentService) GetAssetHolding(enterpriseID, assetID, investorID string) (int64, error) {
	return s.Store.GetHolding(enterpriseID, assetID, investorID)
}

// ListInvestments lista o histórico de aportes de um empreendimento existente.
func (s *InvestmentService) ListInvestments(enterpriseID string) ([]models.Investment, error) {
	_, found, err := s.Store.GetEnterprise(enterpriseID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("empreendimento %s: %w", enterpriseID, ErrNotFound)
	}
	return s.Store.ListInvestmentsByEnterprise(enterpriseID)
}

// mirrorShares cunha as cotas compradas na Solana depois do commit durável.
// Best-effort: a fonte de verdade é o banco e o listener reconcilia a
// transação quando ela finalizar. Sem cadastro com chave pública, não há
// o que espelhar.
func (s *InvestmentService) mirrorShares(mintAddress, investorID string, shares int64) {
	if s.SolanaS == nil || mintAddress == "" || shares <= 0 {
		return
	}

	investor, found, err := s.Store.GetInvestor(investorID)
	if err != nil || !found || investor.SolanaPubKey == "" {
		return
	}

	ownerPubKey, err := solana.PublicKeyFromBase58(investor.SolanaPubKey)
	if err != nil {
		log.Printf("Chave pública Solana inválida para investidor %s: %v", investorID, err)
		return
	}

	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		log.Printf("Endereço de mint inválido %s: %v", mintAddress, err)
		return
	}

	if _, err := s.SolanaS.MintSharesTo(mint, ownerPubKey, uint64(shares)); err != nil {
		log.Printf("Falha ao cunhar espelho on-chain para investidor %s (aporte já registrado): %v", investorID, err)
	}
}
