package services_test

import (
	"errors"
	"testing"

	"github.com/ferreirogomes/fatia/models"
	"github.com/ferreirogomes/fatia/services"
	"github.com/ferreirogomes/fatia/storage"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSolanaService é uma implementação mock de services.SolanaService.
type MockSolanaService struct {
	mock.Mock
}

func (m *MockSolanaService) CreateShareMint(totalShares uint64) (solana.PublicKey, error) {
	args := m.Called(totalShares)
	return args.Get(0).(solana.PublicKey), args.Error(1)
}

func (m *MockSolanaService) MintSharesTo(mintAddress, ownerPubKey solana.PublicKey, shares uint64) (solana.Signature, error) {
	args := m.Called(mintAddress, ownerPubKey, shares)
	return args.Get(0).(solana.Signature), args.Error(1)
}

func (m *MockSolanaService) GetTokenSupply(mintAddress solana.PublicKey) (uint64, error) {
	args := m.Called(mintAddress)
	return args.Get(0).(uint64), args.Error(1)
}

// newRegisteredInvestor cadastra um investidor com chave pública Solana e
// devolve o ID dele.
func newRegisteredInvestor(t *testing.T, mem *storage.MemDB, solanaPubKey string) string {
	t.Helper()
	investor := models.Investor{
		ID:           "inv-solana",
		Name:         "Investidor Teste",
		Email:        "investidor@teste.com",
		SolanaPubKey: solanaPubKey,
	}
	require.NoError(t, mem.SaveInvestor(investor))
	return investor.ID
}

// TestCreateEnterprise_Validation rejeita nome vazio e valores não positivos.
func TestCreateEnterprise_Validation(t *testing.T) {
	registry := services.NewRegistryService(storage.NewMemDB(), nil)

	_, err := registry.CreateEnterprise("", 100, 10)
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	_, err = registry.CreateEnterprise("   ", 100, 10)
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	_, err = registry.CreateEnterprise("Cafe", 0, 10)
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	_, err = registry.CreateEnterprise("Cafe", -5, 10)
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	_, err = registry.CreateEnterprise("Cafe", 100, 0)
	require.ErrorIs(t, err, services.ErrInvalidArgument)
}

// TestCreateEnterprise_Success verifica o estado inicial e IDs frescos.
func TestCreateEnterprise_Success(t *testing.T) {
	registry := services.NewRegistryService(storage.NewMemDB(), nil)

	first, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Zero(t, first.SharesSold)
	assert.Equal(t, int64(100), first.TotalShares)
	assert.Equal(t, float64(10), first.PricePerShare)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "cada cadastro precisa de um ID fresco")

	got, found, err := registry.GetEnterprise(first.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first.ID, got.ID)
}

// TestRegisterAsset_Validation cobre empreendimento inexistente e campos inválidos.
func TestRegisterAsset_Validation(t *testing.T) {
	registry := services.NewRegistryService(storage.NewMemDB(), nil)

	_, err := registry.RegisterAsset("missing-id", "Forno", 5000, 100)
	require.ErrorIs(t, err, services.ErrNotFound)

	enterprise, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)

	_, err = registry.RegisterAsset(enterprise.ID, "", 5000, 100)
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	_, err = registry.RegisterAsset(enterprise.ID, "Forno", 0, 100)
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	_, err = registry.RegisterAsset(enterprise.ID, "Forno", 5000, 0)
	require.ErrorIs(t, err, services.ErrInvalidArgument)
}

// TestRegisterAsset_DerivedValue verifica a derivação por divisão real,
// inclusive com resultado fracionário.
func TestRegisterAsset_DerivedValue(t *testing.T) {
	registry := services.NewRegistryService(storage.NewMemDB(), nil)

	enterprise, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)

	oven, err := registry.RegisterAsset(enterprise.ID, "Oven", 5000, 100)
	require.NoError(t, err)
	assert.Equal(t, float64(50), oven.ValuePerShare)
	assert.Equal(t, enterprise.ID, oven.EnterpriseID)
	assert.Zero(t, oven.SharesSold)

	grinder, err := registry.RegisterAsset(enterprise.ID, "Moedor", 1000, 3)
	require.NoError(t, err)
	assert.InDelta(t, 333.333, grinder.ValuePerShare, 0.001)

	got, found, err := registry.GetAsset(enterprise.ID, oven.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, oven.ID, got.ID)

	assets, err := registry.ListAssets(enterprise.ID)
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}

// TestCreateEnterprise_SolanaMirror verifica que o mint espelho é criado
// com a emissão total e gravado no cadastro.
func TestCreateEnterprise_SolanaMirror(t *testing.T) {
	mockSolanaS := new(MockSolanaService)
	registry := services.NewRegistryService(storage.NewMemDB(), mockSolanaS)

	mintAddr := solana.NewWallet().PublicKey()
	mockSolanaS.On("CreateShareMint", uint64(100)).Return(mintAddr, nil).Once()

	enterprise, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)
	assert.Equal(t, mintAddr.String(), enterprise.MintAddress)

	mockSolanaS.AssertExpectations(t)
}

// TestCreateEnterprise_SolanaMirrorFailure: falha on-chain não impede o
// cadastro; a entidade nasce sem espelho.
func TestCreateEnterprise_SolanaMirrorFailure(t *testing.T) {
	mockSolanaS := new(MockSolanaService)
	registry := services.NewRegistryService(storage.NewMemDB(), mockSolanaS)

	mockSolanaS.On("CreateShareMint", uint64(100)).
		Return(solana.PublicKey{}, errors.New("rpc indisponível")).Once()

	enterprise, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)
	assert.Empty(t, enterprise.MintAddress)

	mockSolanaS.AssertExpectations(t)
}

// TestInvestment_SolanaMirrorMint: investidor cadastrado com chave pública
// recebe as cotas cunhadas na Solana após o commit.
func TestInvestment_SolanaMirrorMint(t *testing.T) {
	mem := storage.NewMemDB()
	mockSolanaS := new(MockSolanaService)
	registry := services.NewRegistryService(mem, mockSolanaS)
	investment := services.NewInvestmentService(mem, mockSolanaS)

	mintAddr := solana.NewWallet().PublicKey()
	investorWallet := solana.NewWallet()
	mockSolanaS.On("CreateShareMint", uint64(100)).Return(mintAddr, nil).Once()
	mockSolanaS.On("MintSharesTo", mintAddr, investorWallet.PublicKey(), uint64(10)).
		Return(solana.Signature{}, nil).Once()

	enterprise, err := registry.CreateEnterprise("Cafe", 100, 10)
	require.NoError(t, err)

	investor := newRegisteredInvestor(t, mem, investorWallet.PublicKey().String())

	inv, err := investment.InvestInEnterprise(enterprise.ID, investor, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.Shares)

	mockSolanaS.AssertExpectations(t)
}
