package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaService é o contrato das operações on-chain usadas pelos demais
// serviços. Implementado por SolanaIntegrationService e mockado nos testes.
type SolanaService interface {
	CreateShareMint(totalShares uint64) (solana.PublicKey, error)
	MintSharesTo(mintAddress, ownerPubKey solana.PublicKey, shares uint64) (solana.Signature, error)
	GetTokenSupply(mintAddress solana.PublicKey) (uint64, error)
}

// SolanaIntegrationService espelha as cotas como tokens SPL.
// Cada entidade ganha um mint com 0 casas decimais, de modo que
// 1 token = 1 cota, sem conversão de unidades atômicas.
type SolanaIntegrationService struct {
	RPCClient *rpc.Client
	FeePayer  solana.PrivateKey
}

// NewSolanaIntegrationService cria o serviço a partir do endpoint RPC e da
// chave privada do pagador de taxas (Base58).
func NewSolanaIntegrationService(rpcEndpoint, feePayerKeyBase58 string) (*SolanaIntegrationService, error) {
	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada do Fee Payer: %w", err)
	}
	return &SolanaIntegrationService{
		RPCClient: rpc.New(rpcEndpoint),
		FeePayer:  feePayer,
	}, nil
}

// CreateShareMint cria um novo mint SPL com 0 decimais para representar as
// cotas de uma entidade. A autoridade de cunhagem fica com o FeePayer.
func (s *SolanaIntegrationService) CreateShareMint(totalShares uint64) (solana.PublicKey, error) {
	ctx := context.Background()
	mint := solana.NewWallet()

	recent, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	lamports, err := s.RPCClient.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, rpc.CommitmentFinalized)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao obter rent exemption: %w", err)
	}

	createIx := system.NewCreateAccountInstruction(
		lamports,
		token.MINT_SIZE,
		token.ProgramID,
		s.FeePayer.PublicKey(),
		mint.PublicKey(),
	).Build()

	initIx := token.NewInitializeMintInstruction(
		0, // 0 decimais: 1 token = 1 cota
		s.FeePayer.PublicKey(),
		solana.PublicKey{},
		mint.PublicKey(),
		solana.SysVarRentPubkey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{createIx, initIx},
		recent.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao criar transação de mint: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		if key.Equals(mint.PublicKey()) {
			return &mint.PrivateKey
		}
		return nil
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao assinar transação de mint: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("falha ao enviar transação de mint: %w", err)
	}
	log.Printf("Mint de cotas criado: %s (emissão máxima %d, tx %s)", mint.PublicKey(), totalShares, txID)

	return mint.PublicKey(), nil
}

// MintSharesTo cunha cotas recém-vendidas na ATA do investidor, criando a
// conta associada se for a primeira compra dele nesse mint.
func (s *SolanaIntegrationService) MintSharesTo(mintAddress, ownerPubKey solana.PublicKey, shares uint64) (solana.Signature, error) {
	ctx := context.Background()

	destATA, _, err := solana.FindAssociatedTokenAddress(ownerPubKey, mintAddress)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao derivar ATA do investidor: %w", err)
	}

	recent, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao obter blockhash: %w", err)
	}

	instructions := []solana.Instruction{}

	// ATA inexistente: inclui a instrução de criação na mesma transação.
	_, err = s.RPCClient.GetAccountInfo(ctx, destATA)
	if err != nil {
		createATAIx := associatedtokenaccount.NewCreateInstruction(
			s.FeePayer.PublicKey(),
			ownerPubKey,
			mintAddress,
		).Build()
		instructions = append(instructions, createATAIx)
	}

	mintToIx := token.NewMintToInstruction(
		shares,
		mintAddress,
		destATA,
		s.FeePayer.PublicKey(),
		nil,
	).Build()
	instructions = append(instructions, mintToIx)

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao criar transação de cunhagem: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao assinar transação de cunhagem: %w", err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("falha ao enviar transação de cunhagem: %w", err)
	}
	log.Printf("Cunhadas %d cotas no mint %s para %s (tx %s)", shares, mintAddress, ownerPubKey, txID)

	return txID, nil
}

// GetTokenSupply retorna a emissão corrente de um mint. Como os mints usam
// 0 decimais, o valor já é a quantidade de cotas espelhadas.
func (s *SolanaIntegrationService) GetTokenSupply(mintAddress solana.PublicKey) (uint64, error) {
	resp, err := s.RPCClient.GetTokenSupply(context.Background(), mintAddress, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("falha ao obter emissão do mint: %w", err)
	}
	supply, err := strconv.ParseUint(resp.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("falha ao parsear emissão do mint: %w", err)
	}
	return supply, nil
}
