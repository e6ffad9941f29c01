package blockchain_listener

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/ferreirogomes/fatia/storage"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// BlockchainListener escuta a Solana para reconciliar o espelho on-chain
// com o registro interno: quando uma cunhagem de cotas finaliza, o aporte
// correspondente ganha a transação que o confirmou.
type BlockchainListener struct {
	RPCClient  *rpc.Client
	WSClient   *ws.Client
	Store      storage.Store
	FeePayerPK solana.PrivateKey // Assinante das cunhagens; filtra as transações relevantes
}

// NewBlockchainListener cria uma nova instância do listener.
func NewBlockchainListener(rpcEndpoint, wsEndpoint string, store storage.Store, feePayerKeyBase58 string) (*BlockchainListener, error) {
	wsClient, err := ws.Connect(context.Background(), wsEndpoint)
	if err != nil {
		return nil, err
	}

	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, err
	}

	return &BlockchainListener{
		RPCClient:  rpc.New(rpcEndpoint),
		WSClient:   wsClient,
		Store:      store,
		FeePayerPK: feePayer,
	}, nil
}

// StartListening inicia a escuta por transações que mencionam o FeePayer.
func (l *BlockchainListener) StartListening() {
	log.Println("Iniciando listener da blockchain...")

	sub, err := l.WSClient.LogsSubscribeMentions(
		l.FeePayerPK.PublicKey(),
		rpc.CommitmentFinalized,
	)
	if err != nil {
		log.Printf("Falha ao subscrever aos logs: %v", err)
		return
	}
	defer sub.Unsubscribe()

	for {
		got, err := sub.Recv(context.Background())
		if err != nil {
			log.Printf("Erro ao receber notificação de log: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if got.Value.Err != nil {
			log.Printf("Transação %s falhou on-chain: %v", got.Value.Signature, got.Value.Err)
			continue
		}
		l.ProcessTransaction(got.Value.Signature)
	}
}

// ProcessTransaction busca os detalhes de uma transação finalizada e
// reconcilia as instruções de cunhagem com os aportes registrados.
func (l *BlockchainListener) ProcessTransaction(signature solana.Signature) {
	txResp, err := l.RPCClient.GetParsedTransaction(context.Background(), signature, &rpc.GetParsedTransactionOpts{
		Commitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		log.Printf("Falha ao obter detalhes da transação %s: %v", signature, err)
		return
	}
	if txResp == nil || txResp.Transaction == nil {
		log.Printf("Detalhes da transação %s vazios.", signature)
		return
	}

	for _, ix := range txResp.Transaction.Message.Instructions {
		l.handleInstruction(signature, ix)
	}
	if txResp.Meta == nil {
		return
	}
	for _, inner := range txResp.Meta.InnerInstructions {
		for _, ix := range inner.Instructions {
			l.handleInstruction(signature, ix)
		}
	}
}

func (l *BlockchainListener) handleInstruction(signature solana.Signature, ix *rpc.ParsedInstruction) {
	if !ix.ProgramId.Equals(token.ProgramID) || ix.Parsed == nil {
		return
	}

	// O envelope não expõe os campos parseados; o caminho estável é
	// voltar por JSON e recuperar tipo e info da instrução.
	raw, err := json.Marshal(ix.Parsed)
	if err != nil {
		log.Printf("Falha ao serializar instrução parseada da transação %s: %v", signature, err)
		return
	}
	var info rpc.InstructionInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		// Instrução parseada como string simples, sem info estruturada.
		return
	}

	// Transferências entre investidores não existem neste domínio;
	// qualquer instrução SPL além de mintTo é ruído.
	if info.InstructionType == "mintTo" {
		l.handleMintTo(signature, info.Info)
	}
}

// handleMintTo associa uma cunhagem finalizada ao aporte que a originou.
func (l *BlockchainListener) handleMintTo(signature solana.Signature, info map[string]interface{}) {
	mint, ok := info["mint"].(string)
	if !ok {
		log.Println("Instrução 'mintTo' sem campo 'mint'.")
		return
	}
	shares, err := parseAmount(info["amount"])
	if err != nil {
		log.Printf("Falha ao parsear 'amount' de 'mintTo': %v", err)
		return
	}

	enterpriseID, assetID, found := l.resolveEntityByMint(mint)
	if !found {
		// Mint desconhecido: criado fora da plataforma, ignorar.
		return
	}

	investment, found, err := l.Store.FindUnconfirmedInvestment(enterpriseID, assetID, shares)
	if err != nil {
		log.Printf("Erro ao buscar aporte não confirmado para mint %s: %v", mint, err)
		return
	}
	if !found {
		log.Printf("Nenhum aporte pendente de %d cotas para o mint %s. Ignorando.", shares, mint)
		return
	}

	if err := l.Store.UpdateInvestmentTransaction(investment.ID, signature.String()); err != nil {
		log.Printf("Falha ao confirmar aporte %s com a transação %s: %v", investment.ID, signature, err)
		return
	}
	log.Printf("Aporte %s confirmado on-chain (tx %s, %d cotas).", investment.ID, signature, shares)
}

// resolveEntityByMint descobre a qual entidade interna o mint pertence.
func (l *BlockchainListener) resolveEntityByMint(mint string) (enterpriseID, assetID string, found bool) {
	enterprise, found, err := l.Store.GetEnterpriseByMintAddress(mint)
	if err != nil {
		log.Printf("Erro ao buscar empreendimento por mint %s: %v", mint, err)
		return "", "", false
	}
	if found {
		return enterprise.ID, "", true
	}

	asset, found, err := l.Store.GetAssetByMintAddress(mint)
	if err != nil {
		log.Printf("Erro ao buscar bem por mint %s: %v", mint, err)
		return "", "", false
	}
	if found {
		return asset.EnterpriseID, asset.ID, true
	}
	return "", "", false
}

// parseAmount aceita o campo 'amount' como número ou string, conforme a
// versão do RPC.
func parseAmount(v interface{}) (int64, error) {
	switch amount := v.(type) {
	case float64:
		return int64(amount), nil
	case string:
		return strconv.ParseInt(amount, 10, 64)
	default:
		return 0, strconv.ErrSyntax
	}
}
