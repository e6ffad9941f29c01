package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ferreirogomes/fatia/blockchain_listener"
	"github.com/ferreirogomes/fatia/handlers"
	"github.com/ferreirogomes/fatia/services"
	"github.com/ferreirogomes/fatia/storage"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Falha fatal ao carregar configuração: %v", err)
	}

	var store storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
		}
		defer db.Close()
		store = db
	} else {
		log.Println("DATABASE_URL não configurada; usando armazenamento em memória (dados não sobrevivem ao processo).")
		store = storage.NewMemDB()
	}

	var solanaService services.SolanaService
	if cfg.SolanaRPCURL != "" && cfg.SolanaFeePayerPrivateKey != "" {
		s, err := services.NewSolanaIntegrationService(cfg.SolanaRPCURL, cfg.SolanaFeePayerPrivateKey)
		if err != nil {
			log.Fatalf("Falha ao inicializar serviço Solana: %v", err)
		}
		solanaService = s
	} else {
		log.Println("Espelho on-chain desligado (SOLANA_RPC_URL/SOLANA_FEE_PAYER_PRIVATE_KEY ausentes).")
	}

	registryService := services.NewRegistryService(store, solanaService)
	investmentService := services.NewInvestmentService(store, solanaService)

	// O listener reconcilia o espelho on-chain em uma goroutine separada.
	if solanaService != nil && cfg.SolanaWSURL != "" {
		listener, err := blockchain_listener.NewBlockchainListener(
			cfg.SolanaRPCURL, cfg.SolanaWSURL, store, cfg.SolanaFeePayerPrivateKey)
		if err != nil {
			log.Fatalf("Falha ao inicializar listener da blockchain: %v", err)
		}
		go listener.StartListening()
		log.Println("Listener da blockchain iniciado.")
	}

	r := handlers.NewRouter(registryService, investmentService, store)

	addr := ":" + cfg.Port
	fmt.Printf("Servidor backend rodando na porta %s...\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
