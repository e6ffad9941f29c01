package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ferreirogomes/fatia/models"
	"github.com/ferreirogomes/fatia/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// InvestorHandler lida com requisições HTTP de investidores.
// Fala direto com o Store: cadastro de investidor não tem regra de domínio
// além da validação de campos.
type InvestorHandler struct {
	Store storage.Store
}

// NewInvestorHandler cria uma nova instância do handler de investidores.
func NewInvestorHandler(store storage.Store) *InvestorHandler {
	return &InvestorHandler{Store: store}
}

// CreateInvestor cadastra um novo investidor.
// POST /investors
func (h *InvestorHandler) CreateInvestor(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		SolanaPubKey string `json:"solana_pub_key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if requestBody.Name == "" || requestBody.Email == "" {
		http.Error(w, "Nome e email são obrigatórios", http.StatusBadRequest)
		return
	}

	investor := models.Investor{
		ID:           uuid.New().String(),
		Name:         requestBody.Name,
		Email:        requestBody.Email,
		SolanaPubKey: requestBody.SolanaPubKey,
		CreatedAt:    time.Now(),
	}

	if err := h.Store.SaveInvestor(investor); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(investor)
}

// GetInvestorByID obtém um investidor pelo ID.
// GET /investors/{id}
func (h *InvestorHandler) GetInvestorByID(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "id")

	investor, found, err := h.Store.GetInvestor(investorID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Investidor não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(investor)
}
