package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/fatia/services"

	"github.com/go-chi/chi/v5"
)

// InvestmentHandler lida com requisições HTTP de aportes e posições.
type InvestmentHandler struct {
	Service *services.InvestmentService
}

// NewInvestmentHandler cria uma nova instância do handler de aportes.
func NewInvestmentHandler(s *services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{Service: s}
}

// Request struct compartilhada pelos dois tipos de aporte.
type InvestRequest struct {
	InvestorID string  `json:"investor_id"`
	Amount     float64 `json:"amount"`
}

// InvestInEnterprise aporta no próprio empreendimento.
// POST /enterprises/{id}/investments
func (h *InvestmentHandler) InvestInEnterprise(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")

	var req InvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	investment, err := h.Service.InvestInEnterprise(enterpriseID, req.InvestorID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(investment)
}

// InvestInAsset aporta em um bem do empreendimento.
// POST /enterprises/{id}/assets/{assetID}/investments
func (h *InvestmentHandler) InvestInAsset(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")
	assetID := chi.URLParam(r, "assetID")

	var req InvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	investment, err := h.Service.InvestInAsset(enterpriseID, assetID, req.InvestorID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(investment)
}

// Response struct das consultas de posição.
type HoldingResponse struct {
	EnterpriseID string `json:"enterprise_id"`
	AssetID      string `json:"asset_id,omitempty"`
	InvestorID   string `json:"investor_id"`
	Shares       int64  `json:"shares"`
}

// GetEnterpriseHolding obtém a posição de um investidor no empreendimento.
// Ausência vale zero. GET /enterprises/{id}/holdings/{investorID}
func (h *InvestmentHandler) GetEnterpriseHolding(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")
	investorID := chi.URLParam(r, "investorID")

	shares, err := h.Service.GetEnterpriseHolding(enterpriseID, investorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HoldingResponse{
		EnterpriseID: enterpriseID,
		InvestorID:   investorID,
		Shares:       shares,
	})
}

// GetAssetHolding obtém a posição de um investidor em um bem. Zero se ausente.
// GET /enterprises/{id}/assets/{assetID}/holdings/{investorID}
func (h *InvestmentHandler) GetAssetHolding(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")
	assetID := chi.URLParam(r, "assetID")
	investorID := chi.URLParam(r, "investorID")

	shares, err := h.Service.GetAssetHolding(enterpriseID, assetID, investorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HoldingResponse{
		EnterpriseID: enterpriseID,
		AssetID:      assetID,
		InvestorID:   investorID,
		Shares:       shares,
	})
}

// ListInvestments lista o histórico de aportes de um empreendimento.
// GET /enterprises/{id}/investments
func (h *InvestmentHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")

	investments, err := h.Service.ListInvestments(enterpriseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(investments)
}
