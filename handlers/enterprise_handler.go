package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/fatia/services"

	"github.com/go-chi/chi/v5"
)

// EnterpriseHandler lida com requisições HTTP de empreendimentos e bens.
type EnterpriseHandler struct {
	Registry *services.RegistryService
}

// NewEnterpriseHandler cria uma nova instância do handler de empreendimentos.
func NewEnterpriseHandler(registry *services.RegistryService) *EnterpriseHandler {
	return &EnterpriseHandler{Registry: registry}
}

// CreateEnterprise cria um novo empreendimento.
// POST /enterprises
func (h *EnterpriseHandler) CreateEnterprise(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name          string  `json:"name"`
		TotalShares   int64   `json:"total_shares"`
		PricePerShare float64 `json:"price_per_share"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	enterprise, err := h.Registry.CreateEnterprise(requestBody.Name, requestBody.TotalShares, requestBody.PricePerShare)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(enterprise)
}

// GetEnterpriseByID obtém um empreendimento pelo ID.
// GET /enterprises/{id}
func (h *EnterpriseHandler) GetEnterpriseByID(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")

	enterprise, found, err := h.Registry.GetEnterprise(enterpriseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Empreendimento não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(enterprise)
}

// RegisterAsset registra um bem dentro de um empreendimento.
// POST /enterprises/{id}/assets
func (h *EnterpriseHandler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")

	var requestBody struct {
		Name          string  `json:"name"`
		DeclaredValue float64 `json:"declared_value"`
		TotalShares   int64   `json:"total_shares"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.Registry.RegisterAsset(enterpriseID, requestBody.Name, requestBody.DeclaredValue, requestBody.TotalShares)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// GetAssetByID obtém um bem pelo ID, dentro do empreendimento dono.
// GET /enterprises/{id}/assets/{assetID}
func (h *EnterpriseHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")
	assetID := chi.URLParam(r, "assetID")

	asset, found, err := h.Registry.GetAsset(enterpriseID, assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !found {
		http.Error(w, "Bem não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

// ListAssets lista os bens de um empreendimento.
// GET /enterprises/{id}/assets
func (h *EnterpriseHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	enterpriseID := chi.URLParam(r, "id")

	assets, err := h.Registry.ListAssets(enterpriseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}
