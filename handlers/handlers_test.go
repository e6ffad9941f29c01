package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferreirogomes/fatia/handlers"
	"github.com/ferreirogomes/fatia/models"
	"github.com/ferreirogomes/fatia/services"
	"github.com/ferreirogomes/fatia/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mem := storage.NewMemDB()
	registry := services.NewRegistryService(mem, nil)
	investment := services.NewInvestmentService(mem, nil)
	srv := httptest.NewServer(handlers.NewRouter(registry, investment, mem))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(payload))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// TestHTTP_EnterpriseLifecycle percorre o fluxo completo: criar
// empreendimento, registrar bem, aportar nos dois níveis e consultar posições.
func TestHTTP_EnterpriseLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// --- 1. Criar empreendimento ---
	resp := postJSON(t, srv.URL+"/enterprises", map[string]interface{}{
		"name":            "Cafeteria do Centro",
		"total_shares":    100,
		"price_per_share": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var enterprise models.Enterprise
	decodeJSON(t, resp, &enterprise)
	require.NotEmpty(t, enterprise.ID)
	assert.Zero(t, enterprise.SharesSold)

	// --- 2. Registrar bem ---
	resp = postJSON(t, srv.URL+"/enterprises/"+enterprise.ID+"/assets", map[string]interface{}{
		"name":           "Forno industrial",
		"declared_value": 5000,
		"total_shares":   100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var asset models.Asset
	decodeJSON(t, resp, &asset)
	assert.Equal(t, float64(50), asset.ValuePerShare)

	// --- 3. Aportar no empreendimento ---
	resp = postJSON(t, srv.URL+"/enterprises/"+enterprise.ID+"/investments", map[string]interface{}{
		"investor_id": "inv1",
		"amount":      105,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var investment models.Investment
	decodeJSON(t, resp, &investment)
	assert.Equal(t, int64(10), investment.Shares)

	// --- 4. Aportar no bem ---
	resp = postJSON(t, srv.URL+"/enterprises/"+enterprise.ID+"/assets/"+asset.ID+"/investments", map[string]interface{}{
		"investor_id": "inv1",
		"amount":      125,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &investment)
	assert.Equal(t, int64(2), investment.Shares)

	// --- 5. Consultar posições ---
	resp, err := http.Get(srv.URL + "/enterprises/" + enterprise.ID + "/holdings/inv1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var holding handlers.HoldingResponse
	decodeJSON(t, resp, &holding)
	assert.Equal(t, int64(10), holding.Shares)

	resp, err = http.Get(srv.URL + "/enterprises/" + enterprise.ID + "/assets/" + asset.ID + "/holdings/inv1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &holding)
	assert.Equal(t, int64(2), holding.Shares)

	// Investidor sem posição vale zero, não 404.
	resp, err = http.Get(srv.URL + "/enterprises/" + enterprise.ID + "/holdings/desconhecido")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &holding)
	assert.Zero(t, holding.Shares)

	// --- 6. Histórico ---
	resp, err = http.Get(srv.URL + "/enterprises/" + enterprise.ID + "/investments")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var investments []models.Investment
	decodeJSON(t, resp, &investments)
	assert.Len(t, investments, 2)
}

// TestHTTP_ErrorMapping confere a tradução dos erros de domínio para status.
func TestHTTP_ErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	// InvalidArgument -> 400
	resp := postJSON(t, srv.URL+"/enterprises", map[string]interface{}{
		"name":            "",
		"total_shares":    100,
		"price_per_share": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// NotFound -> 404
	resp = postJSON(t, srv.URL+"/enterprises/missing-id/investments", map[string]interface{}{
		"investor_id": "inv1",
		"amount":      50,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/enterprises/missing-id")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()

	// CapacityExceeded -> 409
	resp = postJSON(t, srv.URL+"/enterprises", map[string]interface{}{
		"name":            "Padaria da Esquina",
		"total_shares":    100,
		"price_per_share": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var enterprise models.Enterprise
	decodeJSON(t, resp, &enterprise)

	resp = postJSON(t, srv.URL+"/enterprises/"+enterprise.ID+"/investments", map[string]interface{}{
		"investor_id": "inv1",
		"amount":      95,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/enterprises/"+enterprise.ID+"/investments", map[string]interface{}{
		"investor_id": "inv2",
		"amount":      6,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

// TestHTTP_Investors cobre o cadastro e a consulta de investidores.
func TestHTTP_Investors(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/investors", map[string]string{
		"name":  "Maria Silva",
		"email": "maria@exemplo.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var investor models.Investor
	decodeJSON(t, resp, &investor)
	require.NotEmpty(t, investor.ID)

	getResp, err := http.Get(srv.URL + "/investors/" + investor.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got models.Investor
	decodeJSON(t, getResp, &got)
	assert.Equal(t, investor.ID, got.ID)

	// Campos obrigatórios ausentes -> 400
	resp = postJSON(t, srv.URL+"/investors", map[string]string{"name": "Sem Email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	getResp, err = http.Get(srv.URL + "/investors/missing-id")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}
