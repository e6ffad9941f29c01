package handlers

import (
	"github.com/ferreirogomes/fatia/services"
	"github.com/ferreirogomes/fatia/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter monta todas as rotas do serviço. Compartilhado entre o main
// e os testes de handler, para as rotas nunca divergirem.
func NewRouter(registry *services.RegistryService, investment *services.InvestmentService, store storage.Store) chi.Router {
	enterpriseHandler := NewEnterpriseHandler(registry)
	investmentHandler := NewInvestmentHandler(investment)
	investorHandler := NewInvestorHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/enterprises", func(r chi.Router) {
		r.Post("/", enterpriseHandler.CreateEnterprise)
		r.Get("/{id}", enterpriseHandler.GetEnterpriseByID)

		r.Post("/{id}/assets", enterpriseHandler.RegisterAsset)
		r.Get("/{id}/assets", enterpriseHandler.ListAssets)
		r.Get("/{id}/assets/{assetID}", enterpriseHandler.GetAssetByID)

		r.Post("/{id}/investments", investmentHandler.InvestInEnterprise)
		r.Get("/{id}/investments", investmentHandler.ListInvestments)
		r.Post("/{id}/assets/{assetID}/investments", investmentHandler.InvestInAsset)

		r.Get("/{id}/holdings/{investorID}", investmentHandler.GetEnterpriseHolding)
		r.Get("/{id}/assets/{assetID}/holdings/{investorID}", investmentHandler.GetAssetHolding)
	})

	r.Route("/investors", func(r chi.Router) {
		r.Post("/", investorHandler.CreateInvestor)
		r.Get("/{id}", investorHandler.GetInvestorByID)
	})

	return r
}
