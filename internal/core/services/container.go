package services

import (
	"github.com/SscSPs/stock_warehouse/internal/core/ports/providers"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
)

// Repositories bundles every repository the services are built from.
type Repositories struct {
	Stock      repositories.StockRepositoryFacade
	Currency   repositories.CurrencyRepositoryFacade
	Price      repositories.PriceRepositoryFacade
	Rate       repositories.RateRepositoryFacade
	Conversion repositories.ConversionReader
	Version    repositories.VersionRepositoryFacade
}

// NewServiceContainer wires the concrete services into the container the
// handlers consume. Ingestion is nil when no providers are configured; the
// manual and scheduled triggers are simply absent then.
func NewServiceContainer(repos Repositories, priceProvider providers.PriceProvider, rateProvider providers.RateProvider, tickers []string) *portssvc.ServiceContainer {
	dimension := NewDimensionService(repos.Stock, repos.Currency)
	loader := NewLoaderService(dimension, repos.Price, repos.Rate)

	container := &portssvc.ServiceContainer{
		Dimension:  dimension,
		Loader:     loader,
		Conversion: NewConversionService(dimension, repos.Conversion),
		Versioning: NewVersioningService(repos.Version),
	}
	if priceProvider != nil && rateProvider != nil {
		container.Ingestion = NewIngestionService(priceProvider, rateProvider, loader, dimension, tickers)
	}
	return container
}
