package services

import (
	"context"

	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	"github.com/SscSPs/stock_warehouse/internal/dto"
)

// LoaderSvcFacade validates and upserts daily fact batches. Records that fail
// validation or integrity checks are collected in the result's Rejected list;
// only storage failures return an error, and then together with whatever the
// batch had achieved so far.
type LoaderSvcFacade interface {
	LoadPrices(ctx context.Context, records []dto.PriceRecord) (domain.LoadResult, error)
	LoadRates(ctx context.Context, records []dto.RateRecord) (domain.LoadResult, error)
}
