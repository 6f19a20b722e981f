package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/SscSPs/stock_warehouse/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// --- Mock DimensionService ---
type MockDimensionService struct {
	mock.Mock
}

func (m *MockDimensionService) ResolveStock(ctx context.Context, ticker, companyName string) (int64, error) {
	args := m.Called(ctx, ticker, companyName)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockDimensionService) ResolveCurrency(ctx context.Context, currencyCode, currencyName string) (int64, error) {
	args := m.Called(ctx, currencyCode, currencyName)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockDimensionService) GetStockByTicker(ctx context.Context, ticker string) (*domain.Stock, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stock), args.Error(1)
}
func (m *MockDimensionService) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Stock), args.Error(1)
}
func (m *MockDimensionService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockDimensionService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockDimensionService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
func (m *MockDimensionService) BaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockDimensionService) SetBaseCurrency(ctx context.Context, currencyCode string) error {
	args := m.Called(ctx, currencyCode)
	return args.Error(0)
}

var _ portssvc.DimensionSvcFacade = (*MockDimensionService)(nil)

// --- Mock LoaderService ---
type MockLoaderService struct {
	mock.Mock
}

func (m *MockLoaderService) LoadPrices(ctx context.Context, records []dto.PriceRecord) (domain.LoadResult, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(domain.LoadResult), args.Error(1)
}
func (m *MockLoaderService) LoadRates(ctx context.Context, records []dto.RateRecord) (domain.LoadResult, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(domain.LoadResult), args.Error(1)
}

var _ portssvc.LoaderSvcFacade = (*MockLoaderService)(nil)

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, tradeDate time.Time, ticker, targetCurrencyCode string) (*domain.ConvertedPrice, error) {
	args := m.Called(ctx, tradeDate, ticker, targetCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConvertedPrice), args.Error(1)
}
func (m *MockConversionService) ConvertRange(ctx context.Context, from, to time.Time, tickers []string, targetCurrencyCode string) ([]domain.ConvertedPrice, error) {
	args := m.Called(ctx, from, to, tickers, targetCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConvertedPrice), args.Error(1)
}

var _ portssvc.ConversionSvcFacade = (*MockConversionService)(nil)

// --- Mock VersioningService ---
type MockVersioningService struct {
	mock.Mock
}

func (m *MockVersioningService) RecordChange(ctx context.Context, dimension string, surrogateID int64, attributes map[string]string, effectiveDate time.Time) (*domain.DimensionVersion, error) {
	args := m.Called(ctx, dimension, surrogateID, attributes, effectiveDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DimensionVersion), args.Error(1)
}
func (m *MockVersioningService) GetAsOf(ctx context.Context, dimension string, surrogateID int64, asOf time.Time) (*domain.DimensionVersion, error) {
	args := m.Called(ctx, dimension, surrogateID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DimensionVersion), args.Error(1)
}
func (m *MockVersioningService) History(ctx context.Context, dimension string, surrogateID int64) ([]domain.DimensionVersion, error) {
	args := m.Called(ctx, dimension, surrogateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DimensionVersion), args.Error(1)
}

var _ portssvc.VersioningSvcFacade = (*MockVersioningService)(nil)

// --- Mock IngestionService ---
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) RunDay(ctx context.Context, day time.Time) (*domain.IngestionSummary, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionSummary), args.Error(1)
}

var _ portssvc.IngestionSvcFacade = (*MockIngestionService)(nil)

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockDimension  *MockDimensionService
	mockLoader     *MockLoaderService
	mockConversion *MockConversionService
	mockVersioning *MockVersioningService
	mockIngestion  *MockIngestionService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockDimension = new(MockDimensionService)
	suite.mockLoader = new(MockLoaderService)
	suite.mockConversion = new(MockConversionService)
	suite.mockVersioning = new(MockVersioningService)
	suite.mockIngestion = new(MockIngestionService)

	rate, err := limiter.NewRateFromFormatted("1000-S")
	suite.Require().NoError(err)
	loadLimiter := limiter.New(memory.NewStore(), rate)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Dimension:  suite.mockDimension,
		Loader:     suite.mockLoader,
		Conversion: suite.mockConversion,
		Versioning: suite.mockVersioning,
		Ingestion:  suite.mockIngestion,
	}, loadLimiter)
}

func (suite *HandlersTestSuite) perform(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func mustDay(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.perform(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestListConversions_Success() {
	day := mustDay("2024-03-15")
	rows := []domain.ConvertedPrice{{
		TradeDate:      day,
		Ticker:         "AAPL",
		BaseCurrency:   "USD",
		TargetCurrency: "EUR",
		Open:           decimal.NewFromInt(100),
		OpenConverted:  decimal.NewNullDecimal(decimal.RequireFromString("90")),
	}}

	suite.mockConversion.On("ConvertRange", mock.Anything, day, day, []string{"AAPL"}, "EUR").
		Return(rows, nil).Once()

	w := suite.perform(http.MethodGet, "/api/v1/conversions?target=eur&from=2024-03-15&to=2024-03-15&tickers=AAPL", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.ConvertedPriceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("AAPL", resp[0].Ticker)
	suite.Require().NotNil(resp[0].OpenConverted)
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestListConversions_MissingTarget() {
	w := suite.perform(http.MethodGet, "/api/v1/conversions?from=2024-03-15&to=2024-03-15", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListConversions_UnknownTarget() {
	day := mustDay("2024-03-15")

	suite.mockConversion.On("ConvertRange", mock.Anything, day, day, mock.Anything, "XXX").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.perform(http.MethodGet, "/api/v1/conversions?target=XXX&from=2024-03-15&to=2024-03-15", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestLoadPrices_PartialSuccessIsOK() {
	result := domain.LoadResult{Inserted: 1}
	result.Reject(1, "BAD@2024-03-15", "open must not be negative")

	suite.mockLoader.On("LoadPrices", mock.Anything, mock.Anything).Return(result, nil).Once()

	body := dto.LoadPricesRequest{Records: []dto.PriceRecord{
		{Ticker: "AAPL", TradeDate: "2024-03-15", Close: decimal.NewFromInt(105)},
		{Ticker: "BAD", TradeDate: "2024-03-15"},
	}}
	w := suite.perform(http.MethodPost, "/api/v1/loads/prices", body)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoadResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Inserted)
	suite.Require().Len(resp.Rejected, 1)
	suite.Equal("BAD@2024-03-15", resp.Rejected[0].Key)
}

func (suite *HandlersTestSuite) TestLoadPrices_EmptyBatchRejected() {
	w := suite.perform(http.MethodPost, "/api/v1/loads/prices", dto.LoadPricesRequest{Records: []dto.PriceRecord{}})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoader.AssertNotCalled(suite.T(), "LoadPrices", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateCurrency_Conflict() {
	suite.mockDimension.On("CreateCurrency", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.perform(http.MethodPost, "/api/v1/currencies", dto.CreateCurrencyRequest{CurrencyCode: "EUR", CurrencyName: "Euro"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestRecordVersion_Created() {
	version := &domain.DimensionVersion{
		VersionID:   11,
		Dimension:   "dim_stock",
		SurrogateID: 1,
		Attributes:  map[string]string{"company_name": "Apple Inc."},
		ValidFrom:   mustDay("2024-03-15"),
		ValidTo:     domain.OpenEndedValidTo,
	}

	suite.mockVersioning.On("RecordChange", mock.Anything, "dim_stock", int64(1),
		map[string]string{"company_name": "Apple Inc."}, mustDay("2024-03-15")).
		Return(version, nil).Once()

	body := dto.RecordVersionRequest{
		Attributes:    map[string]string{"company_name": "Apple Inc."},
		EffectiveDate: "2024-03-15",
	}
	w := suite.perform(http.MethodPost, "/api/v1/dimensions/dim_stock/1/versions", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.VersionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(11), resp.VersionID)
	suite.True(resp.Active)
}

func (suite *HandlersTestSuite) TestRecordVersion_BadSurrogateID() {
	body := dto.RecordVersionRequest{
		Attributes:    map[string]string{"company_name": "Apple Inc."},
		EffectiveDate: "2024-03-15",
	}
	w := suite.perform(http.MethodPost, "/api/v1/dimensions/dim_stock/abc/versions", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVersioning.AssertNotCalled(suite.T(), "RecordChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestGetVersionAsOf_NotFound() {
	suite.mockVersioning.On("GetAsOf", mock.Anything, "dim_stock", int64(1), mustDay("2019-01-01")).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.perform(http.MethodGet, "/api/v1/dimensions/dim_stock/1/versions?asOf=2019-01-01", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestGetVersionAsOf_OverlapIsConflict() {
	suite.mockVersioning.On("GetAsOf", mock.Anything, "dim_stock", int64(1), mustDay("2022-06-01")).
		Return(nil, apperrors.ErrIntegrityViolation).Once()

	w := suite.perform(http.MethodGet, "/api/v1/dimensions/dim_stock/1/versions?asOf=2022-06-01", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestRunIngestion_UpstreamDown() {
	suite.mockIngestion.On("RunDay", mock.Anything, mustDay("2024-03-15")).
		Return(nil, apperrors.ErrUpstreamUnavailable).Once()

	w := suite.perform(http.MethodPost, "/api/v1/ingest/run?day=2024-03-15", nil)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *HandlersTestSuite) TestRunIngestion_Success() {
	summary := &domain.IngestionSummary{
		Day:    mustDay("2024-03-15"),
		Prices: domain.LoadResult{Inserted: 2},
		Rates:  domain.LoadResult{Inserted: 30},
	}

	suite.mockIngestion.On("RunDay", mock.Anything, mustDay("2024-03-15")).Return(summary, nil).Once()

	w := suite.perform(http.MethodPost, "/api/v1/ingest/run?day=2024-03-15", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IngestionSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2024-03-15", resp.Day)
	suite.Equal(2, resp.Prices.Inserted)
}

func (suite *HandlersTestSuite) TestGetStockByTicker_NotFound() {
	suite.mockDimension.On("GetStockByTicker", mock.Anything, "ZZZZ").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.perform(http.MethodGet, "/api/v1/stocks/ZZZZ", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
