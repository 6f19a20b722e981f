package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/core/domain"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock VersionRepository ---
type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockVersionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockVersionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockVersionRepository) FindVersionsAt(ctx context.Context, dimension string, surrogateID int64, asOf time.Time) ([]domain.DimensionVersion, error) {
	args := m.Called(ctx, dimension, surrogateID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DimensionVersion), args.Error(1)
}

func (m *MockVersionRepository) ListVersions(ctx context.Context, dimension string, surrogateID int64) ([]domain.DimensionVersion, error) {
	args := m.Called(ctx, dimension, surrogateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DimensionVersion), args.Error(1)
}

func (m *MockVersionRepository) FindActiveVersionForUpdate(ctx context.Context, tx pgx.Tx, dimension string, surrogateID int64) (*domain.DimensionVersion, error) {
	args := m.Called(ctx, tx, dimension, surrogateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DimensionVersion), args.Error(1)
}

func (m *MockVersionRepository) CloseVersion(ctx context.Context, tx pgx.Tx, versionID int64, validTo time.Time) error {
	args := m.Called(ctx, tx, versionID, validTo)
	return args.Error(0)
}

func (m *MockVersionRepository) UpdateVersionAttributes(ctx context.Context, tx pgx.Tx, versionID int64, attributes map[string]string) error {
	args := m.Called(ctx, tx, versionID, attributes)
	return args.Error(0)
}

func (m *MockVersionRepository) InsertVersion(ctx context.Context, tx pgx.Tx, version domain.DimensionVersion) (int64, error) {
	args := m.Called(ctx, tx, version)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type VersioningServiceTestSuite struct {
	suite.Suite
	mockRepo *MockVersionRepository
	service  portssvc.VersioningSvcFacade
}

func (suite *VersioningServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockVersionRepository)
	suite.service = services.NewVersioningService(suite.mockRepo)
}

func (suite *VersioningServiceTestSuite) expectTransaction() {
	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

// --- Test Cases ---

func (suite *VersioningServiceTestSuite) TestRecordChange_FirstVersion() {
	ctx := context.Background()
	attrs := map[string]string{"company_name": "Apple Computer"}

	suite.expectTransaction()
	suite.mockRepo.On("FindActiveVersionForUpdate", mock.Anything, mock.Anything, "dim_stock", int64(1)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("InsertVersion", mock.Anything, mock.Anything, mock.MatchedBy(func(v domain.DimensionVersion) bool {
		return v.Dimension == "dim_stock" && v.SurrogateID == 1 &&
			v.ValidFrom.Equal(day("2020-01-01")) && v.ValidTo.Equal(domain.OpenEndedValidTo)
	})).Return(int64(10), nil).Once()
	suite.mockRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	version, err := suite.service.RecordChange(ctx, "dim_stock", 1, attrs, day("2020-01-01"))

	suite.Require().NoError(err)
	suite.Equal(int64(10), version.VersionID)
	suite.True(version.IsActive())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VersioningServiceTestSuite) TestRecordChange_ClosesActiveAndOpensNew() {
	ctx := context.Background()
	active := &domain.DimensionVersion{
		VersionID:   10,
		Dimension:   "dim_stock",
		SurrogateID: 1,
		Attributes:  map[string]string{"company_name": "Apple Computer"},
		ValidFrom:   day("2020-01-01"),
		ValidTo:     domain.OpenEndedValidTo,
	}
	newAttrs := map[string]string{"company_name": "Apple Inc."}

	suite.expectTransaction()
	suite.mockRepo.On("FindActiveVersionForUpdate", mock.Anything, mock.Anything, "dim_stock", int64(1)).
		Return(active, nil).Once()
	suite.mockRepo.On("CloseVersion", mock.Anything, mock.Anything, int64(10), day("2024-03-15")).Return(nil).Once()
	suite.mockRepo.On("InsertVersion", mock.Anything, mock.Anything, mock.MatchedBy(func(v domain.DimensionVersion) bool {
		return v.ValidFrom.Equal(day("2024-03-15")) && v.ValidTo.Equal(domain.OpenEndedValidTo) && v.Attributes["company_name"] == "Apple Inc."
	})).Return(int64(11), nil).Once()
	suite.mockRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	version, err := suite.service.RecordChange(ctx, "dim_stock", 1, newAttrs, day("2024-03-15"))

	suite.Require().NoError(err)
	suite.Equal(int64(11), version.VersionID)
	suite.Equal(day("2024-03-15"), version.ValidFrom)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VersioningServiceTestSuite) TestRecordChange_IdenticalAttributesIsNoOp() {
	ctx := context.Background()
	attrs := map[string]string{"company_name": "Apple Inc."}
	active := &domain.DimensionVersion{
		VersionID:   10,
		Dimension:   "dim_stock",
		SurrogateID: 1,
		Attributes:  map[string]string{"company_name": "Apple Inc."},
		ValidFrom:   day("2020-01-01"),
		ValidTo:     domain.OpenEndedValidTo,
	}

	suite.expectTransaction()
	suite.mockRepo.On("FindActiveVersionForUpdate", mock.Anything, mock.Anything, "dim_stock", int64(1)).
		Return(active, nil).Once()

	version, err := suite.service.RecordChange(ctx, "dim_stock", 1, attrs, day("2024-03-15"))

	suite.Require().NoError(err)
	suite.Equal(active, version)
	suite.mockRepo.AssertNotCalled(suite.T(), "CloseVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertVersion", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *VersioningServiceTestSuite) TestRecordChange_SameDayReplacesInPlace() {
	ctx := context.Background()
	active := &domain.DimensionVersion{
		VersionID:   10,
		Dimension:   "dim_stock",
		SurrogateID: 1,
		Attributes:  map[string]string{"company_name": "Appel Inc."},
		ValidFrom:   day("2024-03-15"),
		ValidTo:     domain.OpenEndedValidTo,
	}
	corrected := map[string]string{"company_name": "Apple Inc."}

	suite.expectTransaction()
	suite.mockRepo.On("FindActiveVersionForUpdate", mock.Anything, mock.Anything, "dim_stock", int64(1)).
		Return(active, nil).Once()
	suite.mockRepo.On("UpdateVersionAttributes", mock.Anything, mock.Anything, int64(10), corrected).Return(nil).Once()
	suite.mockRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	version, err := suite.service.RecordChange(ctx, "dim_stock", 1, corrected, day("2024-03-15"))

	suite.Require().NoError(err)
	suite.Equal(int64(10), version.VersionID)
	suite.Equal("Apple Inc.", version.Attributes["company_name"])
	suite.mockRepo.AssertNotCalled(suite.T(), "CloseVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertVersion", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VersioningServiceTestSuite) TestRecordChange_EffectivePredatesActive() {
	ctx := context.Background()
	active := &domain.DimensionVersion{
		VersionID:   10,
		Dimension:   "dim_stock",
		SurrogateID: 1,
		Attributes:  map[string]string{"company_name": "Apple Inc."},
		ValidFrom:   day("2024-03-15"),
		ValidTo:     domain.OpenEndedValidTo,
	}

	suite.expectTransaction()
	suite.mockRepo.On("FindActiveVersionForUpdate", mock.Anything, mock.Anything, "dim_stock", int64(1)).
		Return(active, nil).Once()

	version, err := suite.service.RecordChange(ctx, "dim_stock", 1, map[string]string{"company_name": "Apple Computer"}, day("2020-01-01"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(version)
}

func (suite *VersioningServiceTestSuite) TestRecordChange_EmptyAttributes() {
	ctx := context.Background()

	version, err := suite.service.RecordChange(ctx, "dim_stock", 1, nil, day("2024-03-15"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(version)
	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *VersioningServiceTestSuite) TestGetAsOf_SingleMatch() {
	ctx := context.Background()
	expected := domain.DimensionVersion{VersionID: 10, ValidFrom: day("2020-01-01"), ValidTo: day("2024-03-15")}

	suite.mockRepo.On("FindVersionsAt", ctx, "dim_stock", int64(1), day("2022-06-01")).
		Return([]domain.DimensionVersion{expected}, nil).Once()

	version, err := suite.service.GetAsOf(ctx, "dim_stock", 1, day("2022-06-01"))

	suite.Require().NoError(err)
	suite.Equal(expected, *version)
}

func (suite *VersioningServiceTestSuite) TestGetAsOf_NoMatchIsNotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindVersionsAt", ctx, "dim_stock", int64(1), day("2019-01-01")).
		Return([]domain.DimensionVersion{}, nil).Once()

	version, err := suite.service.GetAsOf(ctx, "dim_stock", 1, day("2019-01-01"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(version)
}

func (suite *VersioningServiceTestSuite) TestGetAsOf_OverlapIsIntegrityViolation() {
	ctx := context.Background()
	overlapping := []domain.DimensionVersion{
		{VersionID: 10},
		{VersionID: 11},
	}

	suite.mockRepo.On("FindVersionsAt", ctx, "dim_stock", int64(1), day("2022-06-01")).
		Return(overlapping, nil).Once()

	version, err := suite.service.GetAsOf(ctx, "dim_stock", 1, day("2022-06-01"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrityViolation)
	suite.Nil(version)
}

func (suite *VersioningServiceTestSuite) TestHistory_OrderedSequence() {
	ctx := context.Background()
	history := []domain.DimensionVersion{
		{VersionID: 10, ValidFrom: day("2020-01-01"), ValidTo: day("2024-03-15")},
		{VersionID: 11, ValidFrom: day("2024-03-15"), ValidTo: domain.OpenEndedValidTo},
	}

	suite.mockRepo.On("ListVersions", ctx, "dim_stock", int64(1)).Return(history, nil).Once()

	versions, err := suite.service.History(ctx, "dim_stock", 1)

	suite.Require().NoError(err)
	suite.Equal(history, versions)
}

// --- Run Suite ---
func TestVersioningService(t *testing.T) {
	suite.Run(t, new(VersioningServiceTestSuite))
}
