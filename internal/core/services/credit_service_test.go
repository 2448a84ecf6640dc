package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/core/ports/events"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/platform/config"
)

// testConfig returns ledger settings used across the service suites.
func testConfig() *config.Config {
	return &config.Config{
		TaxRate:                decimal.RequireFromString("0.21"),
		SettleTolerance:        decimal.RequireFromString("0.000001"),
		ResidualThreshold:      decimal.RequireFromString("0.01"),
		DueDay:                 28,
		HousePartnerID:         uuid.NewString(),
		OwnerResetOnRepurchase: true,
		ReconcileConcurrency:   2,
	}
}

// --- Mock CreditRepository ---
type MockCreditRepository struct {
	mock.Mock
}

// Ensure MockCreditRepository implements portsrepo.CreditRepositoryWithTx
var _ portsrepo.CreditRepositoryWithTx = (*MockCreditRepository)(nil)

func (m *MockCreditRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.Credit, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) FindCreditsByClientID(ctx context.Context, clientID string) ([]domain.Credit, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) FindActiveCreditsByClientID(ctx context.Context, clientID string) ([]domain.Credit, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credit), args.Error(1)
}

func (m *MockCreditRepository) ListCredits(ctx context.Context, limit int, nextToken *string) ([]domain.Credit, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Credit), returnedNextToken, args.Error(2)
}

func (m *MockCreditRepository) ListActiveCreditIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCreditRepository) SaveCreditWithSchedule(ctx context.Context, credit domain.Credit, installments []domain.Installment) error {
	args := m.Called(ctx, credit, installments)
	return args.Error(0)
}

func (m *MockCreditRepository) UpdateCreditStatus(ctx context.Context, creditID string, status domain.CreditStatus, updatedBy string) error {
	args := m.Called(ctx, creditID, status, updatedBy)
	return args.Error(0)
}

func (m *MockCreditRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockCreditRepository) FindInstallmentsByCreditID(ctx context.Context, creditID string) ([]domain.Installment, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockCreditRepository) FindOutstandingByCreditID(ctx context.Context, creditID string) ([]domain.Installment, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockCreditRepository) FindOverdueInstallments(ctx context.Context, asOf time.Time, limit int, nextToken *string) ([]domain.Installment, *string, error) {
	args := m.Called(ctx, asOf, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Installment), returnedNextToken, args.Error(2)
}

func (m *MockCreditRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockCreditRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCreditRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock CollectionReader ---
type MockCollectionReader struct {
	mock.Mock
}

var _ portsrepo.CollectionReader = (*MockCollectionReader)(nil)

func (m *MockCollectionReader) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionReader) FindCollectionsByInstallmentID(ctx context.Context, installmentID string) ([]domain.Collection, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collection), args.Error(1)
}

func (m *MockCollectionReader) FindCollectionsByCreditID(ctx context.Context, creditID string) ([]domain.Collection, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collection), args.Error(1)
}

func (m *MockCollectionReader) FindCollectionsByDateRange(ctx context.Context, from time.Time, to time.Time, limit int, nextToken *string) ([]domain.Collection, *string, error) {
	args := m.Called(ctx, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Collection), returnedNextToken, args.Error(2)
}

func (m *MockCollectionReader) FindCreditIDsWithResiduals(ctx context.Context, threshold decimal.Decimal) ([]string, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock CatalogService (reader side, as used by credit and collection services) ---
type MockCatalogService struct {
	mock.Mock
}

var _ portssvc.CatalogReaderSvc = (*MockCatalogService)(nil)

func (m *MockCatalogService) GetCreditTypeByID(ctx context.Context, creditTypeID string) (*domain.CreditType, error) {
	args := m.Called(ctx, creditTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditType), args.Error(1)
}

func (m *MockCatalogService) GetCreditTypeByMethod(ctx context.Context, method domain.ScheduleMethod) (*domain.CreditType, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditType), args.Error(1)
}

func (m *MockCatalogService) ListCreditTypes(ctx context.Context) ([]domain.CreditType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditType), args.Error(1)
}

func (m *MockCatalogService) GetCollectionTypeByCode(ctx context.Context, code string) (*domain.CollectionType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectionType), args.Error(1)
}

func (m *MockCatalogService) ListCollectionTypes(ctx context.Context) ([]domain.CollectionType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionType), args.Error(1)
}

func (m *MockCatalogService) ListBusinessLines(ctx context.Context) ([]domain.BusinessLine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BusinessLine), args.Error(1)
}

func (m *MockCatalogService) GetOrganismByID(ctx context.Context, organismID string) (*domain.Organism, error) {
	args := m.Called(ctx, organismID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organism), args.Error(1)
}

func (m *MockCatalogService) ListOrganisms(ctx context.Context) ([]domain.Organism, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organism), args.Error(1)
}

// --- Mock ClientService (reader side, as used by the credit service) ---
type MockClientService struct {
	mock.Mock
}

var _ portssvc.ClientReaderSvc = (*MockClientService)(nil)

func (m *MockClientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) GetClientByCUIL(ctx context.Context, cuil string) (*domain.Client, error) {
	args := m.Called(ctx, cuil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context, params dto.ListClientsParams) (*dto.ListClientsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListClientsResponse), args.Error(1)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event string, key string, payload any) error {
	args := m.Called(ctx, event, key, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Test Suite Setup ---
type CreditServiceTestSuite struct {
	suite.Suite
	mockCreditRepo     *MockCreditRepository
	mockCollectionRepo *MockCollectionReader
	mockCatalogSvc     *MockCatalogService
	mockClientSvc      *MockClientService
	mockPublisher      *MockPublisher
	cfg                *config.Config
	service            portssvc.CreditSvcFacade
	client             domain.Client
	frenchType         domain.CreditType
	penaltyType        domain.CreditType
	operatorID         string
}

func (suite *CreditServiceTestSuite) SetupTest() {
	suite.mockCreditRepo = new(MockCreditRepository)
	suite.mockCollectionRepo = new(MockCollectionReader)
	suite.mockCatalogSvc = new(MockCatalogService)
	suite.mockClientSvc = new(MockClientService)
	suite.mockPublisher = new(MockPublisher)
	suite.cfg = testConfig()
	suite.service = services.NewCreditService(suite.cfg, suite.mockCreditRepo, suite.mockCollectionRepo, suite.mockCatalogSvc, suite.mockClientSvc, suite.mockPublisher)

	suite.operatorID = uuid.NewString()
	suite.client = domain.Client{
		ClientID:  uuid.NewString(),
		FirstName: "Maria",
		LastName:  "Gonzalez",
		DNI:       "32659430",
		CUIL:      "27326594306",
		IsActive:  true,
	}
	suite.frenchType = domain.CreditType{
		CreditTypeID:   uuid.NewString(),
		Name:           "Personal French",
		ScheduleMethod: domain.ScheduleFrench,
		IsActive:       true,
	}
	suite.penaltyType = domain.CreditType{
		CreditTypeID:   uuid.NewString(),
		Name:           "Penalty",
		ScheduleMethod: domain.SchedulePenalty,
		IsActive:       true,
	}
}

func (suite *CreditServiceTestSuite) originateRequest() dto.OriginateCreditRequest {
	return dto.OriginateCreditRequest{
		ClientID:         suite.client.ClientID,
		CreditTypeID:     suite.frenchType.CreditTypeID,
		DisbursementDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		AmountDisbursed:  decimal.NewFromInt(10000),
		AnnualRate:       decimal.NewFromInt(60),
		Term:             6,
	}
}

// --- Origination ---

func (suite *CreditServiceTestSuite) TestOriginateCredit_Success() {
	ctx := context.Background()
	req := suite.originateRequest()

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.frenchType.CreditTypeID).Return(&suite.frenchType, nil).Once()
	suite.mockCreditRepo.On("SaveCreditWithSchedule", ctx, mock.AnythingOfType("domain.Credit"), mock.AnythingOfType("[]domain.Installment")).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, events.CreditOriginated, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

	credit, installments, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(credit)
	suite.NotEmpty(credit.CreditID)
	suite.Equal(domain.CreditActive, credit.Status)
	suite.Equal(suite.operatorID, credit.CreatedBy)
	suite.True(credit.Capital.Equal(req.AmountDisbursed))

	suite.Require().Len(installments, req.Term)
	capitalSum := decimal.Zero
	for i, inst := range installments {
		suite.Equal(i+1, inst.InstNum)
		suite.Equal(credit.CreditID, inst.CreditID)
		suite.Equal(suite.cfg.HousePartnerID, inst.OwnerID)
		suite.True(inst.CollectedTotal.IsZero())
		suite.True(inst.Capital.Add(inst.Interest).Add(inst.Tax).Equal(inst.Total))
		capitalSum = capitalSum.Add(inst.Capital)
	}
	suite.True(capitalSum.Equal(req.AmountDisbursed), "schedule must return exactly the disbursed capital, got %s", capitalSum)

	suite.mockCreditRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_DefaultFirstDueDate() {
	ctx := context.Background()
	req := suite.originateRequest()
	req.FirstDueDate = nil

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.frenchType.CreditTypeID).Return(&suite.frenchType, nil).Once()
	suite.mockCreditRepo.On("SaveCreditWithSchedule", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, events.CreditOriginated, mock.Anything, mock.Anything).Return(nil).Once()

	credit, installments, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	// Disbursed 2024-03-05, due day 28: first due date lands on 2024-04-28.
	suite.Equal(time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), credit.FirstDueDate)
	suite.Equal(credit.FirstDueDate, installments[0].DueDate)
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_InactiveClient() {
	ctx := context.Background()
	req := suite.originateRequest()
	inactive := suite.client
	inactive.IsActive = false

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&inactive, nil).Once()

	_, _, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrClientInactive)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "SaveCreditWithSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_InactiveCreditType() {
	ctx := context.Background()
	req := suite.originateRequest()
	inactiveType := suite.frenchType
	inactiveType.IsActive = false

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.frenchType.CreditTypeID).Return(&inactiveType, nil).Once()

	_, _, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditTypeInactive)
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_PenaltyTypeRejected() {
	ctx := context.Background()
	req := suite.originateRequest()
	req.CreditTypeID = suite.penaltyType.CreditTypeID

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.penaltyType.CreditTypeID).Return(&suite.penaltyType, nil).Once()

	_, _, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPenaltyViaOriginate)
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_InactiveOrganism() {
	ctx := context.Background()
	req := suite.originateRequest()
	organismID := uuid.NewString()
	req.OrganismID = &organismID

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.frenchType.CreditTypeID).Return(&suite.frenchType, nil).Once()
	suite.mockCatalogSvc.On("GetOrganismByID", ctx, organismID).Return(&domain.Organism{OrganismID: organismID, IsActive: false}, nil).Once()

	_, _, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_HousePartnerUnset() {
	ctx := context.Background()
	cfg := testConfig()
	cfg.HousePartnerID = ""
	svc := services.NewCreditService(cfg, suite.mockCreditRepo, suite.mockCollectionRepo, suite.mockCatalogSvc, suite.mockClientSvc, suite.mockPublisher)

	_, _, err := svc.OriginateCredit(ctx, suite.originateRequest(), suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrHousePartnerUnset)
	suite.mockClientSvc.AssertNotCalled(suite.T(), "GetClientByID", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestOriginateCredit_SaveError() {
	ctx := context.Background()
	req := suite.originateRequest()
	repoErr := apperrors.ErrInternal

	suite.mockClientSvc.On("GetClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.frenchType.CreditTypeID).Return(&suite.frenchType, nil).Once()
	suite.mockCreditRepo.On("SaveCreditWithSchedule", ctx, mock.Anything, mock.Anything).Return(repoErr).Once()

	_, _, err := suite.service.OriginateCredit(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Penalty origination ---

func (suite *CreditServiceTestSuite) TestOriginatePenalty_Success() {
	ctx := context.Background()
	origin := domain.Credit{
		CreditID: uuid.NewString(),
		ClientID: suite.client.ClientID,
		Status:   domain.CreditActive,
	}
	req := dto.OriginatePenaltyRequest{
		CreditID:  origin.CreditID,
		Surcharge: decimal.NewFromInt(121),
		DueDate:   time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCreditRepo.On("FindCreditByID", ctx, origin.CreditID).Return(&origin, nil).Once()
	suite.mockCatalogSvc.On("GetCreditTypeByMethod", ctx, domain.SchedulePenalty).Return(&suite.penaltyType, nil).Once()
	suite.mockCreditRepo.On("SaveCreditWithSchedule", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, events.CreditOriginated, mock.Anything, mock.Anything).Return(nil).Once()

	credit, installments, err := suite.service.OriginatePenalty(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(credit)
	suite.Require().NotNil(credit.OriginCreditID)
	suite.Equal(origin.CreditID, *credit.OriginCreditID)
	suite.Equal(origin.ClientID, credit.ClientID)
	suite.True(credit.AmountDisbursed.IsZero())
	suite.Equal(1, credit.Term)

	suite.Require().Len(installments, 1)
	inst := installments[0]
	suite.True(inst.Capital.IsZero())
	// 121 at 21% tax decomposes into 100 interest and 21 tax.
	suite.True(inst.Interest.Equal(decimal.NewFromInt(100)), "interest was %s", inst.Interest)
	suite.True(inst.Tax.Equal(decimal.NewFromInt(21)), "tax was %s", inst.Tax)
	suite.True(inst.Total.Equal(req.Surcharge))
	suite.Equal(req.DueDate, inst.DueDate)

	suite.mockCreditRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestOriginatePenalty_OriginNotActive() {
	ctx := context.Background()
	origin := domain.Credit{CreditID: uuid.NewString(), Status: domain.CreditSettled}
	req := dto.OriginatePenaltyRequest{
		CreditID:  origin.CreditID,
		Surcharge: decimal.NewFromInt(50),
		DueDate:   time.Now().UTC(),
	}

	suite.mockCreditRepo.On("FindCreditByID", ctx, origin.CreditID).Return(&origin, nil).Once()

	_, _, err := suite.service.OriginatePenalty(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditNotActive)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "SaveCreditWithSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestOriginatePenalty_NonPositiveSurcharge() {
	ctx := context.Background()
	req := dto.OriginatePenaltyRequest{
		CreditID:  uuid.NewString(),
		Surcharge: decimal.Zero,
		DueDate:   time.Now().UTC(),
	}

	_, _, err := suite.service.OriginatePenalty(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "FindCreditByID", mock.Anything, mock.Anything)
}

// --- Cancellation ---

func (suite *CreditServiceTestSuite) TestCancelCredit_Success() {
	ctx := context.Background()
	credit := domain.Credit{CreditID: uuid.NewString(), Status: domain.CreditActive}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(&credit, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionsByCreditID", ctx, credit.CreditID).Return([]domain.Collection{}, nil).Once()
	suite.mockCreditRepo.On("UpdateCreditStatus", ctx, credit.CreditID, domain.CreditCancelled, suite.operatorID).Return(nil).Once()

	err := suite.service.CancelCredit(ctx, credit.CreditID, suite.operatorID)

	suite.Require().NoError(err)
	suite.mockCreditRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestCancelCredit_HasCollections() {
	ctx := context.Background()
	credit := domain.Credit{CreditID: uuid.NewString(), Status: domain.CreditActive}
	collections := []domain.Collection{{CollectionID: uuid.NewString(), CreditID: credit.CreditID}}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(&credit, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionsByCreditID", ctx, credit.CreditID).Return(collections, nil).Once()

	err := suite.service.CancelCredit(ctx, credit.CreditID, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditHasCollections)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "UpdateCreditStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestCancelCredit_NotActive() {
	ctx := context.Background()
	credit := domain.Credit{CreditID: uuid.NewString(), Status: domain.CreditCancelled}

	suite.mockCreditRepo.On("FindCreditByID", ctx, credit.CreditID).Return(&credit, nil).Once()

	err := suite.service.CancelCredit(ctx, credit.CreditID, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditNotActive)
}

// --- Preview and reads ---

func (suite *CreditServiceTestSuite) TestPreviewSchedule_Success() {
	ctx := context.Background()
	req := dto.PreviewScheduleRequest{
		CreditTypeID:     suite.frenchType.CreditTypeID,
		AmountDisbursed:  decimal.NewFromInt(12000),
		AnnualRate:       decimal.NewFromInt(72),
		Term:             12,
		DisbursementDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCatalogSvc.On("GetCreditTypeByID", ctx, suite.frenchType.CreditTypeID).Return(&suite.frenchType, nil).Once()

	drafts, err := suite.service.PreviewSchedule(ctx, req)

	suite.Require().NoError(err)
	suite.Require().Len(drafts, 12)
	capitalSum := decimal.Zero
	for i, d := range drafts {
		suite.Equal(i+1, d.InstNum)
		capitalSum = capitalSum.Add(d.Capital)
		if i > 0 {
			suite.True(d.DueDate.After(drafts[i-1].DueDate))
		}
	}
	suite.True(capitalSum.Equal(req.AmountDisbursed))
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "SaveCreditWithSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestGetCreditWithSchedule_NotFound() {
	ctx := context.Background()
	creditID := uuid.NewString()

	suite.mockCreditRepo.On("FindCreditByID", ctx, creditID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetCreditWithSchedule(ctx, creditID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "FindInstallmentsByCreditID", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestListOverdueInstallments_MapsOutstanding() {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	inst := domain.Installment{
		InstallmentID:  uuid.NewString(),
		CreditID:       uuid.NewString(),
		InstNum:        1,
		DueDate:        time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC),
		Total:          decimal.NewFromInt(1500),
		CollectedTotal: decimal.NewFromInt(600),
	}

	suite.mockCreditRepo.On("FindOverdueInstallments", ctx, asOf, 50, (*string)(nil)).Return([]domain.Installment{inst}, nil, nil).Once()

	resp, err := suite.service.ListOverdueInstallments(ctx, dto.ListOverdueParams{AsOf: &asOf, Limit: 50})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Installments, 1)
	suite.True(resp.Installments[0].Outstanding.Equal(decimal.NewFromInt(900)))
}

// --- Run Test Suite ---
func TestCreditService(t *testing.T) {
	suite.Run(t, new(CreditServiceTestSuite))
}
