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
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/platform/config"
)

// --- Mock PartnerRepository ---
type MockPartnerRepository struct {
	mock.Mock
}

// Ensure MockPartnerRepository implements portsrepo.PartnerRepositoryWithTx
var _ portsrepo.PartnerRepositoryWithTx = (*MockPartnerRepository)(nil)

func (m *MockPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.BusinessPartner, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessPartner), args.Error(1)
}

func (m *MockPartnerRepository) FindPartnerByTaxID(ctx context.Context, taxID string) (*domain.BusinessPartner, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessPartner), args.Error(1)
}

func (m *MockPartnerRepository) ListPartners(ctx context.Context, limit int, nextToken *string) ([]domain.BusinessPartner, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.BusinessPartner), returnedNextToken, args.Error(2)
}

func (m *MockPartnerRepository) SavePartner(ctx context.Context, partner domain.BusinessPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) UpdatePartner(ctx context.Context, partner domain.BusinessPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) DeactivatePartner(ctx context.Context, partnerID string, updatedBy string) error {
	args := m.Called(ctx, partnerID, updatedBy)
	return args.Error(0)
}

func (m *MockPartnerRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPartnerRepository) FindPurchasesByPartnerID(ctx context.Context, partnerID string) ([]domain.Purchase, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *MockPartnerRepository) SavePurchase(ctx context.Context, purchase domain.Purchase, creditIDs []string, newOwnerID *string) error {
	args := m.Called(ctx, purchase, creditIDs, newOwnerID)
	return args.Error(0)
}

func (m *MockPartnerRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockPartnerRepository) FindSalesByPartnerID(ctx context.Context, partnerID string) ([]domain.Sale, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockPartnerRepository) SaveSale(ctx context.Context, sale domain.Sale, creditIDs []string) error {
	args := m.Called(ctx, sale, creditIDs)
	return args.Error(0)
}

func (m *MockPartnerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPartnerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPartnerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PartnerServiceTestSuite struct {
	suite.Suite
	cfg             *config.Config
	mockPartnerRepo *MockPartnerRepository
	mockCreditRepo  *MockCreditRepository
	service         portssvc.PartnerSvcFacade
	operatorID      string
	seller          domain.BusinessPartner
	tradeDate       time.Time
}

func (suite *PartnerServiceTestSuite) SetupTest() {
	suite.cfg = testConfig()
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockCreditRepo = new(MockCreditRepository)
	suite.service = services.NewPartnerService(suite.cfg, suite.mockPartnerRepo, suite.mockCreditRepo)

	suite.operatorID = uuid.NewString()
	suite.tradeDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.seller = domain.BusinessPartner{
		PartnerID: uuid.NewString(),
		Name:      "Financiera Sur SA",
		TaxID:     "30326594306",
		IsActive:  true,
	}
}

func (suite *PartnerServiceTestSuite) expectActiveCredit(ctx context.Context, creditID string) {
	credit := domain.Credit{CreditID: creditID, Status: domain.CreditActive}
	suite.mockCreditRepo.On("FindCreditByID", ctx, creditID).Return(&credit, nil).Once()
}

// --- CreatePartner ---

func (suite *PartnerServiceTestSuite) TestCreatePartner_Success() {
	ctx := context.Background()
	req := dto.CreatePartnerRequest{
		Name:  "Financiera Sur SA",
		TaxID: "30-32659430-6",
		Email: "contacto@fsur.example",
	}

	suite.mockPartnerRepo.On("FindPartnerByTaxID", ctx, "30326594306").Return(nil, apperrors.ErrNotFound).Once()
	var saved domain.BusinessPartner
	suite.mockPartnerRepo.On("SavePartner", ctx, mock.AnythingOfType("domain.BusinessPartner")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.BusinessPartner)
	}).Return(nil).Once()

	partner, err := suite.service.CreatePartner(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal("30326594306", partner.TaxID)
	suite.True(partner.IsActive)
	suite.Equal(suite.operatorID, saved.CreatedBy)
	suite.NotEmpty(saved.PartnerID)
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_DuplicateTaxID() {
	ctx := context.Background()
	req := dto.CreatePartnerRequest{Name: "Other", TaxID: suite.seller.TaxID}

	suite.mockPartnerRepo.On("FindPartnerByTaxID", ctx, suite.seller.TaxID).Return(&suite.seller, nil).Once()

	_, err := suite.service.CreatePartner(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "SavePartner", mock.Anything, mock.Anything)
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_InvalidTaxID() {
	ctx := context.Background()
	req := dto.CreatePartnerRequest{Name: "Bad Check Digit", TaxID: "30-32659430-5"}

	_, err := suite.service.CreatePartner(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "FindPartnerByTaxID", mock.Anything, mock.Anything)
}

// --- UpdatePartner ---

func (suite *PartnerServiceTestSuite) TestUpdatePartner_PartialFields() {
	ctx := context.Background()
	existing := suite.seller
	existing.Phone = "+54 11 4000 1000"
	newName := "Financiera Sur S.A."

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, existing.PartnerID).Return(&existing, nil).Once()
	var updated domain.BusinessPartner
	suite.mockPartnerRepo.On("UpdatePartner", ctx, mock.AnythingOfType("domain.BusinessPartner")).Run(func(args mock.Arguments) {
		updated = args.Get(1).(domain.BusinessPartner)
	}).Return(nil).Once()

	partner, err := suite.service.UpdatePartner(ctx, existing.PartnerID, dto.UpdatePartnerRequest{Name: &newName}, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal(newName, partner.Name)
	suite.Equal(newName, updated.Name)
	// Fields omitted from the request stay untouched.
	suite.Equal("+54 11 4000 1000", updated.Phone)
	suite.Equal(suite.operatorID, updated.LastUpdatedBy)
}

// --- DeactivatePartner ---

func (suite *PartnerServiceTestSuite) TestDeactivatePartner_Success() {
	ctx := context.Background()
	partnerID := uuid.NewString()

	suite.mockPartnerRepo.On("DeactivatePartner", ctx, partnerID, suite.operatorID).Return(nil).Once()

	err := suite.service.DeactivatePartner(ctx, partnerID, suite.operatorID)

	suite.Require().NoError(err)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestDeactivatePartner_HousePartnerLocked() {
	ctx := context.Background()

	err := suite.service.DeactivatePartner(ctx, suite.cfg.HousePartnerID, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrHousePartnerLocked)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "DeactivatePartner", mock.Anything, mock.Anything, mock.Anything)
}

// --- RecordPurchase ---

func (suite *PartnerServiceTestSuite) TestRecordPurchase_ResetsOwnerToHouse() {
	ctx := context.Background()
	creditA := uuid.NewString()
	creditB := uuid.NewString()
	req := dto.RecordPurchaseRequest{
		PartnerID:  suite.seller.PartnerID,
		AnnualRate: decimal.RequireFromString("72.5"),
		Date:       suite.tradeDate,
		// The duplicate entry must collapse to one credit.
		CreditIDs: []string{creditA, creditB, creditA},
	}

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.seller.PartnerID).Return(&suite.seller, nil).Once()
	suite.expectActiveCredit(ctx, creditA)
	suite.expectActiveCredit(ctx, creditB)

	var savedPurchase domain.Purchase
	var savedCreditIDs []string
	var savedOwnerID *string
	suite.mockPartnerRepo.On("SavePurchase", ctx, mock.AnythingOfType("domain.Purchase"), mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedPurchase = args.Get(1).(domain.Purchase)
		savedCreditIDs = args.Get(2).([]string)
		savedOwnerID, _ = args.Get(3).(*string)
	}).Return(nil).Once()

	purchase, err := suite.service.RecordPurchase(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal(suite.seller.PartnerID, purchase.PartnerID)
	suite.True(purchase.AnnualRate.Equal(req.AnnualRate))
	suite.Equal([]string{creditA, creditB}, savedCreditIDs)
	suite.Require().NotNil(savedOwnerID)
	suite.Equal(suite.cfg.HousePartnerID, *savedOwnerID)
	suite.Equal(suite.operatorID, savedPurchase.CreatedBy)
	suite.mockCreditRepo.AssertNumberOfCalls(suite.T(), "FindCreditByID", 2)
}

func (suite *PartnerServiceTestSuite) TestRecordPurchase_NoOwnerReset() {
	ctx := context.Background()
	cfg := testConfig()
	cfg.OwnerResetOnRepurchase = false
	service := services.NewPartnerService(cfg, suite.mockPartnerRepo, suite.mockCreditRepo)
	creditID := uuid.NewString()
	req := dto.RecordPurchaseRequest{PartnerID: suite.seller.PartnerID, Date: suite.tradeDate, CreditIDs: []string{creditID}}

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.seller.PartnerID).Return(&suite.seller, nil).Once()
	suite.expectActiveCredit(ctx, creditID)
	var savedOwnerID *string
	suite.mockPartnerRepo.On("SavePurchase", ctx, mock.AnythingOfType("domain.Purchase"), mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedOwnerID, _ = args.Get(3).(*string)
	}).Return(nil).Once()

	_, err := service.RecordPurchase(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Nil(savedOwnerID)
}

func (suite *PartnerServiceTestSuite) TestRecordPurchase_InactivePartner() {
	ctx := context.Background()
	inactive := suite.seller
	inactive.IsActive = false
	req := dto.RecordPurchaseRequest{PartnerID: inactive.PartnerID, Date: suite.tradeDate, CreditIDs: []string{uuid.NewString()}}

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, inactive.PartnerID).Return(&inactive, nil).Once()

	_, err := suite.service.RecordPurchase(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPartnerInactive)
	suite.mockCreditRepo.AssertNotCalled(suite.T(), "FindCreditByID", mock.Anything, mock.Anything)
}

func (suite *PartnerServiceTestSuite) TestRecordPurchase_CreditNotActive() {
	ctx := context.Background()
	creditID := uuid.NewString()
	settled := domain.Credit{CreditID: creditID, Status: domain.CreditSettled}
	req := dto.RecordPurchaseRequest{PartnerID: suite.seller.PartnerID, Date: suite.tradeDate, CreditIDs: []string{creditID}}

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.seller.PartnerID).Return(&suite.seller, nil).Once()
	suite.mockCreditRepo.On("FindCreditByID", ctx, creditID).Return(&settled, nil).Once()

	_, err := suite.service.RecordPurchase(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditNotActive)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "SavePurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- RecordSale ---

func (suite *PartnerServiceTestSuite) TestRecordSale_Success() {
	ctx := context.Background()
	creditID := uuid.NewString()
	req := dto.RecordSaleRequest{
		PartnerID:   suite.seller.PartnerID,
		AnnualRate:  decimal.RequireFromString("65"),
		Date:        suite.tradeDate,
		HasResource: true,
		CreditIDs:   []string{creditID},
	}

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.seller.PartnerID).Return(&suite.seller, nil).Once()
	suite.expectActiveCredit(ctx, creditID)
	var savedSale domain.Sale
	suite.mockPartnerRepo.On("SaveSale", ctx, mock.AnythingOfType("domain.Sale"), []string{creditID}).Run(func(args mock.Arguments) {
		savedSale = args.Get(1).(domain.Sale)
	}).Return(nil).Once()

	sale, err := suite.service.RecordSale(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal(suite.seller.PartnerID, sale.PartnerID)
	suite.True(savedSale.HasResource)
	suite.Equal(suite.operatorID, savedSale.CreatedBy)
}

func (suite *PartnerServiceTestSuite) TestRecordSale_CreditNotActive() {
	ctx := context.Background()
	creditID := uuid.NewString()
	cancelled := domain.Credit{CreditID: creditID, Status: domain.CreditCancelled}
	req := dto.RecordSaleRequest{PartnerID: suite.seller.PartnerID, Date: suite.tradeDate, CreditIDs: []string{creditID}}

	suite.mockPartnerRepo.On("FindPartnerByID", ctx, suite.seller.PartnerID).Return(&suite.seller, nil).Once()
	suite.mockCreditRepo.On("FindCreditByID", ctx, creditID).Return(&cancelled, nil).Once()

	_, err := suite.service.RecordSale(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditNotActive)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "SaveSale", mock.Anything, mock.Anything, mock.Anything)
}

// --- Reads ---

func (suite *PartnerServiceTestSuite) TestGetPurchaseByID_NotFound() {
	ctx := context.Background()
	purchaseID := uuid.NewString()

	suite.mockPartnerRepo.On("FindPurchaseByID", ctx, purchaseID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetPurchaseByID(ctx, purchaseID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestPartnerService(t *testing.T) {
	suite.Run(t, new(PartnerServiceTestSuite))
}
