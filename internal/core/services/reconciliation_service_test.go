package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/core/ports/events"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
)

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

// Ensure MockReconciliationRepository implements portsrepo.ReconciliationRepositoryFacade
var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SnapshotCredit(ctx context.Context, creditID string) (*portsrepo.CreditSnapshot, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.CreditSnapshot), args.Error(1)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo  *MockReconciliationRepository
	mockCreditRepo *MockCreditRepository
	mockPublisher  *MockPublisher
	service        portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockCreditRepo = new(MockCreditRepository)
	suite.mockPublisher = new(MockPublisher)
	// Most tests provoke violations; the failure event is asserted where it matters.
	suite.mockPublisher.On("Publish", mock.Anything, events.ReconciliationFailed, mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.service = services.NewReconciliationService(testConfig(), suite.mockReconRepo, suite.mockCreditRepo, suite.mockPublisher)
}

// cleanSnapshot builds a three-installment credit whose arithmetic holds: the
// first installment fully collected and settled, the rest untouched.
func (suite *ReconciliationServiceTestSuite) cleanSnapshot() *portsrepo.CreditSnapshot {
	creditID := uuid.NewString()
	settledOn := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	installments := make([]domain.Installment, 3)
	for i := range installments {
		installments[i] = domain.Installment{
			InstallmentID:  uuid.NewString(),
			CreditID:       creditID,
			InstNum:        i + 1,
			DueDate:        time.Date(2024, time.Month(4+i), 28, 0, 0, 0, 0, time.UTC),
			Capital:        decimal.NewFromInt(1000),
			Interest:       decimal.NewFromInt(200),
			Tax:            decimal.NewFromInt(42),
			Total:          decimal.NewFromInt(1242),
			CollectedTotal: decimal.Zero,
		}
	}
	installments[0].CollectedTotal = decimal.NewFromInt(1242)
	installments[0].SettlementDate = &settledOn

	return &portsrepo.CreditSnapshot{
		Credit: domain.Credit{
			CreditID:        creditID,
			Status:          domain.CreditActive,
			AmountDisbursed: decimal.NewFromInt(3000),
			Term:            3,
		},
		Installments: installments,
		// Unpaid installments have no collection rows at all; their sum must
		// read as zero.
		CollectedTotals: map[string]decimal.Decimal{
			installments[0].InstallmentID: decimal.NewFromInt(1242),
		},
		CollectionRowCounts: map[string]int{
			installments[0].InstallmentID: 2,
		},
	}
}

func (suite *ReconciliationServiceTestSuite) violationCodes(report *domain.ReconciliationReport) []domain.ViolationCode {
	codes := make([]domain.ViolationCode, 0, len(report.Violations))
	for _, v := range report.Violations {
		codes = append(codes, v.Code)
	}
	return codes
}

// --- CheckCredit ---

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_Passes() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.True(report.Passed)
	suite.Empty(report.Violations)
	suite.Equal(snapshot.Credit.CreditID, report.CreditID)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_IdempotentOnUnchangedState() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	snapshot.Installments[2].DueDate = snapshot.Installments[1].DueDate

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Twice()

	first, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)
	suite.Require().NoError(err)
	second, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)
	suite.Require().NoError(err)

	// Checking never mutates, so rereading the same state must reproduce the
	// same verdict and the same violations.
	suite.Equal(first.Passed, second.Passed)
	suite.Equal(suite.violationCodes(first), suite.violationCodes(second))
	suite.False(first.Passed)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_SequenceGap() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	snapshot.Installments[1].InstNum = 3
	snapshot.Installments[2].InstNum = 4

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.False(report.Passed)
	codes := suite.violationCodes(report)
	suite.Equal([]domain.ViolationCode{domain.ViolationSequenceGap, domain.ViolationSequenceGap}, codes)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_DueDateOrder() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	snapshot.Installments[2].DueDate = snapshot.Installments[1].DueDate

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Violations, 1)
	suite.Equal(domain.ViolationDueDateOrder, report.Violations[0].Code)
	suite.Equal(snapshot.Installments[2].InstallmentID, report.Violations[0].InstallmentID)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_Decomposition() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	snapshot.Installments[1].Total = decimal.RequireFromString("1242.01")

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Violations, 1)
	suite.Equal(domain.ViolationDecomposition, report.Violations[0].Code)
	suite.Equal(2, report.Violations[0].InstNum)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_CapitalSum() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	snapshot.Credit.AmountDisbursed = decimal.NewFromInt(3100)

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Violations, 1)
	suite.Equal(domain.ViolationCapitalSum, report.Violations[0].Code)
	suite.Empty(report.Violations[0].InstallmentID)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_OverCollected() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	over := decimal.NewFromInt(1300)
	snapshot.Installments[0].CollectedTotal = over
	snapshot.CollectedTotals[snapshot.Installments[0].InstallmentID] = over

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Violations, 1)
	suite.Equal(domain.ViolationOverCollected, report.Violations[0].Code)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_SettledShort() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	short := decimal.NewFromInt(600)
	snapshot.Installments[0].CollectedTotal = short
	snapshot.CollectedTotals[snapshot.Installments[0].InstallmentID] = short

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Violations, 1)
	suite.Equal(domain.ViolationSettledShort, report.Violations[0].Code)
	suite.Equal(1, report.Violations[0].InstNum)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_CollectedTotalOutOfSync() {
	ctx := context.Background()
	snapshot := suite.cleanSnapshot()
	// Rows sum to the full amount but the denormalized column lagged behind.
	snapshot.Installments[0].CollectedTotal = decimal.NewFromInt(1200)

	suite.mockReconRepo.On("SnapshotCredit", ctx, snapshot.Credit.CreditID).Return(snapshot, nil).Once()

	report, err := suite.service.CheckCredit(ctx, snapshot.Credit.CreditID)

	suite.Require().NoError(err)
	codes := suite.violationCodes(report)
	suite.Contains(codes, domain.ViolationCollectedSync)
}

func (suite *ReconciliationServiceTestSuite) TestCheckCredit_SnapshotError() {
	ctx := context.Background()
	creditID := uuid.NewString()

	suite.mockReconRepo.On("SnapshotCredit", ctx, creditID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CheckCredit(ctx, creditID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- CheckAllCredits ---

func (suite *ReconciliationServiceTestSuite) TestCheckAllCredits_CollectsFailures() {
	ctx := context.Background()
	clean1 := suite.cleanSnapshot()
	clean2 := suite.cleanSnapshot()
	broken := suite.cleanSnapshot()
	broken.Credit.AmountDisbursed = decimal.NewFromInt(9999)

	creditIDs := []string{clean1.Credit.CreditID, broken.Credit.CreditID, clean2.Credit.CreditID}
	suite.mockCreditRepo.On("ListActiveCreditIDs", ctx).Return(creditIDs, nil).Once()
	// The workers run on the errgroup's derived context.
	suite.mockReconRepo.On("SnapshotCredit", mock.Anything, clean1.Credit.CreditID).Return(clean1, nil).Once()
	suite.mockReconRepo.On("SnapshotCredit", mock.Anything, clean2.Credit.CreditID).Return(clean2, nil).Once()
	suite.mockReconRepo.On("SnapshotCredit", mock.Anything, broken.Credit.CreditID).Return(broken, nil).Once()

	run, err := suite.service.CheckAllCredits(ctx)

	suite.Require().NoError(err)
	suite.Equal(3, run.CreditsChecked)
	suite.Require().Len(run.Failed, 1)
	suite.Equal(broken.Credit.CreditID, run.Failed[0].CreditID)
	suite.False(run.FinishedAt.Before(run.StartedAt))
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertCalled(suite.T(), "Publish", mock.Anything, events.ReconciliationFailed, broken.Credit.CreditID, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCheckAllCredits_NoActiveCredits() {
	ctx := context.Background()

	suite.mockCreditRepo.On("ListActiveCreditIDs", ctx).Return([]string{}, nil).Once()

	run, err := suite.service.CheckAllCredits(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, run.CreditsChecked)
	suite.Empty(run.Failed)
}

func (suite *ReconciliationServiceTestSuite) TestCheckAllCredits_PropagatesSnapshotError() {
	ctx := context.Background()
	clean := suite.cleanSnapshot()
	failingID := uuid.NewString()

	suite.mockCreditRepo.On("ListActiveCreditIDs", ctx).Return([]string{clean.Credit.CreditID, failingID}, nil).Once()
	// The failure cancels the group, so the clean credit may or may not be reached.
	suite.mockReconRepo.On("SnapshotCredit", mock.Anything, clean.Credit.CreditID).Return(clean, nil).Maybe()
	suite.mockReconRepo.On("SnapshotCredit", mock.Anything, failingID).Return(nil, apperrors.ErrInternal).Once()

	_, err := suite.service.CheckAllCredits(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

// --- Run Test Suite ---
func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
