package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/utils"
)

// --- Mock OperatorRepository ---
type MockOperatorRepository struct {
	mock.Mock
}

// Ensure MockOperatorRepository implements portsrepo.OperatorRepositoryFacade
var _ portsrepo.OperatorRepositoryFacade = (*MockOperatorRepository)(nil)

func (m *MockOperatorRepository) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindOperatorByGoogleID(ctx context.Context, googleID string) (*domain.Operator, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindOperators(ctx context.Context, limit int, offset int) ([]domain.Operator, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) SaveOperator(ctx context.Context, operator domain.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) UpdateOperator(ctx context.Context, operator domain.Operator) error {
	args := m.Called(ctx, operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) UpdateRefreshToken(ctx context.Context, operatorID string, tokenHash *string, expiresAt *time.Time) error {
	args := m.Called(ctx, operatorID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockOperatorRepository) MarkOperatorDeleted(ctx context.Context, operatorID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, operatorID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---
type OperatorServiceTestSuite struct {
	suite.Suite
	mockOperatorRepo *MockOperatorRepository
	service          portssvc.OperatorSvcFacade
	operator         domain.Operator
}

func (suite *OperatorServiceTestSuite) SetupTest() {
	suite.mockOperatorRepo = new(MockOperatorRepository)
	suite.service = services.NewOperatorService(suite.mockOperatorRepo)

	suite.operator = domain.Operator{
		OperatorID: uuid.NewString(),
		Username:   "mtorres",
		Name:       "Mariana Torres",
		Email:      "mtorres@credisur.example",
	}
}

// --- CreateOperator ---

func (suite *OperatorServiceTestSuite) TestCreateOperator_HashesPassword() {
	ctx := context.Background()
	req := dto.CreateOperatorRequest{
		Username: "mtorres",
		Name:     "Mariana Torres",
		Email:    "mtorres@credisur.example",
		Password: "sup3rsecret!",
	}

	suite.mockOperatorRepo.On("FindOperatorByUsername", ctx, "mtorres").Return(nil, apperrors.ErrNotFound).Once()
	var saved domain.Operator
	suite.mockOperatorRepo.On("SaveOperator", ctx, mock.AnythingOfType("domain.Operator")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Operator)
	}).Return(nil).Once()

	operator, err := suite.service.CreateOperator(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(operator.OperatorID)
	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, saved.PasswordHash))
	// Self-registered: the new operator is its own creator.
	suite.Equal(saved.OperatorID, saved.CreatedBy)
}

func (suite *OperatorServiceTestSuite) TestCreateOperator_DuplicateUsername() {
	ctx := context.Background()
	req := dto.CreateOperatorRequest{Username: "mtorres", Name: "Other", Password: "sup3rsecret!"}

	suite.mockOperatorRepo.On("FindOperatorByUsername", ctx, "mtorres").Return(&suite.operator, nil).Once()

	_, err := suite.service.CreateOperator(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockOperatorRepo.AssertNotCalled(suite.T(), "SaveOperator", mock.Anything, mock.Anything)
}

// --- AuthenticateOperator ---

func (suite *OperatorServiceTestSuite) TestAuthenticateOperator_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("sup3rsecret!")
	suite.Require().NoError(err)
	operator := suite.operator
	operator.PasswordHash = hash

	suite.mockOperatorRepo.On("FindOperatorByUsername", ctx, operator.Username).Return(&operator, nil).Once()

	got, err := suite.service.AuthenticateOperator(ctx, operator.Username, "sup3rsecret!")

	suite.Require().NoError(err)
	suite.Equal(operator.OperatorID, got.OperatorID)
}

func (suite *OperatorServiceTestSuite) TestAuthenticateOperator_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("sup3rsecret!")
	suite.Require().NoError(err)
	operator := suite.operator
	operator.PasswordHash = hash

	suite.mockOperatorRepo.On("FindOperatorByUsername", ctx, operator.Username).Return(&operator, nil).Once()

	_, err = suite.service.AuthenticateOperator(ctx, operator.Username, "wrong-password")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *OperatorServiceTestSuite) TestAuthenticateOperator_UnknownUsername() {
	ctx := context.Background()

	suite.mockOperatorRepo.On("FindOperatorByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateOperator(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	// Unknown usernames and wrong passwords must be indistinguishable.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *OperatorServiceTestSuite) TestAuthenticateOperator_GoogleOnlyAccount() {
	ctx := context.Background()
	operator := suite.operator
	operator.GoogleID = "google-sub-1"
	operator.PasswordHash = ""

	suite.mockOperatorRepo.On("FindOperatorByUsername", ctx, operator.Username).Return(&operator, nil).Once()

	_, err := suite.service.AuthenticateOperator(ctx, operator.Username, "anything")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- Reads and lifecycle ---

func (suite *OperatorServiceTestSuite) TestGetOperatorByID_Deleted() {
	ctx := context.Background()
	deleted := suite.operator
	deletedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	deleted.DeletedAt = &deletedAt

	suite.mockOperatorRepo.On("FindOperatorByID", ctx, deleted.OperatorID).Return(&deleted, nil).Once()

	_, err := suite.service.GetOperatorByID(ctx, deleted.OperatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *OperatorServiceTestSuite) TestUpdateOperator_PartialFields() {
	ctx := context.Background()
	existing := suite.operator
	newName := "Mariana Torres de Ruiz"

	suite.mockOperatorRepo.On("FindOperatorByID", ctx, existing.OperatorID).Return(&existing, nil).Once()
	var updated domain.Operator
	suite.mockOperatorRepo.On("UpdateOperator", ctx, mock.AnythingOfType("domain.Operator")).Run(func(args mock.Arguments) {
		updated = args.Get(1).(domain.Operator)
	}).Return(nil).Once()

	operator, err := suite.service.UpdateOperator(ctx, existing.OperatorID, dto.UpdateOperatorRequest{Name: &newName}, existing.OperatorID)

	suite.Require().NoError(err)
	suite.Equal(newName, operator.Name)
	suite.Equal(existing.Email, updated.Email)
}

func (suite *OperatorServiceTestSuite) TestUpdateRefreshToken_Persists() {
	ctx := context.Background()
	expiry := time.Now().UTC().Add(24 * time.Hour)

	var storedHash *string
	var storedExpiry *time.Time
	suite.mockOperatorRepo.On("UpdateRefreshToken", ctx, suite.operator.OperatorID, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		storedHash, _ = args.Get(2).(*string)
		storedExpiry, _ = args.Get(3).(*time.Time)
	}).Return(nil).Once()

	err := suite.service.UpdateRefreshToken(ctx, suite.operator.OperatorID, "hash-value", expiry)

	suite.Require().NoError(err)
	suite.Require().NotNil(storedHash)
	suite.Equal("hash-value", *storedHash)
	suite.Require().NotNil(storedExpiry)
	suite.True(storedExpiry.Equal(expiry))
}

func (suite *OperatorServiceTestSuite) TestClearRefreshToken_NilsOutBothColumns() {
	ctx := context.Background()

	suite.mockOperatorRepo.On("UpdateRefreshToken", ctx, suite.operator.OperatorID, (*string)(nil), (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.ClearRefreshToken(ctx, suite.operator.OperatorID)

	suite.Require().NoError(err)
	suite.mockOperatorRepo.AssertExpectations(suite.T())
}

func (suite *OperatorServiceTestSuite) TestDeleteOperator_Success() {
	ctx := context.Background()
	requestingID := uuid.NewString()

	suite.mockOperatorRepo.On("MarkOperatorDeleted", ctx, suite.operator.OperatorID, mock.AnythingOfType("time.Time"), requestingID).Return(nil).Once()

	err := suite.service.DeleteOperator(ctx, suite.operator.OperatorID, requestingID)

	suite.Require().NoError(err)
	suite.mockOperatorRepo.AssertExpectations(suite.T())
}

// --- Google login ---

func (suite *OperatorServiceTestSuite) TestFindOrCreateOperatorFromGoogle_ExistingAccount() {
	ctx := context.Background()
	existing := suite.operator
	existing.GoogleID = "google-sub-1"
	info := &domain.GoogleUserInfo{ID: "google-sub-1", Email: existing.Email, Name: existing.Name}

	suite.mockOperatorRepo.On("FindOperatorByGoogleID", ctx, "google-sub-1").Return(&existing, nil).Once()

	got, err := suite.service.FindOrCreateOperatorFromGoogle(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(existing.OperatorID, got.OperatorID)
	suite.mockOperatorRepo.AssertNotCalled(suite.T(), "SaveOperator", mock.Anything, mock.Anything)
}

func (suite *OperatorServiceTestSuite) TestFindOrCreateOperatorFromGoogle_FirstLogin() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{ID: "google-sub-2", Email: "nuevo@credisur.example", Name: "Nuevo Operador"}

	suite.mockOperatorRepo.On("FindOperatorByGoogleID", ctx, "google-sub-2").Return(nil, apperrors.ErrNotFound).Once()
	var saved domain.Operator
	suite.mockOperatorRepo.On("SaveOperator", ctx, mock.AnythingOfType("domain.Operator")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Operator)
	}).Return(nil).Once()

	got, err := suite.service.FindOrCreateOperatorFromGoogle(ctx, info)

	suite.Require().NoError(err)
	suite.Equal("google-sub-2", saved.GoogleID)
	suite.Equal(info.Email, saved.Username)
	suite.Empty(saved.PasswordHash)
	suite.Equal(saved.OperatorID, got.OperatorID)
}

func (suite *OperatorServiceTestSuite) TestFindOrCreateOperatorFromGoogle_DeletedAccount() {
	ctx := context.Background()
	deleted := suite.operator
	deleted.GoogleID = "google-sub-1"
	deletedAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	deleted.DeletedAt = &deletedAt
	info := &domain.GoogleUserInfo{ID: "google-sub-1", Email: deleted.Email}

	suite.mockOperatorRepo.On("FindOperatorByGoogleID", ctx, "google-sub-1").Return(&deleted, nil).Once()

	_, err := suite.service.FindOrCreateOperatorFromGoogle(ctx, info)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- Run Test Suite ---
func TestOperatorService(t *testing.T) {
	suite.Run(t, new(OperatorServiceTestSuite))
}
