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
)

// --- Mock ClientRepository ---
type MockClientRepository struct {
	mock.Mock
}

// Ensure MockClientRepository implements portsrepo.ClientRepositoryWithTx
var _ portsrepo.ClientRepositoryWithTx = (*MockClientRepository)(nil)

func (m *MockClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindClientByCUIL(ctx context.Context, cuil string) (*domain.Client, error) {
	args := m.Called(ctx, cuil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context, limit int, nextToken *string) ([]domain.Client, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Client), returnedNextToken, args.Error(2)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeactivateClient(ctx context.Context, clientID string, updatedBy string) error {
	args := m.Called(ctx, clientID, updatedBy)
	return args.Error(0)
}

func (m *MockClientRepository) FindPhonesByClientID(ctx context.Context, clientID string) ([]domain.ClientPhone, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientPhone), args.Error(1)
}

func (m *MockClientRepository) FindAddressesByClientID(ctx context.Context, clientID string) ([]domain.ClientAddress, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientAddress), args.Error(1)
}

func (m *MockClientRepository) FindEmploymentByClientID(ctx context.Context, clientID string) ([]domain.EmploymentRecord, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmploymentRecord), args.Error(1)
}

func (m *MockClientRepository) SavePhone(ctx context.Context, phone domain.ClientPhone) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *MockClientRepository) ArchivePhone(ctx context.Context, phoneID string, updatedBy string) error {
	args := m.Called(ctx, phoneID, updatedBy)
	return args.Error(0)
}

func (m *MockClientRepository) SaveAddress(ctx context.Context, address domain.ClientAddress) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockClientRepository) ArchiveAddress(ctx context.Context, addressID string, updatedBy string) error {
	args := m.Called(ctx, addressID, updatedBy)
	return args.Error(0)
}

func (m *MockClientRepository) SaveEmployment(ctx context.Context, employment domain.EmploymentRecord) error {
	args := m.Called(ctx, employment)
	return args.Error(0)
}

func (m *MockClientRepository) ArchiveEmployment(ctx context.Context, employmentID string, updatedBy string) error {
	args := m.Called(ctx, employmentID, updatedBy)
	return args.Error(0)
}

func (m *MockClientRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockClientRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockClientRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ClientServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	service        portssvc.ClientSvcFacade
	operatorID     string
	client         domain.Client
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.service = services.NewClientService(suite.mockClientRepo)

	suite.operatorID = uuid.NewString()
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	suite.client = domain.Client{
		ClientID:   uuid.NewString(),
		FirstName:  "Marta",
		LastName:   "Galarza",
		DNI:        "32659430",
		CUIL:       "27326594306",
		IsActive:   true,
		StatusDate: &now,
	}
}

// --- CreateClient ---

func (suite *ClientServiceTestSuite) TestCreateClient_NormalizesIdentity() {
	ctx := context.Background()
	req := dto.CreateClientRequest{
		FirstName: "Marta",
		LastName:  "Galarza",
		DNI:       "32.659.430",
		CUIL:      "27-32659430-6",
	}

	suite.mockClientRepo.On("FindClientByCUIL", ctx, "27326594306").Return(nil, apperrors.ErrNotFound).Once()
	var saved domain.Client
	suite.mockClientRepo.On("SaveClient", ctx, mock.AnythingOfType("domain.Client")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Client)
	}).Return(nil).Once()

	client, err := suite.service.CreateClient(ctx, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal("32659430", client.DNI)
	suite.Equal("27326594306", client.CUIL)
	suite.True(client.IsActive)
	suite.NotNil(client.StatusDate)
	suite.Equal(suite.operatorID, saved.CreatedBy)
	suite.NotEmpty(saved.ClientID)
}

func (suite *ClientServiceTestSuite) TestCreateClient_DNIMismatch() {
	ctx := context.Background()
	req := dto.CreateClientRequest{
		FirstName: "Marta",
		LastName:  "Galarza",
		DNI:       "30000000",
		CUIL:      "27326594306",
	}

	_, err := suite.service.CreateClient(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClientByCUIL", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestCreateClient_DuplicateCUIL() {
	ctx := context.Background()
	req := dto.CreateClientRequest{
		FirstName: "Marta",
		LastName:  "Galarza",
		DNI:       "32659430",
		CUIL:      "27326594306",
	}

	suite.mockClientRepo.On("FindClientByCUIL", ctx, "27326594306").Return(&suite.client, nil).Once()

	_, err := suite.service.CreateClient(ctx, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "SaveClient", mock.Anything, mock.Anything)
}

// --- UpdateClient ---

func (suite *ClientServiceTestSuite) TestUpdateClient_PartialFields() {
	ctx := context.Background()
	existing := suite.client
	existing.Street = "Av. Rivadavia 2100"
	newLastName := "Galarza de Paz"

	suite.mockClientRepo.On("FindClientByID", ctx, existing.ClientID).Return(&existing, nil).Once()
	var updated domain.Client
	suite.mockClientRepo.On("UpdateClient", ctx, mock.AnythingOfType("domain.Client")).Run(func(args mock.Arguments) {
		updated = args.Get(1).(domain.Client)
	}).Return(nil).Once()

	client, err := suite.service.UpdateClient(ctx, existing.ClientID, dto.UpdateClientRequest{LastName: &newLastName}, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal(newLastName, client.LastName)
	// Identity numbers and omitted fields survive the update untouched.
	suite.Equal(existing.CUIL, updated.CUIL)
	suite.Equal("Av. Rivadavia 2100", updated.Street)
	suite.Equal(suite.operatorID, updated.LastUpdatedBy)
}

// --- DeactivateClient ---

func (suite *ClientServiceTestSuite) TestDeactivateClient_Success() {
	ctx := context.Background()

	suite.mockClientRepo.On("DeactivateClient", ctx, suite.client.ClientID, suite.operatorID).Return(nil).Once()

	err := suite.service.DeactivateClient(ctx, suite.client.ClientID, suite.operatorID)

	suite.Require().NoError(err)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

// --- Child records ---

func (suite *ClientServiceTestSuite) TestAddPhone_Success() {
	ctx := context.Background()
	req := dto.AddPhoneRequest{Number: "+54 9 11 5555 0100", Kind: "MOBILE"}

	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	var saved domain.ClientPhone
	suite.mockClientRepo.On("SavePhone", ctx, mock.AnythingOfType("domain.ClientPhone")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.ClientPhone)
	}).Return(nil).Once()

	phone, err := suite.service.AddPhone(ctx, suite.client.ClientID, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal(suite.client.ClientID, phone.ClientID)
	suite.Equal(req.Number, saved.Number)
	suite.Equal(suite.operatorID, saved.CreatedBy)
}

func (suite *ClientServiceTestSuite) TestAddPhone_InactiveClient() {
	ctx := context.Background()
	inactive := suite.client
	inactive.IsActive = false

	suite.mockClientRepo.On("FindClientByID", ctx, inactive.ClientID).Return(&inactive, nil).Once()

	_, err := suite.service.AddPhone(ctx, inactive.ClientID, dto.AddPhoneRequest{Number: "123"}, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrClientInactive)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "SavePhone", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestArchivePhone_Success() {
	ctx := context.Background()
	phone := domain.ClientPhone{PhoneID: uuid.NewString(), ClientID: suite.client.ClientID, Number: "123"}

	suite.mockClientRepo.On("FindPhonesByClientID", ctx, suite.client.ClientID).Return([]domain.ClientPhone{phone}, nil).Once()
	suite.mockClientRepo.On("ArchivePhone", ctx, phone.PhoneID, suite.operatorID).Return(nil).Once()

	err := suite.service.ArchivePhone(ctx, suite.client.ClientID, phone.PhoneID, suite.operatorID)

	suite.Require().NoError(err)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestArchivePhone_NotOwned() {
	ctx := context.Background()
	otherPhone := domain.ClientPhone{PhoneID: uuid.NewString(), ClientID: suite.client.ClientID}

	suite.mockClientRepo.On("FindPhonesByClientID", ctx, suite.client.ClientID).Return([]domain.ClientPhone{otherPhone}, nil).Once()

	err := suite.service.ArchivePhone(ctx, suite.client.ClientID, uuid.NewString(), suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "ArchivePhone", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestAddEmployment_NegativeIncome() {
	ctx := context.Background()
	req := dto.AddEmploymentRequest{Employer: "Acme", MonthlyIncome: decimal.NewFromInt(-1)}

	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()

	_, err := suite.service.AddEmployment(ctx, suite.client.ClientID, req, suite.operatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "SaveEmployment", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestAddEmployment_Success() {
	ctx := context.Background()
	since := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	req := dto.AddEmploymentRequest{
		Employer:      "Acme SRL",
		Position:      "Vendedora",
		MonthlyIncome: decimal.NewFromInt(950000),
		Since:         &since,
	}

	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	var saved domain.EmploymentRecord
	suite.mockClientRepo.On("SaveEmployment", ctx, mock.AnythingOfType("domain.EmploymentRecord")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.EmploymentRecord)
	}).Return(nil).Once()

	record, err := suite.service.AddEmployment(ctx, suite.client.ClientID, req, suite.operatorID)

	suite.Require().NoError(err)
	suite.Equal(suite.client.ClientID, record.ClientID)
	suite.True(saved.MonthlyIncome.Equal(req.MonthlyIncome))
	suite.Equal(&since, saved.Since)
}

// --- Reads ---

func (suite *ClientServiceTestSuite) TestGetClientByCUIL_NormalizesInput() {
	ctx := context.Background()

	suite.mockClientRepo.On("FindClientByCUIL", ctx, "27326594306").Return(&suite.client, nil).Once()

	client, err := suite.service.GetClientByCUIL(ctx, "27-32659430-6")

	suite.Require().NoError(err)
	suite.Equal(suite.client.ClientID, client.ClientID)
}

func (suite *ClientServiceTestSuite) TestGetClientDetail_Success() {
	ctx := context.Background()
	phones := []domain.ClientPhone{{PhoneID: uuid.NewString(), ClientID: suite.client.ClientID, Number: "123"}}
	addresses := []domain.ClientAddress{{AddressID: uuid.NewString(), ClientID: suite.client.ClientID, Street: "Mitre 55"}}
	employment := []domain.EmploymentRecord{{EmploymentID: uuid.NewString(), ClientID: suite.client.ClientID, Employer: "Acme SRL", MonthlyIncome: decimal.NewFromInt(950000)}}

	suite.mockClientRepo.On("FindClientByID", ctx, suite.client.ClientID).Return(&suite.client, nil).Once()
	suite.mockClientRepo.On("FindPhonesByClientID", ctx, suite.client.ClientID).Return(phones, nil).Once()
	suite.mockClientRepo.On("FindAddressesByClientID", ctx, suite.client.ClientID).Return(addresses, nil).Once()
	suite.mockClientRepo.On("FindEmploymentByClientID", ctx, suite.client.ClientID).Return(employment, nil).Once()

	detail, err := suite.service.GetClientDetail(ctx, suite.client.ClientID)

	suite.Require().NoError(err)
	suite.Equal(suite.client.ClientID, detail.Client.ClientID)
	suite.Len(detail.Phones, 1)
	suite.Len(detail.Addresses, 1)
	suite.Len(detail.Employment, 1)
}

// --- Run Test Suite ---
func TestClientService(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}
