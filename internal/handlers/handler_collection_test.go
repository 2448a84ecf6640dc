package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/handlers"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CollectionService ---
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}
func (m *MockCollectionService) ListCollectionsByInstallment(ctx context.Context, installmentID string) ([]domain.Collection, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collection), args.Error(1)
}
func (m *MockCollectionService) ListCollectionsByCredit(ctx context.Context, creditID string) ([]domain.Collection, error) {
	args := m.Called(ctx, creditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collection), args.Error(1)
}
func (m *MockCollectionService) ListCollectionsByDateRange(ctx context.Context, params dto.ListCollectionsParams) (*dto.ListCollectionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCollectionsResponse), args.Error(1)
}
func (m *MockCollectionService) RecordCollection(ctx context.Context, req dto.RecordCollectionRequest, creatorID string) (*domain.Collection, error) {
	args := m.Called(ctx, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}
func (m *MockCollectionService) AllocatePayment(ctx context.Context, creditID string, req dto.AllocatePaymentRequest, creatorID string) (*domain.AllocationResult, error) {
	args := m.Called(ctx, creditID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllocationResult), args.Error(1)
}
func (m *MockCollectionService) AllocateForClient(ctx context.Context, clientID string, req dto.AllocatePaymentRequest, creatorID string) (*domain.ClientAllocationResult, error) {
	args := m.Called(ctx, clientID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientAllocationResult), args.Error(1)
}
func (m *MockCollectionService) SettleInAdvance(ctx context.Context, creditID string, req dto.SettleInAdvanceRequest, creatorID string) (*domain.AllocationResult, error) {
	args := m.Called(ctx, creditID, req, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllocationResult), args.Error(1)
}
func (m *MockCollectionService) ForceSettleInstallment(ctx context.Context, installmentID string, req dto.ForceSettleRequest, requestingID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID, req, requestingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *MockCollectionService) SweepResiduals(ctx context.Context, creatorID string) (*domain.SweepSummary, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepSummary), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.CollectionSvcFacade = (*MockCollectionService)(nil)

// --- Test Suite ---
type CollectionHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockCreditService     *MockCreditService
	mockCollectionService *MockCollectionService
	jwtSecret             string
}

func (suite *CollectionHandlerTestSuite) generateTestToken(operatorID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "creditledger-test",
		Subject:   operatorID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *CollectionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockCreditService = new(MockCreditService)
	suite.mockCollectionService = new(MockCollectionService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Credit:     suite.mockCreditService,
		Collection: suite.mockCollectionService,
	})
}

// --- Test Cases ---

func (suite *CollectionHandlerTestSuite) TestRecordCollection_Success() {
	creatorID := uuid.NewString()
	installmentID := uuid.NewString()
	creditID := uuid.NewString()
	collectionDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	reqBody := dto.RecordCollectionRequest{
		InstallmentID:  installmentID,
		Amount:         decimal.RequireFromString("5500.00"),
		CollectionDate: collectionDate,
	}

	expectedCollection := &domain.Collection{
		CollectionID:     uuid.NewString(),
		InstallmentID:    installmentID,
		CreditID:         creditID,
		CollectionTypeID: uuid.NewString(),
		CollectionDate:   collectionDate,
		Capital:          decimal.RequireFromString("5000.00"),
		Interest:         decimal.RequireFromString("413.22"),
		Tax:              decimal.RequireFromString("86.78"),
		Total:            decimal.RequireFromString("5500.00"),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
			CreatedBy: creatorID,
		},
	}

	suite.mockCollectionService.On("RecordCollection",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(r dto.RecordCollectionRequest) bool {
			return r.InstallmentID == installmentID &&
				r.Amount.Equal(decimal.RequireFromString("5500.00")) &&
				r.CollectionDate.Equal(collectionDate)
		}),
		creatorID,
	).Return(expectedCollection, nil).Once()

	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/collections", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code, "Expected status Created")

	var responseBody dto.CollectionResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(expectedCollection.CollectionID, responseBody.CollectionID)
	suite.Equal(creditID, responseBody.CreditID)
	suite.True(responseBody.Total.Equal(decimal.RequireFromString("5500.00")))

	suite.mockCollectionService.AssertExpectations(suite.T())
	suite.mockCreditService.AssertNotCalled(suite.T(), "GetInstallmentByID")
}

func (suite *CollectionHandlerTestSuite) TestRecordCollection_OverCollection() {
	creatorID := uuid.NewString()
	installmentID := uuid.NewString()

	reqBody := dto.RecordCollectionRequest{
		InstallmentID:  installmentID,
		Amount:         decimal.RequireFromString("9999.00"),
		CollectionDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCollectionService.On("RecordCollection",
		mock.AnythingOfType("*context.valueCtx"),
		mock.AnythingOfType("dto.RecordCollectionRequest"),
		creatorID,
	).Return(nil, fmt.Errorf("record collection: %w", domain.ErrOverCollection)).Once()

	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/collections", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code, "Expected status Conflict")

	var errorBody map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &errorBody)
	suite.NoError(err)
	suite.Contains(errorBody["error"], "exceeds installment total")

	suite.mockCollectionService.AssertExpectations(suite.T())
}

func (suite *CollectionHandlerTestSuite) TestAllocatePayment_Success() {
	creatorID := uuid.NewString()
	creditID := uuid.NewString()
	collectionDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	reqBody := dto.AllocatePaymentRequest{
		Amount:         decimal.RequireFromString("10750.00"),
		CollectionDate: collectionDate,
	}

	expectedResult := &domain.AllocationResult{
		Collections: []domain.Collection{
			{
				CollectionID:   uuid.NewString(),
				InstallmentID:  uuid.NewString(),
				CreditID:       creditID,
				CollectionDate: collectionDate,
				Total:          decimal.RequireFromString("5500.00"),
			},
			{
				CollectionID:   uuid.NewString(),
				InstallmentID:  uuid.NewString(),
				CreditID:       creditID,
				CollectionDate: collectionDate,
				Total:          decimal.RequireFromString("5250.00"),
			},
		},
		Remainder:     decimal.Zero,
		CreditSettled: true,
	}

	suite.mockCollectionService.On("AllocatePayment",
		mock.AnythingOfType("*context.valueCtx"),
		creditID,
		mock.MatchedBy(func(r dto.AllocatePaymentRequest) bool {
			return r.Amount.Equal(decimal.RequireFromString("10750.00"))
		}),
		creatorID,
	).Return(expectedResult, nil).Once()

	body, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("/api/v1/credits/%s/collections", creditID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code, "Expected status Created")

	var responseBody dto.AllocationResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(responseBody.Collections, 2)
	suite.True(responseBody.Remainder.IsZero())
	suite.True(responseBody.CreditSettled)

	suite.mockCollectionService.AssertExpectations(suite.T())
}

func (suite *CollectionHandlerTestSuite) TestAllocatePayment_CreditNotActive() {
	creatorID := uuid.NewString()
	creditID := uuid.NewString()

	reqBody := dto.AllocatePaymentRequest{
		Amount:         decimal.NewFromInt(1000),
		CollectionDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCollectionService.On("AllocatePayment",
		mock.AnythingOfType("*context.valueCtx"),
		creditID,
		mock.AnythingOfType("dto.AllocatePaymentRequest"),
		creatorID,
	).Return(nil, fmt.Errorf("allocate payment: %w", services.ErrCreditNotActive)).Once()

	body, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("/api/v1/credits/%s/collections", creditID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code, "Expected status Conflict")
	suite.mockCollectionService.AssertExpectations(suite.T())
}

func (suite *CollectionHandlerTestSuite) TestSettleInAdvance_Success() {
	creatorID := uuid.NewString()
	creditID := uuid.NewString()
	settlementDate := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	reqBody := dto.SettleInAdvanceRequest{SettlementDate: settlementDate}

	expectedResult := &domain.AllocationResult{
		Collections: []domain.Collection{
			{
				CollectionID:   uuid.NewString(),
				InstallmentID:  uuid.NewString(),
				CreditID:       creditID,
				CollectionDate: settlementDate,
				Capital:        decimal.RequireFromString("5000.00"),
				Total:          decimal.RequireFromString("5000.00"),
			},
		},
		Remainder:     decimal.Zero,
		CreditSettled: true,
	}

	suite.mockCollectionService.On("SettleInAdvance",
		mock.AnythingOfType("*context.valueCtx"),
		creditID,
		mock.MatchedBy(func(r dto.SettleInAdvanceRequest) bool {
			return r.SettlementDate.Equal(settlementDate)
		}),
		creatorID,
	).Return(expectedResult, nil).Once()

	body, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("/api/v1/credits/%s/settlement", creditID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code, "Expected status OK")

	var responseBody dto.AllocationResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(responseBody.Collections, 1)
	suite.True(responseBody.CreditSettled)

	suite.mockCollectionService.AssertExpectations(suite.T())
}

func (suite *CollectionHandlerTestSuite) TestForceSettleInstallment_Premature() {
	requestingID := uuid.NewString()
	installmentID := uuid.NewString()

	reqBody := dto.ForceSettleRequest{
		SettlementDate: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCollectionService.On("ForceSettleInstallment",
		mock.AnythingOfType("*context.valueCtx"),
		installmentID,
		mock.AnythingOfType("dto.ForceSettleRequest"),
		requestingID,
	).Return(nil, fmt.Errorf("settle installment: %w", domain.ErrPrematureSettlement)).Once()

	body, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("/api/v1/installments/%s/settle", installmentID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(requestingID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code, "Expected status Conflict")

	var errorBody map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &errorBody)
	suite.NoError(err)
	suite.Contains(errorBody["error"], "not fully collected")

	suite.mockCollectionService.AssertExpectations(suite.T())
}

func (suite *CollectionHandlerTestSuite) TestSweepResiduals_Success() {
	creatorID := uuid.NewString()

	expectedSummary := &domain.SweepSummary{
		CreditsSwept: 3,
		Collections:  4,
		TotalWaived:  decimal.RequireFromString("0.03"),
	}

	suite.mockCollectionService.On("SweepResiduals",
		mock.AnythingOfType("*context.valueCtx"),
		creatorID,
	).Return(expectedSummary, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/collections/sweep", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(creatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code, "Expected status OK")

	var responseBody dto.SweepResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(3, responseBody.CreditsSwept)
	suite.Equal(4, responseBody.Collections)
	suite.True(responseBody.TotalWaived.Equal(decimal.RequireFromString("0.03")))

	suite.mockCollectionService.AssertExpectations(suite.T())
}

func (suite *CollectionHandlerTestSuite) TestGetCollection_NotFound() {
	operatorID := uuid.NewString()
	collectionID := uuid.NewString()

	suite.mockCollectionService.On("GetCollectionByID",
		mock.AnythingOfType("*context.valueCtx"),
		collectionID,
	).Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/collections/"+collectionID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(operatorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code, "Expected status NotFound")
	suite.mockCollectionService.AssertExpectations(suite.T())
}

// TODO: Add tests for other scenarios:
// - Allocation against a client via /clients/:clientID/collections
// - ListCollectionsByDateRange with a missing "to" bound
// - RecordCollection with an inactive collection type (400)

// --- Run Test Suite ---
func TestCollectionHandler(t *testing.T) {
	suite.Run(t, new(CollectionHandlerTestSuite))
}
