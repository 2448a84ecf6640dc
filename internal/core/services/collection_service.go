package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/core/ports/events"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/credisur/creditledger/internal/utils/allocation"
)

var (
	ErrAmountNotPositive      = errors.New("amount must be positive")
	ErrInstallmentSettled     = errors.New("installment is already settled")
	ErrCollectionTypeInactive = errors.New("collection type is not active")
	ErrNoActiveCredits        = errors.New("client has no active credits")
)

// collectionService provides payment application and allocation operations.
// All ledger arithmetic that depends on current installment state happens in
// the repository under the credit row lock; this layer resolves catalog
// references, validates intent, and publishes events after commit.
type collectionService struct {
	collectionRepo    portsrepo.CollectionRepositoryWithTx
	creditRepo        portsrepo.CreditRepositoryFacade
	catalogSvc        portssvc.CatalogReaderSvc
	publisher         events.Publisher
	tolerance         decimal.Decimal
	residualThreshold decimal.Decimal
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(cfg *config.Config, collectionRepo portsrepo.CollectionRepositoryWithTx, creditRepo portsrepo.CreditRepositoryFacade, catalogSvc portssvc.CatalogReaderSvc, publisher events.Publisher) portssvc.CollectionSvcFacade {
	return &collectionService{
		collectionRepo:    collectionRepo,
		creditRepo:        creditRepo,
		catalogSvc:        catalogSvc,
		publisher:         publisher,
		tolerance:         cfg.SettleTolerance,
		residualThreshold: cfg.ResidualThreshold,
	}
}

// Ensure collectionService implements the portssvc.CollectionSvcFacade interface
var _ portssvc.CollectionSvcFacade = (*collectionService)(nil)

// activeCollectionType resolves a collection type by code and rejects
// inactive ones.
func (s *collectionService) activeCollectionType(ctx context.Context, code string) (*domain.CollectionType, error) {
	ct, err := s.catalogSvc.GetCollectionTypeByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection type %s: %w", code, err)
	}
	if !ct.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrCollectionTypeInactive, code)
	}
	return ct, nil
}

func (s *collectionService) publishEvent(ctx context.Context, event string, key string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, key, payload); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish event", slog.String("event", event), slog.String("key", key), slog.String("error", err.Error()))
	}
}

// RecordCollection applies a single payment against one installment,
// decomposed in the installment's own capital, interest and tax proportions.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) RecordCollection(ctx context.Context, req dto.RecordCollectionRequest, creatorID string) (*domain.Collection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrAmountNotPositive, req.Amount.String())
	}

	code := req.CollectionTypeCode
	if code == "" {
		code = domain.CollectionOrdinary
	}
	collectionType, err := s.activeCollectionType(ctx, code)
	if err != nil {
		return nil, err
	}

	installment, err := s.creditRepo.FindInstallmentByID(ctx, req.InstallmentID)
	if err != nil {
		logger.Error("Failed to fetch installment for collection", slog.String("error", err.Error()), slog.String("installment_id", req.InstallmentID))
		return nil, fmt.Errorf("failed to fetch installment: %w", err)
	}
	if installment.IsSettled() {
		return nil, fmt.Errorf("%w: installment %s", ErrInstallmentSettled, req.InstallmentID)
	}

	// The decomposition uses only the immutable original components, so it is
	// safe outside the transaction. The cumulative over-collection check runs
	// again inside the repository under the credit row lock.
	capital, interest, tax := allocation.Split(*installment, req.Amount)

	now := time.Now().UTC()
	collection := domain.Collection{
		CollectionID:     uuid.NewString(),
		InstallmentID:    installment.InstallmentID,
		CreditID:         installment.CreditID,
		CollectionTypeID: collectionType.CollectionTypeID,
		CollectionDate:   req.CollectionDate,
		Capital:          capital,
		Interest:         interest,
		Tax:              tax,
		Total:            req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	saved, err := s.collectionRepo.RecordCollection(ctx, collection)
	if err != nil {
		if errors.Is(err, domain.ErrOverCollection) {
			return nil, err
		}
		logger.Error("Failed to record collection", slog.String("error", err.Error()), slog.String("installment_id", req.InstallmentID))
		return nil, fmt.Errorf("failed to record collection: %w", err)
	}

	logger.Info("Collection recorded", slog.String("collection_id", saved.CollectionID), slog.String("installment_id", saved.InstallmentID), slog.String("amount", saved.Total.String()))
	s.publishEvent(ctx, events.CollectionRecorded, saved.CreditID, dto.ToCollectionResponse(saved))

	// Only a payment that covers the installment can have settled the credit.
	if allocation.Covers(installment.CollectedTotal.Add(req.Amount), installment.Total, s.tolerance) {
		s.notifyIfSettled(ctx, saved.CreditID, req.CollectionDate)
	}

	return saved, nil
}

// notifyIfSettled publishes the settled event when the credit reached settled
// status. Runs after commit, so a failed reload only loses the notification.
func (s *collectionService) notifyIfSettled(ctx context.Context, creditID string, settledOn time.Time) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to reload credit after settlement check", slog.String("error", err.Error()), slog.String("credit_id", creditID))
		return
	}
	if credit.IsSettled() {
		s.publishEvent(ctx, events.CreditSettled, creditID, dto.CreditSettledEvent{CreditID: creditID, SettledOn: settledOn})
	}
}

// AllocatePayment spreads a payment across a credit's outstanding
// installments oldest first and returns any unapplied remainder.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) AllocatePayment(ctx context.Context, creditID string, req dto.AllocatePaymentRequest, creatorID string) (*domain.AllocationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrAmountNotPositive, req.Amount.String())
	}

	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch credit: %w", err)
	}
	if credit.Status != domain.CreditActive {
		return nil, fmt.Errorf("%w: credit %s has status %s", ErrCreditNotActive, creditID, credit.Status)
	}

	collectionType, err := s.activeCollectionType(ctx, domain.CollectionOrdinary)
	if err != nil {
		return nil, err
	}

	result, err := s.collectionRepo.AllocatePayment(ctx, creditID, req.Amount, req.CollectionDate, collectionType.CollectionTypeID, creatorID)
	if err != nil {
		logger.Error("Failed to allocate payment", slog.String("error", err.Error()), slog.String("credit_id", creditID))
		return nil, fmt.Errorf("failed to allocate payment: %w", err)
	}

	logger.Info("Payment allocated",
		slog.String("credit_id", creditID),
		slog.Int("collections", len(result.Collections)),
		slog.String("remainder", result.Remainder.String()))

	if len(result.Collections) > 0 {
		s.publishEvent(ctx, events.CollectionRecorded, creditID, dto.ToAllocationResponse(result))
	}
	if result.CreditSettled {
		s.publishEvent(ctx, events.CreditSettled, creditID, dto.CreditSettledEvent{CreditID: creditID, SettledOn: req.CollectionDate})
	}

	return result, nil
}

// AllocateForClient spreads one payment across all of a client's active
// credits in allocation order, earliest outstanding due date first. Each
// credit commits independently; a failure mid-way reports the error and
// keeps the collections already applied.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) AllocateForClient(ctx context.Context, clientID string, req dto.AllocatePaymentRequest, creatorID string) (*domain.ClientAllocationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrAmountNotPositive, req.Amount.String())
	}

	credits, err := s.creditRepo.FindActiveCreditsByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client credits: %w", err)
	}
	if len(credits) == 0 {
		return nil, fmt.Errorf("%w: client %s", ErrNoActiveCredits, clientID)
	}

	collectionType, err := s.activeCollectionType(ctx, domain.CollectionOrdinary)
	if err != nil {
		return nil, err
	}

	result := &domain.ClientAllocationResult{Remainder: req.Amount}
	for _, credit := range credits {
		if !result.Remainder.IsPositive() {
			break
		}
		res, err := s.collectionRepo.AllocatePayment(ctx, credit.CreditID, result.Remainder, req.CollectionDate, collectionType.CollectionTypeID, creatorID)
		if err != nil {
			logger.Error("Failed to allocate payment during client allocation", slog.String("error", err.Error()), slog.String("credit_id", credit.CreditID), slog.String("client_id", clientID))
			return nil, fmt.Errorf("failed to allocate against credit %s: %w", credit.CreditID, err)
		}
		result.Results = append(result.Results, *res)
		result.Remainder = res.Remainder

		if len(res.Collections) > 0 {
			s.publishEvent(ctx, events.CollectionRecorded, credit.CreditID, dto.ToAllocationResponse(res))
		}
		if res.CreditSettled {
			s.publishEvent(ctx, events.CreditSettled, credit.CreditID, dto.CreditSettledEvent{CreditID: credit.CreditID, SettledOn: req.CollectionDate})
		}
	}

	logger.Info("Client payment allocated",
		slog.String("client_id", clientID),
		slog.Int("credits", len(result.Results)),
		slog.String("remainder", result.Remainder.String()))
	return result, nil
}

// SettleInAdvance clears a credit early. Remaining capital is collected as an
// advance payment and the remaining interest and tax are waived, so the
// client pays only the capital still owed.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) SettleInAdvance(ctx context.Context, creditID string, req dto.SettleInAdvanceRequest, creatorID string) (*domain.AllocationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch credit: %w", err)
	}
	if credit.Status != domain.CreditActive {
		return nil, fmt.Errorf("%w: credit %s has status %s", ErrCreditNotActive, creditID, credit.Status)
	}

	advanceType, err := s.activeCollectionType(ctx, domain.CollectionAdvance)
	if err != nil {
		return nil, err
	}
	waiverType, err := s.activeCollectionType(ctx, domain.CollectionBonus)
	if err != nil {
		return nil, err
	}

	result, err := s.collectionRepo.SettleInAdvance(ctx, creditID, req.SettlementDate, advanceType.CollectionTypeID, waiverType.CollectionTypeID, creatorID)
	if err != nil {
		logger.Error("Failed to settle credit in advance", slog.String("error", err.Error()), slog.String("credit_id", creditID))
		return nil, fmt.Errorf("failed to settle in advance: %w", err)
	}

	logger.Info("Credit settled in advance", slog.String("credit_id", creditID), slog.Int("collections", len(result.Collections)))
	s.publishEvent(ctx, events.CollectionRecorded, creditID, dto.ToAllocationResponse(result))
	if result.CreditSettled {
		s.publishEvent(ctx, events.CreditSettled, creditID, dto.CreditSettledEvent{CreditID: creditID, SettledOn: req.SettlementDate})
	}
	return result, nil
}

// ForceSettleInstallment stamps the settlement date on a fully collected
// installment whose settlement did not get recorded, typically after a
// repaired collection import.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) ForceSettleInstallment(ctx context.Context, installmentID string, req dto.ForceSettleRequest, requestingID string) (*domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	installment, err := s.collectionRepo.ForceSettleInstallment(ctx, installmentID, req.SettlementDate, requestingID)
	if err != nil {
		if errors.Is(err, domain.ErrPrematureSettlement) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to force settle installment", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
		return nil, fmt.Errorf("failed to force settle installment: %w", err)
	}

	logger.Info("Installment force settled", slog.String("installment_id", installmentID), slog.String("credit_id", installment.CreditID))
	s.notifyIfSettled(ctx, installment.CreditID, req.SettlementDate)
	return installment, nil
}

// SweepResiduals waives sub-threshold residuals on every credit that has
// them so near-settled installments can close. One failing credit does not
// abort the pass.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) SweepResiduals(ctx context.Context, creatorID string) (*domain.SweepSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	waiverType, err := s.activeCollectionType(ctx, domain.CollectionRounding)
	if err != nil {
		return nil, err
	}

	creditIDs, err := s.collectionRepo.FindCreditIDsWithResiduals(ctx, s.residualThreshold)
	if err != nil {
		logger.Error("Failed to find credits with residuals", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to find credits with residuals: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	summary := &domain.SweepSummary{TotalWaived: decimal.Zero}
	for _, creditID := range creditIDs {
		result, err := s.collectionRepo.SweepCreditResiduals(ctx, creditID, s.residualThreshold, today, waiverType.CollectionTypeID, creatorID)
		if err != nil {
			logger.Error("Failed to sweep credit residuals", slog.String("error", err.Error()), slog.String("credit_id", creditID))
			continue
		}
		if len(result.Collections) == 0 {
			continue
		}
		summary.CreditsSwept++
		summary.Collections += len(result.Collections)
		for _, c := range result.Collections {
			summary.TotalWaived = summary.TotalWaived.Add(c.Total)
		}
		if result.CreditSettled {
			s.publishEvent(ctx, events.CreditSettled, creditID, dto.CreditSettledEvent{CreditID: creditID, SettledOn: today})
		}
	}

	logger.Info("Residual sweep finished",
		slog.Int("credits_swept", summary.CreditsSwept),
		slog.Int("collections", summary.Collections),
		slog.String("total_waived", summary.TotalWaived.String()))
	if summary.Collections > 0 {
		s.publishEvent(ctx, events.ResidualsSwept, today.Format("2006-01-02"), summary)
	}
	return summary, nil
}

// GetCollectionByID retrieves a collection by its ID.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	collection, err := s.collectionRepo.FindCollectionByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch collection: %w", err)
	}
	return collection, nil
}

// ListCollectionsByInstallment retrieves an installment's collections ordered
// by collection date.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) ListCollectionsByInstallment(ctx context.Context, installmentID string) ([]domain.Collection, error) {
	collections, err := s.collectionRepo.FindCollectionsByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installment collections: %w", err)
	}
	return collections, nil
}

// ListCollectionsByCredit retrieves a credit's collections ordered by
// collection date.
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) ListCollectionsByCredit(ctx context.Context, creditID string) ([]domain.Collection, error) {
	collections, err := s.collectionRepo.FindCollectionsByCreditID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit collections: %w", err)
	}
	return collections, nil
}

// ListCollectionsByDateRange retrieves a paginated list of collections whose
// collection date falls in [from, to).
// Implements portssvc.CollectionSvcFacade
func (s *collectionService) ListCollectionsByDateRange(ctx context.Context, params dto.ListCollectionsParams) (*dto.ListCollectionsResponse, error) {
	if !params.To.After(params.From) {
		return nil, fmt.Errorf("%w: to %s must be after from %s", apperrors.ErrValidation, params.To.Format("2006-01-02"), params.From.Format("2006-01-02"))
	}

	collections, nextToken, err := s.collectionRepo.FindCollectionsByDateRange(ctx, params.From, params.To, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list collections by date range", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	return &dto.ListCollectionsResponse{
		Collections: dto.ToCollectionResponses(collections),
		NextToken:   nextToken,
	}, nil
}
