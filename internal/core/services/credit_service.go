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
	"github.com/credisur/creditledger/internal/utils/amortization"
)

var (
	ErrClientInactive       = errors.New("client is not active")
	ErrCreditTypeInactive   = errors.New("credit type is not active")
	ErrPenaltyViaOriginate  = errors.New("penalty credits are created through the penalty operation")
	ErrCreditNotActive      = errors.New("credit is not active")
	ErrCreditHasCollections = errors.New("credit with collections cannot be cancelled")
	ErrHousePartnerUnset    = errors.New("house partner is not configured")
)

// creditService provides credit origination and schedule operations.
type creditService struct {
	creditRepo     portsrepo.CreditRepositoryWithTx
	collectionRepo portsrepo.CollectionReader
	catalogSvc     portssvc.CatalogReaderSvc
	clientSvc      portssvc.ClientReaderSvc
	publisher      events.Publisher
	taxRate        decimal.Decimal
	tolerance      decimal.Decimal
	dueDay         int
	housePartnerID string
}

// NewCreditService creates a new CreditService.
func NewCreditService(cfg *config.Config, creditRepo portsrepo.CreditRepositoryWithTx, collectionRepo portsrepo.CollectionReader, catalogSvc portssvc.CatalogReaderSvc, clientSvc portssvc.ClientReaderSvc, publisher events.Publisher) portssvc.CreditSvcFacade {
	return &creditService{
		creditRepo:     creditRepo,
		collectionRepo: collectionRepo,
		catalogSvc:     catalogSvc,
		clientSvc:      clientSvc,
		publisher:      publisher,
		taxRate:        cfg.TaxRate,
		tolerance:      cfg.SettleTolerance,
		dueDay:         cfg.DueDay,
		housePartnerID: cfg.HousePartnerID,
	}
}

// Ensure creditService implements the portssvc.CreditSvcFacade interface
var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// defaultFirstDueDate returns the configured due day in the month following
// disbursement. dueDay never exceeds 28, so the result is always a real date.
func (s *creditService) defaultFirstDueDate(disbursement time.Time) time.Time {
	return time.Date(disbursement.Year(), disbursement.Month()+1, s.dueDay, 0, 0, 0, 0, time.UTC)
}

// checkScheduleCapital verifies that the generated schedule returns exactly
// the disbursed amount as capital. The generators guarantee this; a mismatch
// means a bug upstream and must never reach the ledger.
func (s *creditService) checkScheduleCapital(drafts []domain.InstallmentDraft, amountDisbursed decimal.Decimal) error {
	sum := decimal.Zero
	for _, d := range drafts {
		sum = sum.Add(d.Capital)
	}
	if sum.Sub(amountDisbursed).Abs().GreaterThan(s.tolerance) {
		return fmt.Errorf("%w: schedule capital %s, amount disbursed %s", domain.ErrScheduleMismatch, sum.String(), amountDisbursed.String())
	}
	return nil
}

// publishEvent emits a ledger event without failing the operation. The write
// is already committed when this runs; a broker outage only loses the
// notification, never the ledger row.
func (s *creditService) publishEvent(ctx context.Context, event string, key string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, key, payload); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish event", slog.String("event", event), slog.String("key", key), slog.String("error", err.Error()))
	}
}

// materializeSchedule turns drafts into persistable installments owned by the
// house partner.
func (s *creditService) materializeSchedule(creditID string, drafts []domain.InstallmentDraft, now time.Time, creatorID string) []domain.Installment {
	installments := make([]domain.Installment, len(drafts))
	for i, d := range drafts {
		installments[i] = domain.Installment{
			InstallmentID:  uuid.NewString(),
			CreditID:       creditID,
			InstNum:        d.InstNum,
			DueDate:        d.DueDate,
			OwnerID:        s.housePartnerID,
			Capital:        d.Capital,
			Interest:       d.Interest,
			Tax:            d.Tax,
			Total:          d.Total,
			CollectedTotal: decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorID,
			},
		}
	}
	return installments
}

// OriginateCredit creates a credit and its full amortization schedule atomically.
// Implements portssvc.CreditSvcFacade
func (s *creditService) OriginateCredit(ctx context.Context, req dto.OriginateCreditRequest, creatorID string) (*domain.Credit, []domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.housePartnerID == "" {
		return nil, nil, ErrHousePartnerUnset
	}

	client, err := s.clientSvc.GetClientByID(ctx, req.ClientID)
	if err != nil {
		logger.Error("Failed to fetch client for origination", slog.String("error", err.Error()), slog.String("client_id", req.ClientID))
		return nil, nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	if !client.IsActive {
		return nil, nil, fmt.Errorf("%w: client %s", ErrClientInactive, req.ClientID)
	}

	creditType, err := s.catalogSvc.GetCreditTypeByID(ctx, req.CreditTypeID)
	if err != nil {
		logger.Error("Failed to fetch credit type for origination", slog.String("error", err.Error()), slog.String("credit_type_id", req.CreditTypeID))
		return nil, nil, fmt.Errorf("failed to fetch credit type: %w", err)
	}
	if !creditType.IsActive {
		return nil, nil, fmt.Errorf("%w: credit type %s", ErrCreditTypeInactive, req.CreditTypeID)
	}
	if creditType.ScheduleMethod == domain.SchedulePenalty {
		return nil, nil, ErrPenaltyViaOriginate
	}

	if req.OrganismID != nil {
		organism, err := s.catalogSvc.GetOrganismByID(ctx, *req.OrganismID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch organism: %w", err)
		}
		if !organism.IsActive {
			return nil, nil, fmt.Errorf("%w: organism %s is inactive", apperrors.ErrValidation, *req.OrganismID)
		}
	}

	firstDueDate := s.defaultFirstDueDate(req.DisbursementDate)
	if req.FirstDueDate != nil {
		firstDueDate = *req.FirstDueDate
	}

	now := time.Now().UTC()
	credit := domain.Credit{
		CreditID:         uuid.NewString(),
		OriginRef:        req.OriginRef,
		ClientID:         req.ClientID,
		CreditTypeID:     req.CreditTypeID,
		OrganismID:       req.OrganismID,
		DisbursementDate: req.DisbursementDate,
		FirstDueDate:     firstDueDate,
		AmountDisbursed:  req.AmountDisbursed,
		Capital:          req.AmountDisbursed,
		AnnualRate:       req.AnnualRate,
		Term:             req.Term,
		Status:           domain.CreditActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := credit.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	drafts, err := amortization.Generate(amortization.Params{
		Principal:        credit.Capital,
		AnnualRate:       credit.AnnualRate,
		Term:             credit.Term,
		DisbursementDate: credit.DisbursementDate,
		FirstDueDate:     credit.FirstDueDate,
		TaxRate:          s.taxRate,
		Method:           creditType.ScheduleMethod,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("schedule generation failed: %w", err)
	}
	if err := s.checkScheduleCapital(drafts, credit.AmountDisbursed); err != nil {
		logger.Error("Generated schedule does not return the disbursed capital", slog.String("error", err.Error()), slog.String("credit_id", credit.CreditID))
		return nil, nil, err
	}

	installments := s.materializeSchedule(credit.CreditID, drafts, now, creatorID)

	if err := s.creditRepo.SaveCreditWithSchedule(ctx, credit, installments); err != nil {
		logger.Error("Failed to save credit with schedule", slog.String("error", err.Error()), slog.String("client_id", req.ClientID))
		return nil, nil, fmt.Errorf("failed to save credit: %w", err)
	}

	logger.Info("Credit originated", slog.String("credit_id", credit.CreditID), slog.String("client_id", credit.ClientID), slog.Int("term", credit.Term))
	s.publishEvent(ctx, events.CreditOriginated, credit.CreditID, dto.ToCreditResponse(&credit))

	return &credit, installments, nil
}

// OriginatePenalty attaches a one-installment penalty credit to an existing
// credit. Nothing is disbursed; the surcharge is a pure finance charge split
// into interest and tax.
// Implements portssvc.CreditSvcFacade
func (s *creditService) OriginatePenalty(ctx context.Context, req dto.OriginatePenaltyRequest, creatorID string) (*domain.Credit, []domain.Installment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.housePartnerID == "" {
		return nil, nil, ErrHousePartnerUnset
	}
	if !req.Surcharge.IsPositive() {
		return nil, nil, fmt.Errorf("%w: surcharge must be positive, got %s", apperrors.ErrValidation, req.Surcharge.String())
	}

	origin, err := s.creditRepo.FindCreditByID(ctx, req.CreditID)
	if err != nil {
		logger.Error("Failed to fetch credit for penalty", slog.String("error", err.Error()), slog.String("credit_id", req.CreditID))
		return nil, nil, fmt.Errorf("failed to fetch credit: %w", err)
	}
	if origin.Status != domain.CreditActive {
		return nil, nil, fmt.Errorf("%w: credit %s has status %s", ErrCreditNotActive, origin.CreditID, origin.Status)
	}

	penaltyType, err := s.catalogSvc.GetCreditTypeByMethod(ctx, domain.SchedulePenalty)
	if err != nil {
		logger.Error("Failed to fetch penalty credit type", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to fetch penalty credit type: %w", err)
	}

	now := time.Now().UTC()
	drafts, err := amortization.Generate(amortization.Params{
		Principal:        req.Surcharge,
		Term:             1,
		DisbursementDate: now,
		FirstDueDate:     req.DueDate,
		TaxRate:          s.taxRate,
		Method:           domain.SchedulePenalty,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("schedule generation failed: %w", err)
	}

	// Penalty due dates may already be in the past, so the structural date
	// rule of Validate does not apply here.
	credit := domain.Credit{
		CreditID:         uuid.NewString(),
		ClientID:         origin.ClientID,
		CreditTypeID:     penaltyType.CreditTypeID,
		OrganismID:       origin.OrganismID,
		OriginCreditID:   &origin.CreditID,
		DisbursementDate: now,
		FirstDueDate:     req.DueDate,
		AmountDisbursed:  decimal.Zero,
		Capital:          decimal.Zero,
		AnnualRate:       decimal.Zero,
		Term:             1,
		Status:           domain.CreditActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.checkScheduleCapital(drafts, credit.AmountDisbursed); err != nil {
		return nil, nil, err
	}

	installments := s.materializeSchedule(credit.CreditID, drafts, now, creatorID)

	if err := s.creditRepo.SaveCreditWithSchedule(ctx, credit, installments); err != nil {
		logger.Error("Failed to save penalty credit", slog.String("error", err.Error()), slog.String("origin_credit_id", origin.CreditID))
		return nil, nil, fmt.Errorf("failed to save penalty credit: %w", err)
	}

	logger.Info("Penalty originated", slog.String("credit_id", credit.CreditID), slog.String("origin_credit_id", origin.CreditID), slog.String("surcharge", req.Surcharge.String()))
	s.publishEvent(ctx, events.CreditOriginated, credit.CreditID, dto.ToCreditResponse(&credit))

	return &credit, installments, nil
}

// CancelCredit transitions an active credit to cancelled. Credits with any
// collection applied must be corrected through counter-entries instead.
// Implements portssvc.CreditSvcFacade
func (s *creditService) CancelCredit(ctx context.Context, creditID string, requestingID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		return fmt.Errorf("failed to fetch credit: %w", err)
	}
	if credit.Status != domain.CreditActive {
		return fmt.Errorf("%w: credit %s has status %s", ErrCreditNotActive, creditID, credit.Status)
	}

	collections, err := s.collectionRepo.FindCollectionsByCreditID(ctx, creditID)
	if err != nil {
		return fmt.Errorf("failed to fetch collections: %w", err)
	}
	if len(collections) > 0 {
		return fmt.Errorf("%w: credit %s has %d collections", ErrCreditHasCollections, creditID, len(collections))
	}

	if err := s.creditRepo.UpdateCreditStatus(ctx, creditID, domain.CreditCancelled, requestingID); err != nil {
		logger.Error("Failed to cancel credit", slog.String("error", err.Error()), slog.String("credit_id", creditID))
		return fmt.Errorf("failed to cancel credit: %w", err)
	}

	logger.Info("Credit cancelled", slog.String("credit_id", creditID))
	return nil
}

// PreviewSchedule computes the installment drafts a credit would get without
// persisting anything.
// Implements portssvc.CreditSvcFacade
func (s *creditService) PreviewSchedule(ctx context.Context, req dto.PreviewScheduleRequest) ([]domain.InstallmentDraft, error) {
	creditType, err := s.catalogSvc.GetCreditTypeByID(ctx, req.CreditTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch credit type: %w", err)
	}

	firstDueDate := s.defaultFirstDueDate(req.DisbursementDate)
	if req.FirstDueDate != nil {
		firstDueDate = *req.FirstDueDate
	}

	drafts, err := amortization.Generate(amortization.Params{
		Principal:        req.AmountDisbursed,
		AnnualRate:       req.AnnualRate,
		Term:             req.Term,
		DisbursementDate: req.DisbursementDate,
		FirstDueDate:     firstDueDate,
		TaxRate:          s.taxRate,
		Method:           creditType.ScheduleMethod,
	})
	if err != nil {
		return nil, fmt.Errorf("schedule generation failed: %w", err)
	}
	return drafts, nil
}

// GetCreditByID retrieves a credit by its ID.
// Implements portssvc.CreditSvcFacade
func (s *creditService) GetCreditByID(ctx context.Context, creditID string) (*domain.Credit, error) {
	credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch credit", slog.String("error", err.Error()), slog.String("credit_id", creditID))
		return nil, fmt.Errorf("failed to fetch credit: %w", err)
	}
	return credit, nil
}

// GetCreditWithSchedule retrieves a credit together with its full installment
// schedule ordered by installment number.
// Implements portssvc.CreditSvcFacade
func (s *creditService) GetCreditWithSchedule(ctx context.Context, creditID string) (*domain.Credit, []domain.Installment, error) {
	credit, err := s.GetCreditByID(ctx, creditID)
	if err != nil {
		return nil, nil, err
	}
	installments, err := s.creditRepo.FindInstallmentsByCreditID(ctx, creditID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch installments: %w", err)
	}
	return credit, installments, nil
}

// ListCredits retrieves a paginated list of credits.
// Implements portssvc.CreditSvcFacade
func (s *creditService) ListCredits(ctx context.Context, params dto.ListCreditsParams) (*dto.ListCreditsResponse, error) {
	credits, nextToken, err := s.creditRepo.ListCredits(ctx, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list credits", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}

	resp := &dto.ListCreditsResponse{
		Credits:   make([]dto.CreditResponse, len(credits)),
		NextToken: nextToken,
	}
	for i := range credits {
		resp.Credits[i] = dto.ToCreditResponse(&credits[i])
	}
	return resp, nil
}

// ListCreditsByClient retrieves every credit of a client ordered by
// disbursement date.
// Implements portssvc.CreditSvcFacade
func (s *creditService) ListCreditsByClient(ctx context.Context, clientID string) ([]domain.Credit, error) {
	credits, err := s.creditRepo.FindCreditsByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client credits: %w", err)
	}
	return credits, nil
}

// GetInstallmentByID retrieves an installment by its ID.
// Implements portssvc.CreditSvcFacade
func (s *creditService) GetInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	installment, err := s.creditRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch installment: %w", err)
	}
	return installment, nil
}

// ListOverdueInstallments retrieves unsettled installments past their due
// date. AsOf defaults to today.
// Implements portssvc.CreditSvcFacade
func (s *creditService) ListOverdueInstallments(ctx context.Context, params dto.ListOverdueParams) (*dto.ListInstallmentsResponse, error) {
	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	installments, nextToken, err := s.creditRepo.FindOverdueInstallments(ctx, asOf, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list overdue installments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list overdue installments: %w", err)
	}

	resp := &dto.ListInstallmentsResponse{
		Installments: make([]dto.InstallmentResponse, len(installments)),
		NextToken:    nextToken,
	}
	for i := range installments {
		resp.Installments[i] = dto.ToInstallmentResponse(&installments[i])
	}
	return resp, nil
}
