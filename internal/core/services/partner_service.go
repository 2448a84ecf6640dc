package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/credisur/creditledger/internal/utils/identity"
)

var (
	ErrPartnerInactive    = errors.New("partner is not active")
	ErrHousePartnerLocked = errors.New("house partner cannot be deactivated")
)

// partnerService provides business partner and portfolio trade operations.
type partnerService struct {
	partnerRepo            portsrepo.PartnerRepositoryWithTx
	creditRepo             portsrepo.CreditReader
	housePartnerID         string
	ownerResetOnRepurchase bool
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(cfg *config.Config, partnerRepo portsrepo.PartnerRepositoryWithTx, creditRepo portsrepo.CreditReader) portssvc.PartnerSvcFacade {
	return &partnerService{
		partnerRepo:            partnerRepo,
		creditRepo:             creditRepo,
		housePartnerID:         cfg.HousePartnerID,
		ownerResetOnRepurchase: cfg.OwnerResetOnRepurchase,
	}
}

// Ensure partnerService implements the portssvc.PartnerSvcFacade interface
var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

// CreatePartner creates a new business partner. The tax ID is normalized and
// checksum-validated before storage; CUIT uses the same mod-11 scheme as CUIL.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, creatorID string) (*domain.BusinessPartner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	taxID, err := identity.NormalizeCUIL(req.TaxID)
	if err != nil {
		return nil, err
	}

	existing, err := s.partnerRepo.FindPartnerByTaxID(ctx, taxID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check tax ID uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: tax ID %s belongs to partner %s", apperrors.ErrDuplicate, taxID, existing.PartnerID)
	}

	now := time.Now().UTC()
	partner := domain.BusinessPartner{
		PartnerID: uuid.NewString(),
		Name:      req.Name,
		TaxID:     taxID,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		logger.Error("Failed to save partner", slog.String("error", err.Error()), slog.String("tax_id", taxID))
		return nil, fmt.Errorf("failed to save partner: %w", err)
	}

	logger.Info("Partner created", slog.String("partner_id", partner.PartnerID), slog.String("name", partner.Name))
	return &partner, nil
}

// UpdatePartner updates an existing business partner's mutable fields.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, requestingID string) (*domain.BusinessPartner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner: %w", err)
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.Email != nil {
		partner.Email = *req.Email
	}
	if req.Phone != nil {
		partner.Phone = *req.Phone
	}
	partner.LastUpdatedAt = time.Now().UTC()
	partner.LastUpdatedBy = requestingID

	if err := s.partnerRepo.UpdatePartner(ctx, *partner); err != nil {
		logger.Error("Failed to update partner", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	logger.Info("Partner updated", slog.String("partner_id", partnerID))
	return partner, nil
}

// DeactivatePartner marks a business partner inactive. The house partner is
// protected because origination assigns it every new installment.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) DeactivatePartner(ctx context.Context, partnerID string, requestingID string) error {
	if partnerID == s.housePartnerID {
		return ErrHousePartnerLocked
	}
	if err := s.partnerRepo.DeactivatePartner(ctx, partnerID, requestingID); err != nil {
		return fmt.Errorf("failed to deactivate partner: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Partner deactivated", slog.String("partner_id", partnerID))
	return nil
}

// GetPartnerByID retrieves a business partner by its ID.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) GetPartnerByID(ctx context.Context, partnerID string) (*domain.BusinessPartner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch partner: %w", err)
	}
	return partner, nil
}

// ListPartners retrieves a paginated list of business partners.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) ListPartners(ctx context.Context, params dto.ListPartnersParams) (*dto.ListPartnersResponse, error) {
	partners, nextToken, err := s.partnerRepo.ListPartners(ctx, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list partners", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return &dto.ListPartnersResponse{
		Partners:  dto.ToPartnerResponses(partners),
		NextToken: nextToken,
	}, nil
}

// tradableCredits dedupes the credit IDs of a trade and verifies each credit
// exists and is active.
func (s *partnerService) tradableCredits(ctx context.Context, creditIDs []string) ([]string, error) {
	ids := uniqueStrings(creditIDs)
	for _, creditID := range ids {
		credit, err := s.creditRepo.FindCreditByID(ctx, creditID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch credit %s: %w", creditID, err)
		}
		if credit.Status != domain.CreditActive {
			return nil, fmt.Errorf("%w: credit %s has status %s", ErrCreditNotActive, creditID, credit.Status)
		}
	}
	return ids, nil
}

// RecordPurchase registers a portfolio purchase and links the bought credits
// to it. When owner reset is configured, the unsettled installments move back
// to the house partner in the same transaction.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, creatorID string) (*domain.Purchase, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	seller, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner: %w", err)
	}
	if !seller.IsActive {
		return nil, fmt.Errorf("%w: partner %s", ErrPartnerInactive, req.PartnerID)
	}

	creditIDs, err := s.tradableCredits(ctx, req.CreditIDs)
	if err != nil {
		return nil, err
	}

	var newOwnerID *string
	if s.ownerResetOnRepurchase {
		if s.housePartnerID == "" {
			return nil, ErrHousePartnerUnset
		}
		newOwnerID = &s.housePartnerID
	}

	now := time.Now().UTC()
	purchase := domain.Purchase{
		PurchaseID:  uuid.NewString(),
		PartnerID:   req.PartnerID,
		AnnualRate:  req.AnnualRate,
		Date:        req.Date,
		HasResource: req.HasResource,
		HasVAT:      req.HasVAT,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.partnerRepo.SavePurchase(ctx, purchase, creditIDs, newOwnerID); err != nil {
		logger.Error("Failed to save purchase", slog.String("error", err.Error()), slog.String("partner_id", req.PartnerID))
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	logger.Info("Purchase recorded", slog.String("purchase_id", purchase.PurchaseID), slog.String("partner_id", purchase.PartnerID), slog.Int("credits", len(creditIDs)))
	return &purchase, nil
}

// RecordSale registers a portfolio sale and reassigns the sold credits'
// unsettled installments to the buying partner in the same transaction.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) RecordSale(ctx context.Context, req dto.RecordSaleRequest, creatorID string) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	buyer, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner: %w", err)
	}
	if !buyer.IsActive {
		return nil, fmt.Errorf("%w: partner %s", ErrPartnerInactive, req.PartnerID)
	}

	creditIDs, err := s.tradableCredits(ctx, req.CreditIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := domain.Sale{
		SaleID:      uuid.NewString(),
		PartnerID:   req.PartnerID,
		AnnualRate:  req.AnnualRate,
		Date:        req.Date,
		HasResource: req.HasResource,
		HasVAT:      req.HasVAT,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.partnerRepo.SaveSale(ctx, sale, creditIDs); err != nil {
		logger.Error("Failed to save sale", slog.String("error", err.Error()), slog.String("partner_id", req.PartnerID))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	logger.Info("Sale recorded", slog.String("sale_id", sale.SaleID), slog.String("partner_id", sale.PartnerID), slog.Int("credits", len(creditIDs)))
	return &sale, nil
}

// GetPurchaseByID retrieves a purchase by its ID.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	purchase, err := s.partnerRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch purchase: %w", err)
	}
	return purchase, nil
}

// GetSaleByID retrieves a sale by its ID.
// Implements portssvc.PartnerSvcFacade
func (s *partnerService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	sale, err := s.partnerRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch sale: %w", err)
	}
	return sale, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
