package services

import (
	"context"
	"fmt"

	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/repositories"
	"github.com/xenocrm/crm-backend/internal/rules"
)

// AudienceService resolves audience rules into concrete customer sets.
// It is a pure read over the customer store: resolving never mutates
// anything, and the result order is the store's natural order.
type AudienceService struct {
	customerRepo repositories.CustomerRepository
}

// AudiencePreview is the live preview returned to the rule builder UI
type AudiencePreview struct {
	AudienceSize    int                `json:"audienceSize"`
	SampleCustomers []*models.Customer `json:"sampleCustomers"`
}

// NewAudienceService creates a new AudienceService
func NewAudienceService(customerRepo repositories.CustomerRepository) *AudienceService {
	return &AudienceService{customerRepo: customerRepo}
}

// Resolve evaluates a rule list against the full customer set and returns
// the matching customers. The rule list must be non-empty and well formed;
// operator/field mismatches fail eagerly with rules.InvalidRuleError before
// any customer is read.
func (s *AudienceService) Resolve(ctx context.Context, rs []models.AudienceRule) ([]*models.Customer, error) {
	if len(rs) == 0 {
		return nil, validationErrorf("at least one audience rule is required")
	}

	predicate, err := rules.Compile(rs)
	if err != nil {
		return nil, err
	}

	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	matched := make([]*models.Customer, 0, len(customers))
	for _, c := range customers {
		if predicate(c) {
			matched = append(matched, c)
		}
	}

	return matched, nil
}

// Preview resolves the audience and returns its size with the first
// sampleSize matches
func (s *AudienceService) Preview(ctx context.Context, rs []models.AudienceRule, sampleSize int) (*AudiencePreview, error) {
	matched, err := s.Resolve(ctx, rs)
	if err != nil {
		return nil, err
	}

	sample := matched
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	return &AudiencePreview{
		AudienceSize:    len(matched),
		SampleCustomers: sample,
	}, nil
}
