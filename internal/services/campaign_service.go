package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/repositories"
	"github.com/xenocrm/crm-backend/internal/rules"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampaignService handles campaign CRUD and the administrative status
// transitions that live outside the launch path.
type CampaignService struct {
	campaignRepo repositories.CampaignRepository
	logRepo      repositories.CommunicationLogRepository
	audience     *AudienceService
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaignRepo repositories.CampaignRepository,
	logRepo repositories.CommunicationLogRepository,
	audience *AudienceService,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		logRepo:      logRepo,
		audience:     audience,
	}
}

// Create validates the input, snapshots the current audience size and
// stores the campaign as a draft.
func (s *CampaignService) Create(ctx context.Context, input *models.CampaignInput, createdBy string) (*models.Campaign, error) {
	if err := rules.Validate(input.AudienceRules); err != nil {
		return nil, err
	}

	matched, err := s.audience.Resolve(ctx, input.AudienceRules)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		Name:          input.Name,
		Message:       input.Message,
		AudienceRules: input.AudienceRules,
		AudienceSize:  len(matched),
		Status:        models.CampaignStatusDraft,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign, nil
}

// GetByID retrieves a campaign by ID
func (s *CampaignService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// GetAll retrieves all campaigns
func (s *CampaignService) GetAll(ctx context.Context) ([]*models.Campaign, error) {
	return s.campaignRepo.FindAll(ctx)
}

// Update replaces a campaign's name, message and rules. Draft is the only
// state in which a campaign is editable; the audience size snapshot is
// recomputed from the new rules.
func (s *CampaignService) Update(ctx context.Context, id primitive.ObjectID, input *models.CampaignInput) (*models.Campaign, error) {
	campaign, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if campaign.Status != models.CampaignStatusDraft {
		return nil, validationErrorf("only draft campaigns can be edited (current status: %s)", campaign.Status)
	}

	if err := rules.Validate(input.AudienceRules); err != nil {
		return nil, err
	}

	matched, err := s.audience.Resolve(ctx, input.AudienceRules)
	if err != nil {
		return nil, err
	}

	campaign.Name = input.Name
	campaign.Message = input.Message
	campaign.AudienceRules = input.AudienceRules
	campaign.AudienceSize = len(matched)

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	return campaign, nil
}

// Delete removes a campaign and purges its communication logs
func (s *CampaignService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	if _, err := s.logRepo.DeleteByCampaignID(ctx, id); err != nil {
		return fmt.Errorf("failed to purge communication logs: %w", err)
	}

	return nil
}

// allowedTransitions are the administrative status moves made outside the
// launch path. Nothing in the dispatcher ever sets completed; that is an
// external action, exposed here.
var allowedTransitions = map[string][]string{
	models.CampaignStatusActive: {models.CampaignStatusPaused, models.CampaignStatusCompleted},
	models.CampaignStatusPaused: {models.CampaignStatusActive},
}

// UpdateStatus applies an administrative status transition
func (s *CampaignService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Campaign, error) {
	campaign, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range allowedTransitions[campaign.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, validationErrorf("cannot transition campaign from %s to %s", campaign.Status, status)
	}

	ok, err := s.campaignRepo.UpdateStatusIf(ctx, id, []string{campaign.Status}, status, "")
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}
	if !ok {
		return nil, validationErrorf("campaign status changed concurrently, retry")
	}

	campaign.Status = status
	return campaign, nil
}

// GetLogs returns every communication log for a campaign across all launches
func (s *CampaignService) GetLogs(ctx context.Context, id primitive.ObjectID) ([]*models.CommunicationLog, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.logRepo.FindByCampaignID(ctx, id)
}

// Count counts all campaigns
func (s *CampaignService) Count(ctx context.Context) (int64, error) {
	return s.campaignRepo.Count(ctx)
}
