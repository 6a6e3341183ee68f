package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/rules"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCampaignService(customers ...*models.Customer) (*CampaignService, *fakeCampaignRepo, *fakeLogRepo) {
	customerRepo := &fakeCustomerRepo{}
	for _, c := range customers {
		_ = customerRepo.Create(context.Background(), c)
	}
	campaignRepo := &fakeCampaignRepo{}
	logRepo := &fakeLogRepo{}
	audience := NewAudienceService(customerRepo)
	return NewCampaignService(campaignRepo, logRepo, audience), campaignRepo, logRepo
}

func campaignInput() *models.CampaignInput {
	return &models.CampaignInput{
		Name:    "Win-back",
		Message: "We miss you, {name}!",
		AudienceRules: []models.AudienceRule{
			{Field: "totalSpends", Operator: models.OpGreaterThan, Value: float64(10000)},
		},
	}
}

func TestCreateCampaignSnapshotsAudienceSize(t *testing.T) {
	svc, _, _ := newCampaignService(
		&models.Customer{Name: "Amit", Email: "amit@example.com", TotalSpends: 15000},
		&models.Customer{Name: "Ravi", Email: "ravi@example.com", TotalSpends: 500},
	)

	campaign, err := svc.Create(context.Background(), campaignInput(), "admin@example.com")
	require.NoError(t, err)

	assert.Equal(t, models.CampaignStatusDraft, campaign.Status)
	assert.Equal(t, 1, campaign.AudienceSize)
	assert.Equal(t, "admin@example.com", campaign.CreatedBy)
	assert.False(t, campaign.ID.IsZero())
}

func TestCreateCampaignRejectsInvalidRules(t *testing.T) {
	svc, _, _ := newCampaignService()

	input := campaignInput()
	input.AudienceRules = []models.AudienceRule{
		{Field: "loyaltyTier", Operator: models.OpEquals, Value: "gold"},
	}

	_, err := svc.Create(context.Background(), input, "admin@example.com")
	require.Error(t, err)
	var ruleErr *rules.InvalidRuleError
	assert.ErrorAs(t, err, &ruleErr)
}

func TestUpdateCampaignDraftOnly(t *testing.T) {
	svc, campaignRepo, _ := newCampaignService(
		&models.Customer{Name: "Amit", Email: "amit@example.com", TotalSpends: 15000},
	)

	campaign, err := svc.Create(context.Background(), campaignInput(), "admin@example.com")
	require.NoError(t, err)

	updatedInput := campaignInput()
	updatedInput.Name = "Win-back v2"
	updatedInput.AudienceRules = []models.AudienceRule{
		{Field: "totalSpends", Operator: models.OpGreaterThan, Value: float64(100)},
	}

	updated, err := svc.Update(context.Background(), campaign.ID, updatedInput)
	require.NoError(t, err)
	assert.Equal(t, "Win-back v2", updated.Name)
	assert.Equal(t, 1, updated.AudienceSize)

	// Once launched, the campaign is frozen.
	ok, err := campaignRepo.UpdateStatusIf(context.Background(), campaign.ID, []string{models.CampaignStatusDraft}, models.CampaignStatusActive, "launch-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Update(context.Background(), campaign.ID, updatedInput)
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, campaignRepo, _ := newCampaignService(
		&models.Customer{Name: "Amit", Email: "amit@example.com", TotalSpends: 15000},
	)

	campaign, err := svc.Create(context.Background(), campaignInput(), "admin@example.com")
	require.NoError(t, err)

	// Draft campaigns cannot be completed or paused by hand; launch is the
	// only way out of draft.
	_, err = svc.UpdateStatus(context.Background(), campaign.ID, models.CampaignStatusCompleted)
	require.Error(t, err)

	ok, err := campaignRepo.UpdateStatusIf(context.Background(), campaign.ID, []string{models.CampaignStatusDraft}, models.CampaignStatusActive, "launch-1")
	require.NoError(t, err)
	require.True(t, ok)

	paused, err := svc.UpdateStatus(context.Background(), campaign.ID, models.CampaignStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusPaused, paused.Status)

	resumed, err := svc.UpdateStatus(context.Background(), campaign.ID, models.CampaignStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, resumed.Status)

	completed, err := svc.UpdateStatus(context.Background(), campaign.ID, models.CampaignStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusCompleted, completed.Status)

	// Completed is terminal for administrative moves.
	_, err = svc.UpdateStatus(context.Background(), campaign.ID, models.CampaignStatusActive)
	require.Error(t, err)
}

func TestDeleteCampaignPurgesLogs(t *testing.T) {
	svc, _, logRepo := newCampaignService(
		&models.Customer{Name: "Amit", Email: "amit@example.com", TotalSpends: 15000},
	)

	campaign, err := svc.Create(context.Background(), campaignInput(), "admin@example.com")
	require.NoError(t, err)

	_, err = logRepo.CreateMany(context.Background(), []*models.CommunicationLog{
		{CampaignID: campaign.ID, CustomerEmail: "amit@example.com", Status: models.LogStatusSent},
		{CampaignID: campaign.ID, CustomerEmail: "priya@example.com", Status: models.LogStatusFailed},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), campaign.ID))

	_, err = svc.GetByID(context.Background(), campaign.ID)
	require.ErrorIs(t, err, ErrNotFound)

	logs, err := logRepo.FindByCampaignID(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestGetByIDUnknownCampaign(t *testing.T) {
	svc, _, _ := newCampaignService()
	_, err := svc.GetByID(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}
