package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/services"
	"github.com/xenocrm/crm-backend/pkg/emailgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignService *services.CampaignService
	audienceService *services.AudienceService
	dispatcher      *services.CampaignDispatcher
	gateway         emailgateway.Gateway
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(
	campaignService *services.CampaignService,
	audienceService *services.AudienceService,
	dispatcher *services.CampaignDispatcher,
	gateway emailgateway.Gateway,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		audienceService: audienceService,
		dispatcher:      dispatcher,
		gateway:         gateway,
	}
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var input models.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBy := c.GetString("userEmail")
	if createdBy == "" {
		createdBy = "unknown"
	}

	campaign, err := h.campaignService.Create(c, &input, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"campaign":     campaign,
		"audienceSize": campaign.AudienceSize,
	})
}

// GetAllCampaigns handles GET /campaigns
func (h *CampaignHandler) GetAllCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.GetAll(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// GetCampaignByID handles GET /campaigns/:id
func (h *CampaignHandler) GetCampaignByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	campaign, err := h.campaignService.GetByID(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// UpdateCampaign handles PUT /campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var input models.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.campaignService.Update(c, id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign handles DELETE /campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.campaignService.Delete(c, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

// UpdateCampaignStatus handles PUT /campaigns/:id/status
func (h *CampaignHandler) UpdateCampaignStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.campaignService.UpdateStatus(c, id, request.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// PreviewAudience handles POST /campaigns/preview
func (h *CampaignHandler) PreviewAudience(c *gin.Context) {
	var request struct {
		AudienceRules []models.AudienceRule `json:"audienceRules" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.audienceService.Preview(c, request.AudienceRules, 5)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// LaunchCampaign handles POST /campaigns/:id/launch
func (h *CampaignHandler) LaunchCampaign(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	queued, err := h.dispatcher.Launch(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Campaign launched successfully",
		"queued":  queued,
	})
}

// ResendCampaign handles POST /campaigns/:id/resend
func (h *CampaignHandler) ResendCampaign(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	queued, err := h.dispatcher.Resend(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Campaign resend started",
		"queued":  queued,
	})
}

// GetCampaignStats handles GET /campaigns/:id/stats
func (h *CampaignHandler) GetCampaignStats(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	stats, err := h.dispatcher.Stats(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCampaignLogs handles GET /campaigns/:id/logs
func (h *CampaignHandler) GetCampaignLogs(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	logs, err := h.campaignService.GetLogs(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// TestEmailConfig handles GET /campaigns/test-email
func (h *CampaignHandler) TestEmailConfig(c *gin.Context) {
	if err := h.gateway.Verify(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"connected": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// ProcessDeliveryReceipt handles POST /delivery-receipt (provider webhook)
func (h *CampaignHandler) ProcessDeliveryReceipt(c *gin.Context) {
	var request struct {
		LogID     string    `json:"logId" binding:"required"`
		Status    string    `json:"status" binding:"required"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logID, err := primitive.ObjectIDFromHex(request.LogID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID format"})
		return
	}

	ts := request.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if err := h.dispatcher.ProcessDeliveryReceipt(c, logID, request.Status, ts); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Delivery receipt processed successfully"})
}
