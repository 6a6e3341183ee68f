package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/services"
)

// AIHandler handles AI-assisted helper endpoints. These never fail hard:
// upstream generation problems degrade to empty or canned results.
type AIHandler struct {
	aiService *services.AIService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// NaturalLanguageRules handles POST /ai/natural-language-rules
func (h *AIHandler) NaturalLanguageRules(c *gin.Context) {
	var request struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rules := h.aiService.NaturalLanguageToRules(c, request.Prompt)
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// MessageSuggestions handles POST /ai/message-suggestions
func (h *AIHandler) MessageSuggestions(c *gin.Context) {
	var request struct {
		Objective string `json:"objective" binding:"required"`
		Audience  string `json:"audience"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages := h.aiService.MessageSuggestions(c, request.Objective, request.Audience)
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CampaignSummary handles POST /ai/campaign-summary
func (h *AIHandler) CampaignSummary(c *gin.Context) {
	var stats models.CampaignStats
	if err := c.ShouldBindJSON(&stats); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary := h.aiService.CampaignSummary(c, &stats)
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SendTime handles POST /ai/send-time
func (h *AIHandler) SendTime(c *gin.Context) {
	var request struct {
		AudienceSize int    `json:"audienceSize"`
		CampaignType string `json:"campaignType"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion := h.aiService.SuggestSendTime(c, request.AudienceSize, request.CampaignType)
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// CampaignTags handles POST /ai/campaign-tags
func (h *AIHandler) CampaignTags(c *gin.Context) {
	var request struct {
		Name          string                `json:"name" binding:"required"`
		Message       string                `json:"message"`
		AudienceRules []models.AudienceRule `json:"audienceRules"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tags := h.aiService.CampaignTags(c, request.Name, request.Message, request.AudienceRules)
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
