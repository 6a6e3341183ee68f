package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xenocrm/crm-backend/internal/services"
)

// AnalyticsHandler serves dashboard aggregates
type AnalyticsHandler struct {
	customerService *services.CustomerService
	orderService    *services.OrderService
	campaignService *services.CampaignService
	dispatcher      *services.CampaignDispatcher
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	customerService *services.CustomerService,
	orderService *services.OrderService,
	campaignService *services.CampaignService,
	dispatcher *services.CampaignDispatcher,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		customerService: customerService,
		orderService:    orderService,
		campaignService: campaignService,
		dispatcher:      dispatcher,
	}
}

// Overview handles GET /analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	totalCustomers, err := h.customerService.Count(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	totalOrders, err := h.orderService.Count(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	totalCampaigns, err := h.campaignService.Count(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	revenue, err := h.orderService.RevenueStats(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	topCustomers, err := h.customerService.TopBySpend(c, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers":      totalCustomers,
		"totalOrders":         totalOrders,
		"totalCampaigns":      totalCampaigns,
		"totalRevenue":        revenue.TotalRevenue,
		"avgOrderValue":       revenue.AvgOrderValue,
		"topSpendingCustomers": topCustomers,
	})
}

// Campaigns handles GET /analytics/campaigns: per-campaign delivery stats
func (h *AnalyticsHandler) Campaigns(c *gin.Context) {
	campaigns, err := h.campaignService.GetAll(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load campaigns"})
		return
	}

	type campaignAnalytics struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Status       string `json:"status"`
		AudienceSize int    `json:"audienceSize"`
		Total        int    `json:"total"`
		Sent         int    `json:"sent"`
		Failed       int    `json:"failed"`
		Pending      int    `json:"pending"`
	}

	results := make([]campaignAnalytics, 0, len(campaigns))
	for _, campaign := range campaigns {
		stats, err := h.dispatcher.Stats(c, campaign.ID)
		if err != nil {
			continue
		}
		results = append(results, campaignAnalytics{
			ID:           campaign.ID.Hex(),
			Name:         campaign.Name,
			Status:       campaign.Status,
			AudienceSize: campaign.AudienceSize,
			Total:        stats.Total,
			Sent:         stats.Sent,
			Failed:       stats.Failed,
			Pending:      stats.Pending,
		})
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": results})
}
