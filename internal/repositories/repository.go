package repositories

import (
	"context"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindAll(ctx context.Context) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	FindTopBySpend(ctx context.Context, limit int) ([]*models.Customer, error)
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Order, error)
	FindAll(ctx context.Context) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	RevenueStats(ctx context.Context) (*models.RevenueStats, error)
}

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error)
	FindAll(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	// UpdateStatusIf atomically moves a campaign from one of the expected
	// statuses to the target status and records the launch id. Returns
	// false when the campaign was not in any expected status.
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from []string, to string, launchID string) (bool, error)
}

// CommunicationLogRepository defines the interface for per-recipient
// delivery records
type CommunicationLogRepository interface {
	CreateMany(ctx context.Context, logs []*models.CommunicationLog) ([]primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CommunicationLog, error)
	FindByCampaignID(ctx context.Context, campaignID primitive.ObjectID) ([]*models.CommunicationLog, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, messageID string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error
	CountByStatus(ctx context.Context, campaignID primitive.ObjectID) (*models.CampaignStats, error)
	FindStalePending(ctx context.Context, olderThan time.Time) ([]*models.CommunicationLog, error)
	DeleteByCampaignID(ctx context.Context, campaignID primitive.ObjectID) (int64, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
