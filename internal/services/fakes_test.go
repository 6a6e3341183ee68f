package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes shared across the service tests. They mirror
// the MongoDB implementations' contract, including mongo.ErrNoDocuments on
// missing records.

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers []*models.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = primitive.NewObjectID()
	r.customers = append(r.customers, customer)
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCustomerRepo) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCustomerRepo) FindAll(_ context.Context) ([]*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Customer, len(r.customers))
	copy(out, r.customers)
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.customers {
		if c.ID == customer.ID {
			r.customers[i] = customer
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.customers {
		if c.ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeCustomerRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.customers))
	r.customers = nil
	return n, nil
}

func (r *fakeCustomerRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) FindTopBySpend(_ context.Context, limit int) ([]*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Customer, len(r.customers))
	copy(out, r.customers)
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSpends > out[j].TotalSpends })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = primitive.NewObjectID()
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeOrderRepo) FindByCustomerID(_ context.Context, customerID primitive.ObjectID) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == order.ID {
			r.orders[i] = order
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeOrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) RevenueStats(_ context.Context) (*models.RevenueStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.RevenueStats{}
	count := 0
	for _, o := range r.orders {
		if o.Status != models.OrderStatusCompleted {
			continue
		}
		stats.TotalRevenue += o.Amount
		count++
	}
	if count > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(count)
	}
	return stats, nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns []*models.Campaign
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	campaign.ID = primitive.NewObjectID()
	r.campaigns = append(r.campaigns, campaign)
	return nil
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCampaignRepo) FindAll(_ context.Context) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Campaign, len(r.campaigns))
	copy(out, r.campaigns)
	return out, nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, campaign *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.campaigns {
		if c.ID == campaign.ID {
			r.campaigns[i] = campaign
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeCampaignRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.campaigns {
		if c.ID == id {
			r.campaigns = append(r.campaigns[:i], r.campaigns[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeCampaignRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.campaigns)), nil
}

func (r *fakeCampaignRepo) UpdateStatusIf(_ context.Context, id primitive.ObjectID, from []string, to string, launchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.ID != id {
			continue
		}
		for _, status := range from {
			if c.Status == status {
				c.Status = to
				c.UpdatedAt = time.Now()
				if launchID != "" {
					c.LaunchCount++
					c.LastLaunchID = launchID
				}
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*models.CommunicationLog
}

func (r *fakeLogRepo) CreateMany(_ context.Context, logs []*models.CommunicationLog) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(logs))
	for _, l := range logs {
		l.ID = primitive.NewObjectID()
		if l.CreatedAt.IsZero() {
			l.CreatedAt = time.Now()
		}
		l.UpdatedAt = l.CreatedAt
		r.logs = append(r.logs, l)
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func (r *fakeLogRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.CommunicationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			copied := *l
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeLogRepo) FindByCampaignID(_ context.Context, campaignID primitive.ObjectID) ([]*models.CommunicationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CommunicationLog
	for _, l := range r.logs {
		if l.CampaignID == campaignID {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) MarkSent(_ context.Context, id primitive.ObjectID, messageID string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			l.Status = models.LogStatusSent
			l.MessageID = messageID
			l.SentAt = &sentAt
			l.Error = ""
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeLogRepo) MarkFailed(_ context.Context, id primitive.ObjectID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.logs {
		if l.ID == id {
			l.Status = models.LogStatusFailed
			l.Error = errMsg
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeLogRepo) CountByStatus(_ context.Context, campaignID primitive.ObjectID) (*models.CampaignStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.CampaignStats{}
	for _, l := range r.logs {
		if l.CampaignID != campaignID {
			continue
		}
		stats.Total++
		switch l.Status {
		case models.LogStatusSent:
			stats.Sent++
		case models.LogStatusFailed:
			stats.Failed++
		case models.LogStatusPending:
			stats.Pending++
		}
	}
	return stats, nil
}

func (r *fakeLogRepo) FindStalePending(_ context.Context, olderThan time.Time) ([]*models.CommunicationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CommunicationLog
	for _, l := range r.logs {
		if l.Status == models.LogStatusPending && l.CreatedAt.Before(olderThan) {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) DeleteByCampaignID(_ context.Context, campaignID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.CommunicationLog
	var deleted int64
	for _, l := range r.logs {
		if l.CampaignID == campaignID {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept
	return deleted, nil
}

type fakeAdminUserRepo struct {
	mu    sync.Mutex
	users []*models.AdminUser
}

func (r *fakeAdminUserRepo) Create(_ context.Context, user *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	copied := *user
	r.users = append(r.users, &copied)
	return nil
}

func (r *fakeAdminUserRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAdminUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// fakeGateway records delivery attempts and fails selected recipients.
type fakeGateway struct {
	mu         sync.Mutex
	sent       []string
	failEmails map[string]bool
	nextID     int
}

func (g *fakeGateway) Send(to, subject, htmlBody, textBody string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failEmails[to] {
		return "", fmt.Errorf("mailbox unavailable for %s", to)
	}
	g.nextID++
	g.sent = append(g.sent, to)
	return fmt.Sprintf("MSG-%d", g.nextID), nil
}

func (g *fakeGateway) Verify() error { return nil }

func (g *fakeGateway) sentTo() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.sent))
	copy(out, g.sent)
	return out
}

// staticGenerator returns a fixed response for AI service tests.
type staticGenerator struct {
	response string
	err      error
}

func (g *staticGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.response, g.err
}
