package mongodb

import (
	"context"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CampaignRepository implements the repositories.CampaignRepository interface
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) repositories.CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection("campaigns"),
	}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, campaign)
	if err != nil {
		return err
	}
	campaign.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a campaign by ID
func (r *CampaignRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindAll finds all campaigns, most recent first
func (r *CampaignRepository) FindAll(ctx context.Context) ([]*models.Campaign, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}

	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}

	return campaigns, nil
}

// Update updates a campaign
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": campaign.ID}, campaign)
	return err
}

// Delete deletes a campaign
func (r *CampaignRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count counts all campaigns
func (r *CampaignRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// UpdateStatusIf atomically transitions a campaign's status. The filter
// includes the expected statuses so two concurrent launches cannot both
// win the transition.
func (r *CampaignRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from []string, to string, launchID string) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"status":    to,
			"updatedAt": time.Now(),
		},
	}
	if launchID != "" {
		update["$set"].(bson.M)["lastLaunchId"] = launchID
		update["$inc"] = bson.M{"launchCount": 1}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}
