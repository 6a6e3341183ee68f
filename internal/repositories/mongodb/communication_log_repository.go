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

// CommunicationLogRepository implements the
// repositories.CommunicationLogRepository interface
type CommunicationLogRepository struct {
	collection *mongo.Collection
}

// NewCommunicationLogRepository creates a new CommunicationLogRepository
func NewCommunicationLogRepository(db *mongo.Database) repositories.CommunicationLogRepository {
	return &CommunicationLogRepository{
		collection: db.Collection("communication_logs"),
	}
}

// CreateMany inserts a launch batch of logs. Insertion is ordered so the
// delivery loop can walk the returned ids in creation order.
func (r *CommunicationLogRepository) CreateMany(ctx context.Context, logs []*models.CommunicationLog) ([]primitive.ObjectID, error) {
	now := time.Now()
	docs := make([]interface{}, 0, len(logs))
	for _, l := range logs {
		l.CreatedAt = now
		l.UpdatedAt = now
		docs = append(docs, l)
	}

	result, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(result.InsertedIDs))
	for _, id := range result.InsertedIDs {
		ids = append(ids, id.(primitive.ObjectID))
	}

	return ids, nil
}

// FindByID finds a log by ID
func (r *CommunicationLogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CommunicationLog, error) {
	var log models.CommunicationLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// FindByCampaignID finds all logs for a campaign across every launch,
// most recent first
func (r *CommunicationLogRepository) FindByCampaignID(ctx context.Context, campaignID primitive.ObjectID) ([]*models.CommunicationLog, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"campaignId": campaignID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*models.CommunicationLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	if logs == nil {
		logs = []*models.CommunicationLog{}
	}

	return logs, nil
}

// MarkSent transitions a single log PENDING -> SENT
func (r *CommunicationLogRepository) MarkSent(ctx context.Context, id primitive.ObjectID, messageID string, sentAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":    models.LogStatusSent,
			"messageId": messageID,
			"sentAt":    sentAt,
			"updatedAt": time.Now(),
		},
	})
	return err
}

// MarkFailed transitions a single log PENDING -> FAILED
func (r *CommunicationLogRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":    models.LogStatusFailed,
			"error":     errMsg,
			"updatedAt": time.Now(),
		},
	})
	return err
}

// CountByStatus aggregates a campaign's logs by status
func (r *CommunicationLogRepository) CountByStatus(ctx context.Context, campaignID primitive.ObjectID) (*models.CampaignStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"campaignId": campaignID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	stats := &models.CampaignStats{}
	for _, res := range results {
		stats.Total += res.Count
		switch res.Status {
		case models.LogStatusSent:
			stats.Sent = res.Count
		case models.LogStatusFailed:
			stats.Failed = res.Count
		case models.LogStatusPending:
			stats.Pending = res.Count
		}
	}

	return stats, nil
}

// FindStalePending finds logs still PENDING that were created before the
// given cutoff. Used by the startup reconciliation sweep.
func (r *CommunicationLogRepository) FindStalePending(ctx context.Context, olderThan time.Time) ([]*models.CommunicationLog, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := r.collection.Find(ctx, bson.M{
		"status":    models.LogStatusPending,
		"createdAt": bson.M{"$lt": olderThan},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*models.CommunicationLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	if logs == nil {
		logs = []*models.CommunicationLog{}
	}

	return logs, nil
}

// DeleteByCampaignID bulk-purges all logs for a campaign
func (r *CommunicationLogRepository) DeleteByCampaignID(ctx context.Context, campaignID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"campaignId": campaignID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
