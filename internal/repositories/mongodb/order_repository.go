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

// OrderRepository implements the repositories.OrderRepository interface
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) repositories.OrderRepository {
	return &OrderRepository{
		collection: db.Collection("orders"),
	}
}

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCustomerID finds all orders placed by a customer
func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.M{"orderDate": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []*models.Order{}
	}

	return orders, nil
}

// FindAll finds all orders, most recent first
func (r *OrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.M{"orderDate": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []*models.Order{}
	}

	return orders, nil
}

// Update updates an order
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	return err
}

// Delete deletes an order
func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count counts all orders
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// RevenueStats computes total revenue and average order value over
// completed orders
func (r *OrderRepository) RevenueStats(ctx context.Context) (*models.RevenueStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.OrderStatusCompleted}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalRevenue":  bson.M{"$sum": "$amount"},
			"avgOrderValue": bson.M{"$avg": "$amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.RevenueStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &models.RevenueStats{}, nil
	}

	return &results[0], nil
}
