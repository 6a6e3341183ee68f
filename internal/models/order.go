package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order represents a customer order
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	OrderDate  time.Time          `bson:"orderDate" json:"orderDate"`
	Amount     float64            `bson:"amount" json:"amount"`
	Status     string             `bson:"status" json:"status"` // pending, completed, cancelled
	Items      []OrderItem        `bson:"items,omitempty" json:"items,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem represents one line item of an order
type OrderItem struct {
	ProductID   string  `bson:"productId,omitempty" json:"productId,omitempty"`
	ProductName string  `bson:"productName" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
}

// OrderInput is the payload accepted when creating an order
type OrderInput struct {
	CustomerID string      `json:"customerId" binding:"required"`
	Amount     float64     `json:"amount" binding:"gte=0"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items"`
}

// RevenueStats holds aggregate figures computed over all orders
type RevenueStats struct {
	TotalRevenue  float64 `bson:"totalRevenue" json:"totalRevenue"`
	AvgOrderValue float64 `bson:"avgOrderValue" json:"avgOrderValue"`
}
