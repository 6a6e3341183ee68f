package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer represents a CRM customer record
type Customer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"` // unique
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	TotalSpends float64            `bson:"totalSpends" json:"totalSpends"`
	Visits      int                `bson:"visits" json:"visits"`
	LastVisit   time.Time          `bson:"lastVisit" json:"lastVisit"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomerInput is the payload accepted when creating or updating a customer
type CustomerInput struct {
	Name        string    `json:"name" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	Phone       string    `json:"phone"`
	TotalSpends float64   `json:"totalSpends" binding:"gte=0"`
	Visits      int       `json:"visits" binding:"gte=0"`
	LastVisit   time.Time `json:"lastVisit"`
}
