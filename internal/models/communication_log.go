package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Communication log statuses
const (
	LogStatusPending = "PENDING"
	LogStatusSent    = "SENT"
	LogStatusFailed  = "FAILED"
)

// CommunicationLog is one per-recipient delivery record created at launch
// time. The recipient name/email are snapshots decoupled from the live
// customer record, and the message is stored already personalized. Each log
// is mutated exactly once, by the delivery attempt that owns it.
type CommunicationLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CampaignID    primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	CustomerID    primitive.ObjectID `bson:"customerId" json:"customerId"`
	CustomerName  string             `bson:"customerName" json:"customerName"`
	CustomerEmail string             `bson:"customerEmail" json:"customerEmail"`
	Message       string             `bson:"message" json:"message"`
	Status        string             `bson:"status" json:"status"` // PENDING, SENT, FAILED
	LaunchID      string             `bson:"launchId,omitempty" json:"launchId,omitempty"`
	MessageID     string             `bson:"messageId,omitempty" json:"messageId,omitempty"`
	Error         string             `bson:"error,omitempty" json:"error,omitempty"`
	SentAt        *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CampaignStats aggregates a campaign's communication logs by status,
// across every launch. Always recomputed from the log rows, never cached.
type CampaignStats struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}
