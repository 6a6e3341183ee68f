package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses. Progression is strictly forward: draft -> active ->
// completed, with paused reachable from active. Only draft campaigns may be
// edited, and launch is the only way out of draft.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Audience rule operators
const (
	OpGreaterThan = "gt"
	OpGreaterOrEq = "gte"
	OpLessThan    = "lt"
	OpLessOrEq    = "lte"
	OpEquals      = "eq"
	OpContains    = "contains"
	OpNotContains = "not_contains"

	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

// AudienceRule is one comparison clause over a customer attribute. The
// logical operator connects a rule to the previous one in the list; the
// first rule carries none.
type AudienceRule struct {
	Field           string      `bson:"field" json:"field"`
	Operator        string      `bson:"operator" json:"operator"`
	Value           interface{} `bson:"value" json:"value"`
	LogicalOperator string      `bson:"logicalOperator,omitempty" json:"logicalOperator,omitempty"`
}

// Campaign represents a marketing campaign with its authored audience rules
type Campaign struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Message       string             `bson:"message" json:"message"` // template with {name} placeholder
	AudienceRules []AudienceRule     `bson:"audienceRules" json:"audienceRules"`
	AudienceSize  int                `bson:"audienceSize" json:"audienceSize"` // snapshot at create/update time
	Status        string             `bson:"status" json:"status"`
	LaunchCount   int                `bson:"launchCount" json:"launchCount"`
	LastLaunchID  string             `bson:"lastLaunchId,omitempty" json:"lastLaunchId,omitempty"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CampaignInput is the payload accepted when creating or updating a campaign
type CampaignInput struct {
	Name          string         `json:"name" binding:"required,max=200"`
	Message       string         `json:"message" binding:"required,max=1000"`
	AudienceRules []AudienceRule `json:"audienceRules" binding:"required,min=1"`
}
