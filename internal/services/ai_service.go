package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/rules"
)

// Generator abstracts the text-generation collaborator. Its output is
// untrusted free text that may contain a JSON payload; every caller here
// parses defensively and degrades to a canned fallback, never a hard error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService wraps the text-generation collaborator with the CRM's helper
// prompts
type AIService struct {
	generator Generator
}

// NewAIService creates a new AIService
func NewAIService(generator Generator) *AIService {
	return &AIService{generator: generator}
}

const naturalLanguagePrompt = `You are an expert at converting natural language descriptions into structured audience rules for a CRM system.

Available fields:
- totalSpends (number): Customer's total spending amount
- visits (number): Number of times customer visited
- lastVisit (date): Date of customer's last visit
- name (string): Customer's name
- email (string): Customer's email

Available operators:
- For numbers: gt, gte, lt, lte, eq
- For strings: eq, contains, not_contains
- For dates: gt (after), lt (before), eq (on)

Logical operators: AND, OR

Convert the following natural language prompt into a JSON array of audience rules:
%q

Return ONLY a valid JSON array with this structure:
[
  {
    "field": "totalSpends",
    "operator": "gt",
    "value": 10000,
    "logicalOperator": "AND"
  }
]

Rules:
1. First rule should not have logicalOperator
2. Use numbers for totalSpends/visits and YYYY-MM-DD strings for dates
3. Convert relative dates like "90 days ago" to actual dates
4. Convert currency amounts to plain numbers
5. Return an empty array if the prompt is unclear or invalid`

// NaturalLanguageToRules converts a free-text audience description into
// structured audience rules. Any upstream or parsing failure yields an
// empty rule list, never an error.
func (s *AIService) NaturalLanguageToRules(ctx context.Context, prompt string) []models.AudienceRule {
	text, err := s.generator.Generate(ctx, fmt.Sprintf(naturalLanguagePrompt, prompt))
	if err != nil {
		log.Printf("[WARN] ai: natural-language rules generation failed: %v", err)
		return []models.AudienceRule{}
	}

	raw, ok := extractJSONArray(text)
	if !ok {
		log.Printf("[WARN] ai: no JSON array in natural-language rules response")
		return []models.AudienceRule{}
	}

	var parsed []models.AudienceRule
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("[WARN] ai: failed to parse natural-language rules: %v", err)
		return []models.AudienceRule{}
	}

	// The model occasionally invents fields or operators; a rule list that
	// does not compile is useless to the rule builder.
	if err := rules.Validate(parsed); err != nil {
		log.Printf("[WARN] ai: generated rules failed validation: %v", err)
		return []models.AudienceRule{}
	}

	return parsed
}

// MessageSuggestions generates up to three campaign message variants, each
// carrying the {name} placeholder. Falls back to canned variants.
func (s *AIService) MessageSuggestions(ctx context.Context, objective, audienceDescription string) []string {
	fallback := []string{
		"Hi {name}, we have something special waiting for you. Come check it out today!",
		"Hey {name}! We miss you. Here's an exclusive offer just for you.",
		"{name}, don't miss out - your personalized deal expires soon!",
	}

	prompt := fmt.Sprintf(`Generate 3 different marketing message variants for a CRM campaign.

Campaign Objective: %s
Target Audience: %s

Requirements:
1. Each message should be personalized (use the {name} placeholder)
2. Keep messages under 160 characters
3. Include a clear call-to-action
4. Vary the tone: professional, friendly, and urgent

Return ONLY a JSON array of 3 message strings:
["message1", "message2", "message3"]`, objective, audienceDescription)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[WARN] ai: message suggestions generation failed: %v", err)
		return fallback
	}

	raw, ok := extractJSONArray(text)
	if !ok {
		return fallback
	}

	var messages []string
	if err := json.Unmarshal([]byte(raw), &messages); err != nil || len(messages) == 0 {
		return fallback
	}

	if len(messages) > 3 {
		messages = messages[:3]
	}
	return messages
}

// CampaignSummary produces a human-readable performance summary for a
// campaign's delivery stats. Falls back to a formatted plain summary.
func (s *AIService) CampaignSummary(ctx context.Context, stats *models.CampaignStats) string {
	deliveryRate := 0.0
	if stats.Total > 0 {
		deliveryRate = float64(stats.Sent) / float64(stats.Total) * 100
	}

	fallback := fmt.Sprintf("Campaign reached %d customers with %d messages delivered successfully.", stats.Total, stats.Sent)
	if stats.Failed > 0 {
		fallback += fmt.Sprintf(" %d messages failed delivery.", stats.Failed)
	}

	prompt := fmt.Sprintf(`Generate a concise, professional campaign performance summary (2-3 sentences) from these statistics:

Total Messages: %d
Successfully Sent: %d
Failed: %d
Pending: %d
Delivery Rate: %.1f%%

Highlight overall performance, key concerns and actionable recommendations. Do not just repeat the numbers.`,
		stats.Total, stats.Sent, stats.Failed, stats.Pending, deliveryRate)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}

	return strings.TrimSpace(text)
}

// SuggestSendTime recommends when to send a campaign. Falls back to a
// best-practice default.
func (s *AIService) SuggestSendTime(ctx context.Context, audienceSize int, campaignType string) string {
	fallback := "For best engagement, consider sending on Tuesday-Thursday between 10 AM - 2 PM when customers are most active."

	prompt := fmt.Sprintf(`Based on marketing best practices, suggest the optimal time to send a campaign:

Audience Size: %d customers
Campaign Type: %s

Consider day of the week, time of day and audience size. Provide a specific recommendation with reasoning in 1-2 sentences.`,
		audienceSize, campaignType)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}

	return strings.TrimSpace(text)
}

// CampaignTags categorizes a campaign with 2-3 short tags. Falls back to
// generic tags.
func (s *AIService) CampaignTags(ctx context.Context, name, message string, audienceRules []models.AudienceRule) []string {
	fallback := []string{"Marketing", "Campaign"}

	described := make([]string, 0, len(audienceRules))
	for _, r := range audienceRules {
		described = append(described, fmt.Sprintf("%s %s %v", r.Field, r.Operator, r.Value))
	}

	prompt := fmt.Sprintf(`Analyze this campaign and generate 2-3 relevant tags (e.g. "Win-back", "High Value", "Retention", "Promotional"):

Campaign Name: %s
Message: %s
Audience Rules: %s

Return ONLY a JSON array of 2-3 tag strings:
["tag1", "tag2"]`, name, message, strings.Join(described, ", "))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return fallback
	}

	raw, ok := extractJSONArray(text)
	if !ok {
		return fallback
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || len(tags) == 0 {
		return fallback
	}

	if len(tags) > 3 {
		tags = tags[:3]
	}
	return tags
}

// extractJSONArray pulls the first-to-last bracketed span out of free
// text, tolerating prose or code fences around the payload
func extractJSONArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
