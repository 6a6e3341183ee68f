package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xenocrm/crm-backend/internal/config"
	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/repositories"
	"github.com/xenocrm/crm-backend/pkg/emailgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CampaignDispatcher owns the campaign launch path: freezing an audience
// into a batch of communication logs and fanning delivery out to the email
// gateway in the background. Launch returns as soon as the logs are
// persisted; each log is then resolved to SENT or FAILED independently by
// the delivery loop that owns its batch.
type CampaignDispatcher struct {
	campaignRepo repositories.CampaignRepository
	logRepo      repositories.CommunicationLogRepository
	audience     *AudienceService
	gateway      emailgateway.Gateway

	minDelay        time.Duration
	maxDelay        time.Duration
	pendingRetryAge time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	launching map[primitive.ObjectID]struct{}
}

// NewCampaignDispatcher creates a new CampaignDispatcher
func NewCampaignDispatcher(
	campaignRepo repositories.CampaignRepository,
	logRepo repositories.CommunicationLogRepository,
	audience *AudienceService,
	gateway emailgateway.Gateway,
	cfg config.DeliveryConfig,
) *CampaignDispatcher {
	baseCtx, cancel := context.WithCancel(context.Background())

	minDelay := time.Duration(cfg.MinDelayMs) * time.Millisecond
	maxDelay := time.Duration(cfg.MaxDelayMs) * time.Millisecond
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &CampaignDispatcher{
		campaignRepo:    campaignRepo,
		logRepo:         logRepo,
		audience:        audience,
		gateway:         gateway,
		minDelay:        minDelay,
		maxDelay:        maxDelay,
		pendingRetryAge: time.Duration(cfg.PendingRetryMin) * time.Minute,
		baseCtx:         baseCtx,
		cancel:          cancel,
		launching:       make(map[primitive.ObjectID]struct{}),
	}
}

// Launch resolves the campaign's current audience, creates one PENDING
// communication log per matched customer and schedules background
// delivery. It returns the number of queued messages without waiting for
// any delivery attempt.
//
// An empty audience rejects the launch and leaves the campaign untouched.
// Concurrent launches of the same campaign are serialized: the loser gets
// ErrLaunchInProgress instead of a duplicate batch.
func (d *CampaignDispatcher) Launch(ctx context.Context, campaignID primitive.ObjectID) (int, error) {
	if !d.beginLaunch(campaignID) {
		return 0, ErrLaunchInProgress
	}
	defer d.endLaunch(campaignID)

	campaign, err := d.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	customers, err := d.audience.Resolve(ctx, campaign.AudienceRules)
	if err != nil {
		return 0, err
	}
	if len(customers) == 0 {
		return 0, ErrEmptyAudience
	}

	launchID := uuid.NewString()
	fromStatuses := []string{
		models.CampaignStatusDraft,
		models.CampaignStatusActive,
		models.CampaignStatusPaused,
		models.CampaignStatusCompleted,
	}
	ok, err := d.campaignRepo.UpdateStatusIf(ctx, campaignID, fromStatuses, models.CampaignStatusActive, launchID)
	if err != nil {
		return 0, fmt.Errorf("failed to activate campaign: %w", err)
	}
	if !ok {
		return 0, ErrNotFound
	}

	logs := make([]*models.CommunicationLog, 0, len(customers))
	for _, customer := range customers {
		logs = append(logs, &models.CommunicationLog{
			CampaignID:    campaignID,
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			Message:       PersonalizeMessage(campaign.Message, customer.Name),
			Status:        models.LogStatusPending,
			LaunchID:      launchID,
		})
	}

	ids, err := d.logRepo.CreateMany(ctx, logs)
	if err != nil {
		return 0, fmt.Errorf("failed to create communication logs: %w", err)
	}

	d.wg.Add(1)
	go d.deliverBatch(campaign.Name, ids)

	return len(ids), nil
}

// Resend re-invokes Launch against the same campaign. The current audience
// is resolved afresh and a second, independent batch of logs is created;
// nothing is deduplicated against prior batches.
func (d *CampaignDispatcher) Resend(ctx context.Context, campaignID primitive.ObjectID) (int, error) {
	return d.Launch(ctx, campaignID)
}

// Stats aggregates every communication log for the campaign, across all
// launches, by status. Counts are recomputed from the log rows on each
// call; a campaign with no logs yet reports all zeros.
func (d *CampaignDispatcher) Stats(ctx context.Context, campaignID primitive.ObjectID) (*models.CampaignStats, error) {
	if _, err := d.campaignRepo.FindByID(ctx, campaignID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d.logRepo.CountByStatus(ctx, campaignID)
}

// ProcessDeliveryReceipt applies a provider delivery receipt to a single
// log. Receipts arrive for logs the background loop already handed to the
// gateway, so a log that has left PENDING is only updated when the receipt
// contradicts a SENT result with a failure.
func (d *CampaignDispatcher) ProcessDeliveryReceipt(ctx context.Context, logID primitive.ObjectID, status string, timestamp time.Time) error {
	entry, err := d.logRepo.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	switch status {
	case models.LogStatusSent:
		if entry.Status == models.LogStatusSent {
			return nil
		}
		return d.logRepo.MarkSent(ctx, logID, entry.MessageID, timestamp)
	case models.LogStatusFailed:
		return d.logRepo.MarkFailed(ctx, logID, "delivery receipt reported failure")
	default:
		return validationErrorf("invalid delivery receipt status %q", status)
	}
}

// RecoverPending re-enqueues logs left PENDING by a previous process run.
// Called once at startup; any log older than the retry age is handed to a
// fresh delivery loop for its campaign.
func (d *CampaignDispatcher) RecoverPending(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-d.pendingRetryAge)
	stale, err := d.logRepo.FindStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to scan pending logs: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	// Group by campaign, preserving creation order within each batch.
	order := make([]primitive.ObjectID, 0)
	batches := make(map[primitive.ObjectID][]primitive.ObjectID)
	for _, l := range stale {
		if _, seen := batches[l.CampaignID]; !seen {
			order = append(order, l.CampaignID)
		}
		batches[l.CampaignID] = append(batches[l.CampaignID], l.ID)
	}

	recovered := 0
	for _, campaignID := range order {
		ids := batches[campaignID]
		campaign, err := d.campaignRepo.FindByID(ctx, campaignID)
		if err != nil {
			// Orphaned logs: their campaign is gone, so no delivery loop
			// will ever own them. Resolve them explicitly.
			for _, id := range ids {
				if markErr := d.logRepo.MarkFailed(ctx, id, "campaign no longer exists"); markErr != nil {
					log.Printf("[WARN] recovery: failed to mark orphaned log %s: %v", id.Hex(), markErr)
				}
			}
			continue
		}

		d.wg.Add(1)
		go d.deliverBatch(campaign.Name, ids)
		recovered += len(ids)
	}

	return recovered, nil
}

// Stop cancels in-flight delivery loops and waits for them to exit. Logs
// not yet attempted stay PENDING for the next start's recovery sweep.
func (d *CampaignDispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}

// deliverBatch walks one launch batch sequentially, pacing attempts with
// randomized jitter so the gateway is never hammered. Each log transitions
// exactly once; one recipient's failure never aborts the rest.
func (d *CampaignDispatcher) deliverBatch(campaignName string, ids []primitive.ObjectID) {
	defer d.wg.Done()

	subject := fmt.Sprintf("%s - Special Message for You", campaignName)

	for _, logID := range ids {
		if !d.pause() {
			return // shutting down; remaining logs stay PENDING
		}

		entry, err := d.logRepo.FindByID(d.baseCtx, logID)
		if err != nil {
			log.Printf("[WARN] delivery: failed to load log %s: %v", logID.Hex(), err)
			continue
		}
		if entry.Status != models.LogStatusPending {
			continue
		}

		messageID, sendErr := d.gateway.Send(entry.CustomerEmail, subject, emailgateway.WrapHTML(entry.Message), entry.Message)
		if sendErr != nil {
			if err := d.logRepo.MarkFailed(d.baseCtx, logID, sendErr.Error()); err != nil {
				log.Printf("[ERROR] delivery: failed to mark log %s failed: %v", logID.Hex(), err)
			}
			continue
		}

		if err := d.logRepo.MarkSent(d.baseCtx, logID, messageID, time.Now()); err != nil {
			log.Printf("[ERROR] delivery: failed to mark log %s sent: %v", logID.Hex(), err)
		}
	}
}

// pause sleeps for the inter-message jitter, returning false if the
// dispatcher was stopped while waiting
func (d *CampaignDispatcher) pause() bool {
	delay := d.minDelay
	if spread := d.maxDelay - d.minDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-d.baseCtx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (d *CampaignDispatcher) beginLaunch(campaignID primitive.ObjectID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.launching[campaignID]; busy {
		return false
	}
	d.launching[campaignID] = struct{}{}
	return true
}

func (d *CampaignDispatcher) endLaunch(campaignID primitive.ObjectID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.launching, campaignID)
}

// PersonalizeMessage substitutes every {name} occurrence in a template
func PersonalizeMessage(template, customerName string) string {
	return strings.ReplaceAll(template, "{name}", customerName)
}
