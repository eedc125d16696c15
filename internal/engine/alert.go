package engine

import (
	"context"
	"fmt"

	"github.com/gearmarket/market-appraiser/internal/metrics"
	"github.com/gearmarket/market-appraiser/internal/notify"
	"github.com/gearmarket/market-appraiser/internal/store"
	domain "github.com/gearmarket/market-appraiser/pkg/types"
)

const batchThreshold = 5

// ProcessAlerts sends notifications for pending deal alerts, then marks them
// as notified. With batchThreshold or more pending alerts they go out as a
// single batch message. Failed notifications are not marked as notified and
// retry on the next cycle.
func ProcessAlerts(
	ctx context.Context,
	s store.Store,
	n notify.Notifier,
) error {
	pending, err := s.ListPendingAlerts(ctx)
	if err != nil {
		return fmt.Errorf("listing pending alerts: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	if len(pending) >= batchThreshold {
		return sendBatch(ctx, s, n, pending)
	}

	for i := range pending {
		if err := sendSingle(ctx, s, n, &pending[i]); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			return err
		}
	}

	return nil
}

func sendSingle(
	ctx context.Context,
	s store.Store,
	n notify.Notifier,
	alert *domain.DealAlert,
) error {
	payload, err := buildAlertPayload(ctx, s, alert)
	if err != nil {
		return err
	}

	if err := n.SendAlert(ctx, payload); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}

	metrics.AlertsFiredTotal.Inc()

	return s.MarkAlertNotified(ctx, alert.ID)
}

func sendBatch(
	ctx context.Context,
	s store.Store,
	n notify.Notifier,
	alerts []domain.DealAlert,
) error {
	payloads := make([]notify.AlertPayload, 0, len(alerts))
	alertIDs := make([]string, 0, len(alerts))

	for i := range alerts {
		payload, err := buildAlertPayload(ctx, s, &alerts[i])
		if err != nil {
			continue // listing may have been removed
		}
		payloads = append(payloads, *payload)
		alertIDs = append(alertIDs, alerts[i].ID)
	}

	if len(payloads) == 0 {
		return nil
	}

	if err := n.SendBatchAlert(ctx, payloads); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending batch alert: %w", err)
	}

	metrics.AlertsFiredTotal.Add(float64(len(alertIDs)))

	for _, id := range alertIDs {
		if err := s.MarkAlertNotified(ctx, id); err != nil {
			return fmt.Errorf("marking alert %s notified: %w", id, err)
		}
	}
	return nil
}

func buildAlertPayload(
	ctx context.Context,
	s store.Store,
	alert *domain.DealAlert,
) (*notify.AlertPayload, error) {
	listing, err := s.GetListing(ctx, alert.ListingID)
	if err != nil {
		return nil, fmt.Errorf("getting listing %s: %w", alert.ListingID, err)
	}

	payload := &notify.AlertPayload{
		ListingID:      listing.ID,
		ListingTitle:   listing.Title,
		ImageURL:       listing.ImageURL,
		AskingPrice:    fmt.Sprintf("$%.2f", alert.AskingPrice),
		EstimatedValue: fmt.Sprintf("$%.2f", alert.FinalValue),
		DiscountPct:    alert.DifferencePct,
		Category:       string(listing.Category),
		Brand:          listing.Brand,
		Condition:      string(listing.Condition),
	}

	if analysis, err := s.GetLatestAnalysis(ctx, listing.ID); err == nil {
		payload.Confidence = analysis.Result.Confidence
	}

	return payload, nil
}
