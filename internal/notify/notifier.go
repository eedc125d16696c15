// Package notify defines the notification interface and implementations
// for deal-alert delivery.
package notify

import (
	"context"
)

// AlertPayload contains the data needed to send a deal alert notification.
type AlertPayload struct {
	ListingID      string
	ListingTitle   string
	ImageURL       string
	AskingPrice    string
	EstimatedValue string
	DiscountPct    float64
	Confidence     int
	Category       string
	Brand          string
	Condition      string
}

// Notifier defines the interface for sending deal alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload) error
}
