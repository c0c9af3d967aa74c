package booking

import (
	"context"

	"github.com/leadline-ai/leadline/pkg/logging"
)

// NotifyingAdapter decorates another Adapter so the merchant still receives
// a lead summary when bookings run through an external system. Notification
// is best-effort: a send failure never disturbs the scheduling result.
type NotifyingAdapter struct {
	inner    Adapter
	notifier Notifier
	logger   *logging.Logger
}

// NewNotifyingAdapter wraps inner with merchant notification.
func NewNotifyingAdapter(inner Adapter, notifier Notifier, logger *logging.Logger) *NotifyingAdapter {
	if inner == nil {
		panic("booking: inner adapter cannot be nil")
	}
	if notifier == nil {
		panic("booking: notifier cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NotifyingAdapter{
		inner:    inner,
		notifier: notifier,
		logger:   logger,
	}
}

// Name reports the wrapped adapter's name.
func (a *NotifyingAdapter) Name() string { return a.inner.Name() }

// Schedule delegates to the wrapped adapter, then notifies the merchant
// regardless of whether the booking succeeded: a failed booking is exactly
// when the merchant needs the lead details for a manual follow-up.
func (a *NotifyingAdapter) Schedule(ctx context.Context, lead LeadSummary) (*Result, error) {
	result, err := a.inner.Schedule(ctx, lead)

	if notifyErr := a.notifier.NotifyLead(ctx, lead); notifyErr != nil {
		a.logger.Error("lead notification failed",
			"error", notifyErr,
			"adapter", a.inner.Name(),
			"merchant_id", lead.MerchantID,
			"session_id", lead.SessionID,
		)
	}

	return result, err
}

var _ Adapter = (*NotifyingAdapter)(nil)
